package ast

// Visitor renders nodes. Adding a node type adds a method here, so every
// implementation has to handle it before the package compiles again.
type Visitor interface {
	VisitColumn(*Column) error
	VisitRaw(*Raw) error

	VisitBasic(*Basic) error
	VisitIn(*In) error
	VisitBetween(*Between) error
	VisitNull(*Null) error
	VisitNested(*Nested) error
}
