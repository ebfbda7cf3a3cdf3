package ast

import "github.com/Konsultn-Engineering/querykit/utils"

// Where is one node of the predicate tree. The set of implementations is
// closed: Basic, In, Between, Null and Nested.
type Where interface {
	Node
	Connector() string
	whereNode()
}

// Basic renders "column operator ?" and consumes one binding.
type Basic struct {
	Column   string
	Operator string
	Boolean  string
}

func (w *Basic) Accept(v Visitor) error { return v.VisitBasic(w) }
func (w *Basic) Connector() string      { return w.Boolean }
func (*Basic) whereNode()               {}

func (w *Basic) Fingerprint() uint64 {
	h := utils.MixString(0x62, w.Boolean)
	h = utils.MixString(h, w.Column)
	return utils.MixString(h, w.Operator)
}

// In renders "column [NOT ]IN (?, ...)" and consumes Count bindings.
type In struct {
	Column  string
	Count   int
	Not     bool
	Boolean string
}

func (w *In) Accept(v Visitor) error { return v.VisitIn(w) }
func (w *In) Connector() string      { return w.Boolean }
func (*In) whereNode()               {}

func (w *In) Fingerprint() uint64 {
	h := utils.MixString(0x69, w.Boolean)
	h = utils.MixString(h, w.Column)
	h = utils.Mix64(h, uint64(w.Count))
	return utils.Mix64(h, flag(w.Not))
}

// Between renders "column [NOT ]BETWEEN ? AND ?" and consumes two bindings.
type Between struct {
	Column  string
	Not     bool
	Boolean string
}

func (w *Between) Accept(v Visitor) error { return v.VisitBetween(w) }
func (w *Between) Connector() string      { return w.Boolean }
func (*Between) whereNode()               {}

func (w *Between) Fingerprint() uint64 {
	h := utils.MixString(0x74, w.Boolean)
	h = utils.MixString(h, w.Column)
	return utils.Mix64(h, flag(w.Not))
}

// Null renders "column IS [NOT ]NULL" and consumes no bindings.
type Null struct {
	Column  string
	Not     bool
	Boolean string
}

func (w *Null) Accept(v Visitor) error { return v.VisitNull(w) }
func (w *Null) Connector() string      { return w.Boolean }
func (*Null) whereNode()               {}

func (w *Null) Fingerprint() uint64 {
	h := utils.MixString(0x6e, w.Boolean)
	h = utils.MixString(h, w.Column)
	return utils.Mix64(h, flag(w.Not))
}

// Nested renders its children in parentheses.
type Nested struct {
	Children []Where
	Boolean  string
}

func (w *Nested) Accept(v Visitor) error { return v.VisitNested(w) }
func (w *Nested) Connector() string      { return w.Boolean }
func (*Nested) whereNode()               {}

func (w *Nested) Fingerprint() uint64 {
	h := utils.MixString(0x6773, w.Boolean)
	return FingerprintWheres(h, w.Children)
}

// FingerprintWheres folds a predicate list into seed.
func FingerprintWheres(seed uint64, wheres []Where) uint64 {
	h := utils.Mix64(seed, uint64(len(wheres)))
	for _, w := range wheres {
		h = utils.Mix64(h, w.Fingerprint())
	}
	return h
}

func flag(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
