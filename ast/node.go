package ast

// Kind identifies the statement a Query compiles to.
type Kind int

const (
	KindSelect Kind = iota
	KindInsert
	KindUpdate
	KindDelete
)

func (k Kind) String() string {
	switch k {
	case KindSelect:
		return "select"
	case KindInsert:
		return "insert"
	case KindUpdate:
		return "update"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Node is implemented by every element of a Query that the grammar visits.
type Node interface {
	Accept(v Visitor) error
	Fingerprint() uint64
}
