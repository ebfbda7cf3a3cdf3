package ast

import "github.com/Konsultn-Engineering/querykit/utils"

type Order struct {
	Column string
	Desc   bool
}

func (o *Order) Direction() string {
	if o.Desc {
		return "DESC"
	}
	return "ASC"
}

func (o *Order) Fingerprint() uint64 {
	return utils.Mix64(utils.U64(o.Column), flag(o.Desc))
}

// Assignment is one column of an insert or update payload. Its value lives in
// the builder's bindings at the same position.
type Assignment struct {
	Column string
}
