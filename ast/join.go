package ast

import "github.com/Konsultn-Engineering/querykit/utils"

type JoinType int

const (
	JoinInner JoinType = iota
	JoinLeft
	JoinRight
)

// Join is "<TYPE> JOIN Table ON Left Operator Right".
type Join struct {
	Type     JoinType
	Table    string
	Left     string
	Operator string
	Right    string
}

func (j *Join) Fingerprint() uint64 {
	h := utils.Mix64(0x6a, uint64(j.Type))
	h = utils.MixString(h, j.Table)
	h = utils.MixString(h, j.Left)
	h = utils.MixString(h, j.Operator)
	return utils.MixString(h, j.Right)
}
