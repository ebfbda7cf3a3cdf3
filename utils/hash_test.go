package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestU64Deterministic(t *testing.T) {
	assert.Equal(t, U64("users"), U64("users"))
	assert.NotEqual(t, U64("users"), U64("posts"))
}

func TestMix64OrderMatters(t *testing.T) {
	a, b := U64("a"), U64("b")
	assert.NotEqual(t, Mix64(a, b), Mix64(b, a))
}

func TestMixStringsLengthPrefixed(t *testing.T) {
	assert.NotEqual(t,
		MixStrings(0, []string{"a,b"}),
		MixStrings(0, []string{"a", "b"}),
	)
	assert.NotEqual(t, MixStrings(0, nil), MixStrings(0, []string{""}))
}

func TestU64ToBytes(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 1, 2}, U64ToBytes(0x0102))
}
