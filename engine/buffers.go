package engine

import "sync"

// scanBuffers holds the destinations for one row scan.
type scanBuffers struct {
	vals []any
	ptrs []any
}

// prepare sizes the buffers for n columns and points each ptr at its val.
func (sb *scanBuffers) prepare(n int) {
	if cap(sb.vals) < n {
		sb.vals = make([]any, n)
		sb.ptrs = make([]any, n)
	}
	sb.vals = sb.vals[:n]
	sb.ptrs = sb.ptrs[:n]
	for i := range sb.vals {
		sb.vals[i] = nil
		sb.ptrs[i] = &sb.vals[i]
	}
}

// release drops references to scanned values before pooling.
func (sb *scanBuffers) release() {
	clear(sb.vals)
	scanPool.Put(sb)
}

var scanPool = sync.Pool{
	New: func() any {
		return &scanBuffers{
			vals: make([]any, 0, 20),
			ptrs: make([]any, 0, 20),
		}
	},
}
