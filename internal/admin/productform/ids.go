package productform

import (
	"sync/atomic"
	"time"
)

// Sequence hands out entry ids. It starts at the wall clock in milliseconds and
// increases by one per call, so ids are never reused within a process.
type Sequence struct {
	last atomic.Int64
}

// NewSequence seeds a sequence from now (time.Now when nil).
func NewSequence(now func() time.Time) *Sequence {
	if now == nil {
		now = time.Now
	}
	seq := &Sequence{}
	seq.last.Store(now().UnixMilli())
	return seq
}

// Next returns a fresh id.
func (s *Sequence) Next() int64 {
	return s.last.Add(1)
}
