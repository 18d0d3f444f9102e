package dom

import "fmt"

// Range is a half-open byte interval [Start, End) in the original input.
type Range struct {
	Start uint
	End   uint
}

// Len is the number of bytes covered by r.
func (r Range) Len() uint {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// Contains reports whether o lies entirely inside r.
func (r Range) Contains(o Range) bool {
	return r.Start <= o.Start && o.End <= r.End
}

// Slice returns the bytes of src covered by r, clamped to len(src).
func (r Range) Slice(src []byte) []byte {
	end := r.End
	if end > uint(len(src)) {
		end = uint(len(src))
	}
	if r.Start >= end {
		return nil
	}
	return src[r.Start:end]
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}
