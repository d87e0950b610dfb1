package directory

import (
	"fmt"

	"github.com/rawen554/userdir/internal/store/memory"
)

type IDStrategy string

const (
	// CountIDs assigns count+1, moving forward past ids that are still taken.
	CountIDs IDStrategy = "count"
	// SequenceIDs assigns one more than the highest id ever held.
	SequenceIDs IDStrategy = "sequence"
)

func ParseIDStrategy(s string) (IDStrategy, error) {
	switch IDStrategy(s) {
	case CountIDs, SequenceIDs:
		return IDStrategy(s), nil
	default:
		return "", fmt.Errorf("unknown id strategy %q", s)
	}
}

func (s IDStrategy) allocator() func(memory.View) int {
	if s == SequenceIDs {
		return func(v memory.View) int {
			return v.Highest() + 1
		}
	}

	return func(v memory.View) int {
		id := v.Len() + 1
		for v.Has(id) {
			id++
		}
		return id
	}
}
