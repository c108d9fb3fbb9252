package engine

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/funko-battle/internal/errors"
)

// DiceSource adapts a toolkit dice.Roller to Random. A range of size n is one
// roll of an n sided die, so each draw consumes exactly one roll.
type DiceSource struct {
	roller dice.Roller
}

// NewDiceSource wraps roller. A nil roller uses dice.DefaultRoller, the
// toolkit's process wide crypto backed roller.
func NewDiceSource(roller dice.Roller) *DiceSource {
	if roller == nil {
		roller = dice.DefaultRoller
	}
	return &DiceSource{roller: roller}
}

// Between returns a uniform value in [lo, hi]
func (s *DiceSource) Between(lo, hi int) (int, error) {
	if hi < lo {
		return 0, errors.InvalidArgumentf("empty range [%d, %d]", lo, hi)
	}

	size := hi - lo + 1
	face, err := s.roller.Roll(size)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to roll d%d", size)
	}
	if face < 1 || face > size {
		return 0, errors.Internalf("roller returned %d for a d%d", face, size)
	}

	return lo + face - 1, nil
}

// Index returns a uniform value in [0, n)
func (s *DiceSource) Index(n int) (int, error) {
	if n <= 0 {
		return 0, errors.InvalidArgumentf("cannot pick from %d options", n)
	}
	return s.Between(0, n-1)
}

var _ Random = (*DiceSource)(nil)
