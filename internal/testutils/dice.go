package testutils

import (
	"fmt"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"
)

// ScriptedRoller returns queued faces in order and rolls 1 once the queue is
// empty. A queued face larger than the die is an error so broken scripts
// fail loudly.
type ScriptedRoller struct {
	mu    sync.Mutex
	faces []int
	sizes []int
}

// NewScriptedRoller creates a roller that plays back faces
func NewScriptedRoller(faces ...int) *ScriptedRoller {
	return &ScriptedRoller{faces: faces}
}

// Roll implements dice.Roller
func (r *ScriptedRoller) Roll(size int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sizes = append(r.sizes, size)
	if size <= 0 {
		return 0, fmt.Errorf("invalid die size %d", size)
	}
	if len(r.faces) == 0 {
		return 1, nil
	}

	face := r.faces[0]
	r.faces = r.faces[1:]
	if face < 1 || face > size {
		return 0, fmt.Errorf("scripted face %d does not fit a d%d", face, size)
	}
	return face, nil
}

// RollN implements dice.Roller
func (r *ScriptedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		face, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out = append(out, face)
	}
	return out, nil
}

// Sizes returns the die sizes requested so far
func (r *ScriptedRoller) Sizes() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.sizes...)
}

// EdgeRoller always rolls the lowest face, or the highest when High is set
type EdgeRoller struct {
	High bool
}

// Roll implements dice.Roller
func (r EdgeRoller) Roll(size int) (int, error) {
	if size <= 0 {
		return 0, fmt.Errorf("invalid die size %d", size)
	}
	if r.High {
		return size, nil
	}
	return 1, nil
}

// RollN implements dice.Roller
func (r EdgeRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		face, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out[i] = face
	}
	return out, nil
}

var (
	_ dice.Roller = (*ScriptedRoller)(nil)
	_ dice.Roller = EdgeRoller{}
)
