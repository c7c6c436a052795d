package gallery

import (
	"math"
	"time"

	"github.com/zeusync/weaponsim/internal/core/systems/physics"
	"github.com/zeusync/weaponsim/pkg/sequence"
)

// Action is a scripted player input.
type Action string

const (
	ActionEquip   Action = "equip"
	ActionUnequip Action = "unequip"
	ActionPress   Action = "press"
	ActionRelease Action = "release"
	ActionReload  Action = "reload"
	ActionHide    Action = "hide"
	ActionMove    Action = "move"
	ActionLook    Action = "look"
	ActionSetAmmo Action = "set_ammo"
)

func (a Action) valid() bool {
	switch a {
	case ActionEquip, ActionUnequip, ActionPress, ActionRelease, ActionReload,
		ActionHide, ActionMove, ActionLook, ActionSetAmmo:
		return true
	}
	return false
}

// Step fires Action once the simulated clock reaches At seconds. Steps may be
// listed in any order; steps due together run in listed order. Position is
// used by move, Target by look and Count by set_ammo.
type Step struct {
	At       float64      `yaml:"at" json:"at"`
	Action   Action       `yaml:"action" json:"action"`
	Position physics.Vec3 `yaml:"position,omitempty" json:"position,omitempty"`
	Target   physics.Vec3 `yaml:"target,omitempty" json:"target,omitempty"`
	Count    int          `yaml:"count,omitempty" json:"count,omitempty"`
}

func (s Step) at() time.Duration {
	return time.Duration(math.Round(s.At * float64(time.Second)))
}

func newScript(steps []Step) *sequence.Timeline[Step] {
	tl := sequence.NewTimeline[Step]()
	for _, s := range steps {
		tl.Schedule(s.at(), s)
	}
	return tl
}
