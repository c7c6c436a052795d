package world

import (
	"github.com/zeusync/weaponsim/internal/core/events/relay"
	"github.com/zeusync/weaponsim/internal/core/systems/physics"
)

// Pickup is a spherical zone offering an item to whoever stands in it.
type Pickup struct {
	Name   string
	Icon   string
	Center physics.Vec3
	Radius float64
}

func (p Pickup) contains(pos physics.Vec3) bool {
	return pos.Distance(p.Center) <= p.Radius
}

// PickupSensor tracks which pickup a position is standing in and announces
// changes. Overlapping zones resolve to the first one registered.
type PickupSensor struct {
	notifier relay.Publisher
	zones    []Pickup
	current  int
}

// NewPickupSensor creates a sensor publishing to notifier.
func NewPickupSensor(notifier relay.Publisher, zones ...Pickup) *PickupSensor {
	return &PickupSensor{
		notifier: notifier,
		zones:    zones,
		current:  -1,
	}
}

// Add registers another zone.
func (s *PickupSensor) Add(p Pickup) {
	s.zones = append(s.zones, p)
}

// Sense updates the sensor with the observer position. Entering a zone
// publishes PickupAvailable, leaving every zone publishes PickupUnavailable.
func (s *PickupSensor) Sense(pos physics.Vec3) {
	idx := -1
	for i, z := range s.zones {
		if z.contains(pos) {
			idx = i
			break
		}
	}
	if idx == s.current {
		return
	}
	s.current = idx

	if idx < 0 {
		s.notifier.Publish(relay.PickupUnavailable{})
		return
	}
	z := s.zones[idx]
	s.notifier.Publish(relay.PickupAvailable{Name: z.Name, Icon: z.Icon})
}

// Current returns the zone the last sensed position was in.
func (s *PickupSensor) Current() (Pickup, bool) {
	if s.current < 0 {
		return Pickup{}, false
	}
	return s.zones[s.current], true
}
