package world

import (
	"math"
	"slices"
	"sync"

	"github.com/zeusync/weaponsim/internal/core/observability/log"
	"github.com/zeusync/weaponsim/internal/core/systems/physics"
)

// Body is an axis-aligned box in the world. Bodies with positive MaxHealth
// take damage and stop blocking rays once destroyed.
type Body struct {
	ID        physics.EntityID
	Name      string
	Min, Max  physics.Vec3
	Category  physics.CategoryMask
	MaxHealth float64
	Health    float64
}

// Destroyed reports whether a damageable body has run out of health.
func (b Body) Destroyed() bool {
	return b.MaxHealth > 0 && b.Health <= 0
}

// World is a small in-memory scene answering hit-scan queries.
type World struct {
	mu     sync.RWMutex
	bodies map[physics.EntityID]*Body
	order  []physics.EntityID
	nextID physics.EntityID
	logger log.Log
}

// New creates an empty world.
func New(logger log.Log) *World {
	if logger == nil {
		logger = log.Nop()
	}
	return &World{
		bodies: make(map[physics.EntityID]*Body),
		logger: logger,
	}
}

// AddBox adds static geometry spanning the two corners and returns its id.
func (w *World) AddBox(name string, a, b physics.Vec3, category physics.CategoryMask) physics.EntityID {
	return w.add(name, a, b, category, 0)
}

// AddTarget adds a damageable box with the given health.
func (w *World) AddTarget(name string, a, b physics.Vec3, category physics.CategoryMask, health float64) physics.EntityID {
	return w.add(name, a, b, category, health)
}

func (w *World) add(name string, a, b physics.Vec3, category physics.CategoryMask, health float64) physics.EntityID {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.nextID++
	id := w.nextID
	w.bodies[id] = &Body{
		ID:        id,
		Name:      name,
		Min:       physics.Vec3{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)},
		Max:       physics.Vec3{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)},
		Category:  category,
		MaxHealth: health,
		Health:    health,
	}
	w.order = append(w.order, id)
	return id
}

// Remove deletes a body. Unknown ids are ignored.
func (w *World) Remove(id physics.EntityID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.bodies[id]; !ok {
		return
	}
	delete(w.bodies, id)
	w.order = slices.DeleteFunc(w.order, func(o physics.EntityID) bool { return o == id })
}

// Body returns a copy of the body with the given id.
func (w *World) Body(id physics.EntityID) (Body, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	b, ok := w.bodies[id]
	if !ok {
		return Body{}, false
	}
	return *b, true
}

// Raycast returns the closest body in mask hit by ray within maxDistance.
// A ray starting inside a body hits it at the origin.
func (w *World) Raycast(ray physics.Ray, maxDistance float64, mask physics.CategoryMask) (physics.HitResult, bool) {
	dir := ray.Direction.Normalize()
	if dir == physics.Zero || maxDistance <= 0 {
		return physics.HitResult{}, false
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	best := physics.HitResult{Distance: math.Inf(1)}
	for _, id := range w.order {
		b := w.bodies[id]
		if !b.Category.Intersects(mask) || b.Destroyed() {
			continue
		}
		dist, normal, ok := intersectBox(ray.Origin, dir, b.Min, b.Max)
		if !ok || dist > maxDistance || dist >= best.Distance {
			continue
		}
		best = physics.HitResult{
			Hit:      true,
			Point:    ray.Origin.Add(dir.Scale(dist)),
			Normal:   normal,
			Distance: dist,
			TargetID: id,
		}
	}
	return best, best.Hit
}

// ApplyDamage reduces the health of a damageable body. It reports whether
// damage was applied and whether it destroyed the body.
func (w *World) ApplyDamage(target physics.EntityID, amount float64) (lethal, applied bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	b, ok := w.bodies[target]
	if !ok || b.MaxHealth <= 0 || b.Destroyed() || amount <= 0 {
		return false, false
	}
	b.Health = math.Max(b.Health-amount, 0)
	if b.Destroyed() {
		w.logger.Info("target destroyed", log.String("target", b.Name), log.Int64("id", int64(b.ID)))
		return true, true
	}
	return false, true
}

// intersectBox runs the slab test for a normalized direction. It returns the
// entry distance and the normal of the face entered.
func intersectBox(origin, dir, lo, hi physics.Vec3) (float64, physics.Vec3, bool) {
	tmin, tmax := math.Inf(-1), math.Inf(1)
	var normal physics.Vec3

	for axis := range 3 {
		o, d := component(origin, axis), component(dir, axis)
		l, h := component(lo, axis), component(hi, axis)
		if d == 0 {
			if o < l || o > h {
				return 0, physics.Zero, false
			}
			continue
		}
		t1, t2 := (l-o)/d, (h-o)/d
		face := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			face = 1
		}
		if t1 > tmin {
			tmin = t1
			normal = unit(axis, face)
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, physics.Zero, false
		}
	}
	if tmax < 0 {
		return 0, physics.Zero, false
	}
	if tmin < 0 {
		return 0, dir.Scale(-1), true
	}
	return tmin, normal, true
}

func component(v physics.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func unit(axis int, s float64) physics.Vec3 {
	switch axis {
	case 0:
		return physics.Vec3{X: s}
	case 1:
		return physics.Vec3{Y: s}
	default:
		return physics.Vec3{Z: s}
	}
}
