package systems

import "time"

// Lifecycle is a simulation participant driven by an external loop. The loop
// equips it once, steps it every frame, and unequips it before discarding it.
type Lifecycle interface {
	OnEquip()
	OnUnequip()
	Tick(deltaTime float64)
}

// FrameHook runs before the participants are ticked, typically to feed input
// intents for the upcoming frame. frame counts from zero.
type FrameHook func(frame int64, deltaTime float64)

// Driver steps participants with a fixed delta. Elapsed wall or simulated
// time is accumulated and consumed in whole steps so every participant sees
// identical deltas.
type Driver struct {
	step         time.Duration
	participants []Lifecycle
	hooks        []FrameHook
	accumulated  time.Duration
	frame        int64
}

// NewDriver creates a driver that ticks every step. A non-positive step
// falls back to 60 Hz.
func NewDriver(step time.Duration) *Driver {
	if step <= 0 {
		step = time.Second / 60
	}
	return &Driver{step: step}
}

// Add equips l and schedules it from the next frame.
func (d *Driver) Add(l Lifecycle) {
	l.OnEquip()
	d.participants = append(d.participants, l)
}

// Remove unequips l and stops ticking it.
func (d *Driver) Remove(l Lifecycle) {
	for i, p := range d.participants {
		if p == l {
			p.OnUnequip()
			d.participants = append(d.participants[:i], d.participants[i+1:]...)
			return
		}
	}
}

// BeforeTick registers a hook run at the start of every frame.
func (d *Driver) BeforeTick(h FrameHook) {
	d.hooks = append(d.hooks, h)
}

// Advance consumes elapsed time in fixed steps and returns how many frames ran.
func (d *Driver) Advance(elapsed time.Duration) int {
	d.accumulated += elapsed
	frames := 0
	for d.accumulated >= d.step {
		d.accumulated -= d.step
		d.Step()
		frames++
	}
	return frames
}

// Step runs exactly one frame.
func (d *Driver) Step() {
	dt := d.step.Seconds()
	for _, h := range d.hooks {
		h(d.frame, dt)
	}
	for _, p := range d.participants {
		p.Tick(dt)
	}
	d.frame++
}

// Frame returns how many frames have run.
func (d *Driver) Frame() int64 { return d.frame }

// StepSize returns the fixed delta.
func (d *Driver) StepSize() time.Duration { return d.step }

type tickOnly struct {
	tick func(deltaTime float64)
}

func (t *tickOnly) OnEquip()               {}
func (t *tickOnly) OnUnequip()             {}
func (t *tickOnly) Tick(deltaTime float64) { t.tick(deltaTime) }

// Ticked adapts a per-frame function with no equip semantics to Lifecycle.
func Ticked(tick func(deltaTime float64)) Lifecycle {
	return &tickOnly{tick: tick}
}
