// Package hud keeps the heads-up display state in sync with weapon and world
// notifications.
package hud

import (
	"fmt"
	"sync"
	"time"

	"github.com/zeusync/weaponsim/internal/core/events/relay"
	"github.com/zeusync/weaponsim/internal/core/observability/log"
)

// HitMarkerDuration is how long the crosshair hit marker stays visible.
const HitMarkerDuration = 250 * time.Millisecond

// State is what the HUD currently shows.
type State struct {
	WeaponVisible bool
	WeaponName    string
	Ammo          int
	MaxAmmo       int

	PickupVisible bool
	PickupName    string
	PickupIcon    string

	HitMarkerVisible bool
	HitMarkerLethal  bool
	HitMarkerLeft    time.Duration
	Hits             int
	Kills            int
}

// AmmoText formats the ammo counter the way it is drawn on screen.
func (s State) AmmoText() string {
	return fmt.Sprintf("%d / %d", s.Ammo, s.MaxAmmo)
}

// HUD listens to the relay while enabled.
type HUD struct {
	relay  *relay.Relay
	logger log.Log

	mu    sync.RWMutex
	subs  []relay.Subscription
	state State
}

func New(r *relay.Relay, logger log.Log) *HUD {
	if logger == nil {
		logger = log.Nop()
	}
	return &HUD{relay: r, logger: logger}
}

// Enable subscribes to notifications. Calling it twice is a no-op.
func (h *HUD) Enable() {
	h.mu.Lock()
	if h.subs != nil {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	subs := []relay.Subscription{
		relay.On(h.relay, h.onAmmo),
		relay.On(h.relay, h.onEquipped),
		relay.On(h.relay, h.onPickupAvailable),
		relay.On(h.relay, h.onPickupUnavailable),
		relay.On(h.relay, h.onDamage),
	}

	h.mu.Lock()
	h.subs = subs
	h.mu.Unlock()
	h.logger.Debug("hud enabled")
}

// Disable removes every subscription made by Enable. The current state is
// kept but no longer updated.
func (h *HUD) Disable() {
	h.mu.Lock()
	subs := h.subs
	h.subs = nil
	h.mu.Unlock()

	for _, s := range subs {
		h.relay.Unsubscribe(s)
	}
	if subs != nil {
		h.logger.Debug("hud disabled")
	}
}

func (h *HUD) Enabled() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.subs != nil
}

// State returns a copy of what is on screen.
func (h *HUD) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// Tick fades the hit marker.
func (h *HUD) Tick(deltaTime float64) {
	if deltaTime <= 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.state.HitMarkerVisible {
		return
	}
	h.state.HitMarkerLeft -= time.Duration(deltaTime * float64(time.Second))
	if h.state.HitMarkerLeft <= 0 {
		h.state.HitMarkerVisible = false
		h.state.HitMarkerLethal = false
		h.state.HitMarkerLeft = 0
	}
}

func (h *HUD) onAmmo(n relay.AmmoChanged) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.Ammo, h.state.MaxAmmo = n.Current, n.Max
}

func (h *HUD) onEquipped(n relay.WeaponEquipped) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.WeaponVisible = true
	h.state.WeaponName = n.Name
}

func (h *HUD) onPickupAvailable(n relay.PickupAvailable) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.PickupVisible = true
	h.state.PickupName, h.state.PickupIcon = n.Name, n.Icon
}

func (h *HUD) onPickupUnavailable(relay.PickupUnavailable) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.PickupVisible = false
	h.state.PickupName, h.state.PickupIcon = "", ""
}

// A lethal hit keeps the marker lethal until it fades.
func (h *HUD) onDamage(n relay.DamageDealt) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.HitMarkerLethal = n.WasLethal || (h.state.HitMarkerVisible && h.state.HitMarkerLethal)
	h.state.HitMarkerVisible = true
	h.state.HitMarkerLeft = HitMarkerDuration
	h.state.Hits++
	if n.WasLethal {
		h.state.Kills++
	}
}
