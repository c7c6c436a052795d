package relay

// Kind is the routing key of a notification.
type Kind string

const (
	KindAmmoChanged       Kind = "weapon.ammo_changed"
	KindWeaponEquipped    Kind = "weapon.equipped"
	KindPickupAvailable   Kind = "pickup.available"
	KindPickupUnavailable Kind = "pickup.unavailable"
	KindDamageDealt       Kind = "combat.damage_dealt"
)

// Kinds lists every notification kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindAmmoChanged,
		KindWeaponEquipped,
		KindPickupAvailable,
		KindPickupUnavailable,
		KindDamageDealt,
	}
}

// Notification is an immutable message fanned out by the Relay. The concrete
// type carries the payload; Kind selects the subscribers.
type Notification interface {
	Kind() Kind
}

// Handler is invoked synchronously for every delivered notification.
type Handler func(Notification)

// Publisher is the outbound capability handed to producers that only need to
// emit notifications.
type Publisher interface {
	Publish(Notification)
}

// Subscription represents one registered handler bound to a kind.
// Use Cancel or Relay.Unsubscribe to stop receiving notifications.
type Subscription interface {
	// ID is a unique identifier for this subscription.
	ID() string
	// Kind returns the notification kind this subscription listens to.
	Kind() Kind
	// IsActive reports whether this subscription is still registered.
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel()
}

// Observer is told about every publish. Implementations can export metrics
// or logs and should return quickly.
type Observer interface {
	OnPublish(kind Kind, handlers int)
}

// AmmoChanged reports the magazine after a shot, a reload or an equip.
type AmmoChanged struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

func (AmmoChanged) Kind() Kind { return KindAmmoChanged }

// WeaponEquipped is emitted when a weapon starts drawing.
type WeaponEquipped struct {
	Name string `json:"name"`
}

func (WeaponEquipped) Kind() Kind { return KindWeaponEquipped }

// PickupAvailable is emitted when the player can pick something up.
type PickupAvailable struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

func (PickupAvailable) Kind() Kind { return KindPickupAvailable }

// PickupUnavailable clears a previous PickupAvailable.
type PickupUnavailable struct{}

func (PickupUnavailable) Kind() Kind { return KindPickupUnavailable }

// DamageDealt is emitted when a shot damaged a target.
type DamageDealt struct {
	WasLethal bool `json:"was_lethal"`
}

func (DamageDealt) Kind() Kind { return KindDamageDealt }
