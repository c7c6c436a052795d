package physics

// EntityID identifies a world object.
type EntityID uint64

// NoEntity is the zero EntityID; it never names a real object.
const NoEntity EntityID = 0

// CategoryMask is a bit set of collision categories.
type CategoryMask uint32

const (
	CategoryNone CategoryMask = 0
	CategoryAll  CategoryMask = ^CategoryMask(0)
)

// Category returns the mask with only bit n set.
func Category(n uint) CategoryMask { return CategoryMask(1) << n }

// Intersects reports whether m and o share at least one category.
func (m CategoryMask) Intersects(o CategoryMask) bool { return m&o != 0 }

// Ray is a half-line starting at Origin. Direction need not be normalized.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// At returns the point at distance d along the normalized ray.
func (r Ray) At(d float64) Vec3 {
	return r.Origin.Add(r.Direction.Normalize().Scale(d))
}

// HitResult describes the closest intersection of a raycast.
type HitResult struct {
	Hit      bool
	Point    Vec3
	Normal   Vec3
	Distance float64
	TargetID EntityID
}
