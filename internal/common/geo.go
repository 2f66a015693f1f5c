package common

// LatLng is a geographic coordinate pair.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GeoBounds is a north-east / south-west bounding box.
type GeoBounds struct {
	North float64
	South float64
	East  float64
	West  float64
}

func (b GeoBounds) IsEmpty() bool {
	return b == GeoBounds{}
}

// Extend grows the bounds to include p. Extending empty bounds initializes
// them to the single point.
func (b GeoBounds) Extend(p LatLng) GeoBounds {
	if b.IsEmpty() {
		return GeoBounds{North: p.Latitude, South: p.Latitude, East: p.Longitude, West: p.Longitude}
	}
	if p.Latitude > b.North {
		b.North = p.Latitude
	}
	if p.Latitude < b.South {
		b.South = p.Latitude
	}
	if p.Longitude > b.East {
		b.East = p.Longitude
	}
	if p.Longitude < b.West {
		b.West = p.Longitude
	}
	return b
}

func (b GeoBounds) Center() LatLng {
	return LatLng{
		Latitude:  (b.North + b.South) / 2,
		Longitude: (b.East + b.West) / 2,
	}
}

// LatSpan and LngSpan are the bounds extents, matching the map SDK's span.
func (b GeoBounds) LatSpan() float64 { return b.North - b.South }
func (b GeoBounds) LngSpan() float64 { return b.East - b.West }

// ScreenPoint is a pixel position relative to the map container's top-left.
type ScreenPoint struct {
	X float64
	Y float64
}

// PixelRect is the map container's pixel rectangle.
type PixelRect struct {
	Width  float64
	Height float64
}

func (r PixelRect) Contains(p ScreenPoint) bool {
	return p.X >= 0 && p.X <= r.Width && p.Y >= 0 && p.Y <= r.Height
}

// Viewport couples the visible geographic bounds with the container's
// pixel rectangle, which is what pixel-to-geo interpolation needs.
type Viewport struct {
	Bounds GeoBounds
	Rect   PixelRect
}
