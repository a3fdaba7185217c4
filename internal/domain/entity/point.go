package entity

// Point is a longitude/latitude pair in EPSG:4326. X is the longitude.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Valid reports whether the point lies within longitude/latitude bounds.
func (p Point) Valid() bool {
	return p.X >= -180 && p.X <= 180 && p.Y >= -90 && p.Y <= 90
}
