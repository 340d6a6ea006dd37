package pose

import "math"

// Angle returns the angle at vertex b formed by the segments b-a and b-c, in degrees.
// The result is always within [0,180]. Coincident points are not special-cased:
// atan2(0,0) is 0, so a==b or c==b yields the direction of the other segment.
func Angle(a, b, c Point2D) float64 {
	radians := math.Atan2(c.Y-b.Y, c.X-b.X) - math.Atan2(a.Y-b.Y, a.X-b.X)
	angle := math.Abs(radians * 180.0 / math.Pi)

	if angle > 180.0 {
		angle = 360.0 - angle
	}

	return angle
}
