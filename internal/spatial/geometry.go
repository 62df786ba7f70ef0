package spatial

// Point represents a 2D point with latitude and longitude
type Point struct {
	Lat float64
	Lon float64
}

// PathLength calculates the total length of a path (sequence of points) in meters
func PathLength(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}

	var totalDist float64
	for i := 1; i < len(points); i++ {
		totalDist += HaversineDistance(points[i-1].Lat, points[i-1].Lon, points[i].Lat, points[i].Lon)
	}

	return totalDist
}

// cross returns the 2D cross product of (b-a) and (c-a) in lat/lon space.
func cross(a, b, c Point) float64 {
	return (b.Lon-a.Lon)*(c.Lat-a.Lat) - (b.Lat-a.Lat)*(c.Lon-a.Lon)
}

// onSegment reports whether point c, known to be collinear with a-b, lies
// within the bounding box of a-b.
func onSegment(a, b, c Point) bool {
	return min(a.Lon, b.Lon) <= c.Lon && c.Lon <= max(a.Lon, b.Lon) &&
		min(a.Lat, b.Lat) <= c.Lat && c.Lat <= max(a.Lat, b.Lat)
}

// SegmentsIntersect reports whether line segments p1-p2 and q1-q2 intersect.
// Planar test in lat/lon space; gates are short enough that spherical
// curvature is negligible at this scale.
func SegmentsIntersect(p1, p2, q1, q2 Point) bool {
	d1 := cross(q1, q2, p1)
	d2 := cross(q1, q2, p2)
	d3 := cross(p1, p2, q1)
	d4 := cross(p1, p2, q2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	// Collinear touching cases
	if d1 == 0 && onSegment(q1, q2, p1) {
		return true
	}
	if d2 == 0 && onSegment(q1, q2, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, q1) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, q2) {
		return true
	}
	return false
}

// IntersectionFraction returns how far along p1-p2 the crossing of the line
// through q1-q2 lies, clamped to [0,1]. Returns 0 for parallel segments;
// callers should check SegmentsIntersect first.
func IntersectionFraction(p1, p2, q1, q2 Point) float64 {
	denom := (p2.Lon-p1.Lon)*(q2.Lat-q1.Lat) - (p2.Lat-p1.Lat)*(q2.Lon-q1.Lon)
	if denom == 0 {
		return 0
	}
	t := ((q1.Lon-p1.Lon)*(q2.Lat-q1.Lat) - (q1.Lat-p1.Lat)*(q2.Lon-q1.Lon)) / denom
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
