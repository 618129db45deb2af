package pbn

import "math"

// shoelaceSigned returns the signed area of a closed ring via the
// shoelace formula, Σ(x_i*y_{i+1} - x_{i+1}*y_i)/2. Positive for the
// outer-ring winding this package's contour tracer produces, negative for
// holes — see collectBoundaryEdges.
func shoelaceSigned(r Ring) float64 {
	n := len(r)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += r[i].X*r[j].Y - r[j].X*r[i].Y
	}
	return sum / 2
}

// ringCentroid is the mean of a ring's distinct vertices; the closing point
// that repeats the first vertex is counted once.
func ringCentroid(r Ring) Point {
	if n := len(r); n > 1 && r[0] == r[n-1] {
		r = r[:n-1]
	}
	var cx, cy float64
	for _, p := range r {
		cx += p.X
		cy += p.Y
	}
	n := float64(len(r))
	return Point{cx / n, cy / n}
}

// representativePoint nudges the ring's first vertex toward its vertex
// centroid, to avoid landing exactly on another ring's boundary during
// containment tests.
func representativePoint(r Ring) Point {
	if len(r) == 0 {
		return Point{}
	}
	c := ringCentroid(r)
	v := r[0]
	return Point{v.X + 0.01*(c.X-v.X), v.Y + 0.01*(c.Y-v.Y)}
}

// pointInRing is a standard even-odd ray-cast point-in-polygon test.
func pointInRing(r Ring, x, y float64) bool {
	n := len(r)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := r[i].X, r[i].Y
		xj, yj := r[j].X, r[j].Y
		if (yi > y) != (yj > y) {
			xIntersect := xi + (y-yi)/(yj-yi)*(xj-xi)
			if x < xIntersect {
				inside = !inside
			}
		}
	}
	return inside
}

// pointInPolygon reports whether (x,y) is inside the region's outer ring
// and outside every hole.
func pointInPolygon(reg Region, x, y float64) bool {
	if !pointInRing(reg.Outer, x, y) {
		return false
	}
	for _, h := range reg.Holes {
		if pointInRing(h, x, y) {
			return false
		}
	}
	return true
}

func distPointToSegment(px, py, ax, ay, bx, by float64) float64 {
	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		ddx, ddy := px-ax, py-ay
		return math.Hypot(ddx, ddy)
	}
	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	cx, cy := ax+t*dx, ay+t*dy
	return math.Hypot(px-cx, py-cy)
}

func distPointToRing(r Ring, x, y float64) float64 {
	n := len(r)
	if n < 2 {
		if n == 1 {
			return math.Hypot(x-r[0].X, y-r[0].Y)
		}
		return math.Inf(1)
	}
	best := math.Inf(1)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		d := distPointToSegment(x, y, r[i].X, r[i].Y, r[j].X, r[j].Y)
		if d < best {
			best = d
		}
	}
	return best
}

// distanceToBoundary is the minimum distance from (x,y) to any segment of
// any ring (outer or hole) of the region.
func distanceToBoundary(reg Region, x, y float64) float64 {
	best := distPointToRing(reg.Outer, x, y)
	for _, h := range reg.Holes {
		if d := distPointToRing(h, x, y); d < best {
			best = d
		}
	}
	return best
}

// signedDistance is positive inside the region (outside holes, inside the
// outer ring), negative outside, per §4.5.
func signedDistance(reg Region, x, y float64) float64 {
	d := distanceToBoundary(reg, x, y)
	if pointInPolygon(reg, x, y) {
		return d
	}
	return -d
}

func ringBounds(r Ring) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range r {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return
}
