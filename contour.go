package pbn

import (
	"math"
	"sort"
	"sync"
)

// minRegionArea is the fixed area filter from §4.4, intentionally not
// gated by Settings.MinRegionSize — preserved as-is per the spec's open
// question on this exact point.
const minRegionArea = 50.0

type contourEdge struct{ A, B Point }

func maskIndex(w int, x, y int) int { return y*w + x }

func buildMask(labels LabelMap, k int) []bool {
	mask := make([]bool, len(labels.Labels))
	for i, v := range labels.Labels {
		mask[i] = int(v) == k
	}
	return mask
}

// collectBoundaryEdges walks every foreground pixel's 4 sides, emitting a
// directed half-integer-coordinate edge wherever the neighbor on that
// side is background or out of bounds. Each pixel's own 4 candidate
// edges go clockwise (top rightward, right downward, bottom leftward,
// left upward) in image coordinates, which is what gives the tracer its
// sign convention — see nestRings.
func collectBoundaryEdges(mask []bool, w, h int) []contourEdge {
	get := func(x, y int) bool {
		if x < 0 || y < 0 || x >= w || y >= h {
			return false
		}
		return mask[maskIndex(w, x, y)]
	}
	var edges []contourEdge
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !get(x, y) {
				continue
			}
			fx, fy := float64(x), float64(y)
			if !get(x, y-1) { // top
				edges = append(edges, contourEdge{Point{fx - 0.5, fy - 0.5}, Point{fx + 0.5, fy - 0.5}})
			}
			if !get(x+1, y) { // right
				edges = append(edges, contourEdge{Point{fx + 0.5, fy - 0.5}, Point{fx + 0.5, fy + 0.5}})
			}
			if !get(x, y+1) { // bottom
				edges = append(edges, contourEdge{Point{fx + 0.5, fy + 0.5}, Point{fx - 0.5, fy + 0.5}})
			}
			if !get(x-1, y) { // left
				edges = append(edges, contourEdge{Point{fx - 0.5, fy + 0.5}, Point{fx - 0.5, fy - 0.5}})
			}
		}
	}
	return edges
}

type pointKey struct{ X, Y float64 }

func key(p Point) pointKey { return pointKey{p.X, p.Y} }

// traceRings threads the directed boundary-edge soup into closed rings.
// At most vertices exactly one unvisited outgoing edge exists; where a
// pixel-corner touch leaves more than one candidate (e.g. a checkerboard
// diagonal touch), the edge making the sharpest clockwise turn from the
// incoming direction is taken, the standard disambiguation rule for
// boundary tracing from an edge soup.
func traceRings(edges []contourEdge) []Ring {
	outgoing := make(map[pointKey][]int, len(edges))
	for i, e := range edges {
		outgoing[key(e.A)] = append(outgoing[key(e.A)], i)
	}
	visited := make([]bool, len(edges))

	var rings []Ring
	for start := range edges {
		if visited[start] {
			continue
		}
		startPoint := edges[start].A
		var ring Ring
		cur := start
		for {
			visited[cur] = true
			e := edges[cur]
			ring = append(ring, e.A)
			if e.B == startPoint {
				break
			}
			candidates := outgoing[key(e.B)]
			next := pickSharpestClockwise(edges, cur, candidates, visited)
			if next < 0 {
				break
			}
			cur = next
		}
		if len(ring) >= 3 {
			ring = append(ring, startPoint) // close the ring: first and last point coincide
			rings = append(rings, ring)
		}
	}
	return rings
}

func pickSharpestClockwise(edges []contourEdge, incoming int, candidates []int, visited []bool) int {
	inE := edges[incoming]
	idx, idy := inE.B.X-inE.A.X, inE.B.Y-inE.A.Y
	best := -1
	bestAngle := math.Inf(-1)
	for _, c := range candidates {
		if visited[c] {
			continue
		}
		e := edges[c]
		odx, ody := e.B.X-e.A.X, e.B.Y-e.A.Y
		// Signed turn angle from incoming direction to outgoing direction;
		// larger (more positive) = sharper clockwise turn in image coords.
		cross := idx*ody - idy*odx
		dot := idx*odx + idy*ody
		angle := math.Atan2(cross, dot)
		if angle > bestAngle {
			bestAngle = angle
			best = c
		}
	}
	return best
}

// nestRings groups outer rings (positive signed area) and hole rings
// (negative signed area) into polygons: each hole is assigned to the
// smallest-area outer ring whose representative point test contains it.
// Grounded on the Design Note's explicit call for a nesting step
// ("polygon = outer ring + its holes").
func nestRings(rings []Ring) []Region {
	type outerInfo struct {
		ring Ring
		area float64
	}
	var outers []outerInfo
	var holes []Ring
	for _, r := range rings {
		a := shoelaceSigned(r)
		if a > 0 {
			outers = append(outers, outerInfo{r, a})
		} else if a < 0 {
			holes = append(holes, r)
		}
	}
	sort.Slice(outers, func(i, j int) bool { return outers[i].area < outers[j].area })

	regions := make([]Region, len(outers))
	for i, o := range outers {
		regions[i] = Region{Outer: o.ring}
	}
	for _, h := range holes {
		rp := representativePoint(h)
		for i := range regions {
			if pointInRing(regions[i].Outer, rp.X, rp.Y) {
				regions[i].Holes = append(regions[i].Holes, h)
				break
			}
		}
	}
	return regions
}

// traceLabelRegions runs the per-label marching-squares-equivalent trace
// described in §4.4 for one palette index.
func traceLabelRegions(labels LabelMap, k int) []Region {
	mask := buildMask(labels, k)
	hasAny := false
	for _, v := range mask {
		if v {
			hasAny = true
			break
		}
	}
	if !hasAny {
		return nil
	}
	edges := collectBoundaryEdges(mask, labels.W, labels.H)
	rings := traceRings(edges)
	regions := nestRings(rings)

	out := regions[:0]
	for _, r := range regions {
		area := math.Abs(shoelaceSigned(r.Outer))
		if area < minRegionArea {
			continue
		}
		r.ColorIndex = k
		out = append(out, r)
	}
	return out
}

// ExtractRegions implements §4.4 for every palette index, parallelized
// over indices (the embarrassingly-parallel opportunity named in §5).
func ExtractRegions(labels LabelMap, k int) ([]Region, error) {
	perLabel := make([][]Region, k)
	var wg sync.WaitGroup
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			perLabel[i] = traceLabelRegions(labels, i)
		}(i)
	}
	wg.Wait()

	var all []Region
	for i := 0; i < k; i++ {
		all = append(all, perLabel[i]...)
	}
	return all, nil
}
