package pbn

import (
	"container/heap"
	"math"
)

const placementPrecision = 1.0

// plCell is one quadtree-subdivision candidate in the polylabel search.
type plCell struct {
	cx, cy   float64
	half     float64
	dist     float64
	priority float64
}

// plQueue is a max-heap ordered by priority, grounded on the
// container/heap idiom in soniakeys-quant's median-cut cluster queue —
// the only priority-queue pattern present in the retrieved pack.
type plQueue []*plCell

func (q plQueue) Len() int { return len(q) }
func (q plQueue) Less(i, j int) bool { return q[i].priority > q[j].priority }
func (q plQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *plQueue) Push(x interface{}) { *q = append(*q, x.(*plCell)) }
func (q *plQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

func newPLCell(reg Region, cx, cy, half float64) *plCell {
	d := signedDistance(reg, cx, cy)
	return &plCell{cx: cx, cy: cy, half: half, dist: d, priority: d + half*math.Sqrt2}
}

// PlaceLabel computes the pole of inaccessibility of a region's outer
// ring (minus its holes) via quadtree-subdivision search, per §4.5. It
// seeds a priority queue with a grid of cells covering the full bounding
// box (cell side h = min(width,height), as in §4.5 step 1) plus a
// centroid fallback — the spec's literal "four child cells" seed only
// covers a square of the box's shorter dimension, which under-covers an
// elongated region; full-bbox coverage is an explicit, documented
// extension rather than a silent deviation. Returns ok=false when no
// interior cell with positive distance can be found (§7: dropped, not an
// invalid point).
func PlaceLabel(reg Region) (Point, bool) {
	minX, minY, maxX, maxY := ringBounds(reg.Outer)
	w, h := maxX-minX, maxY-minY
	if w <= 0 || h <= 0 {
		return Point{}, false
	}
	cellSize := math.Min(w, h)
	half := cellSize / 2
	if half <= 0 {
		return Point{}, false
	}

	pq := &plQueue{}
	heap.Init(pq)

	centroid := ringCentroid(reg.Outer)
	best := newPLCell(reg, centroid.X, centroid.Y, 0)
	heap.Push(pq, best)

	for gx := minX + half; gx < maxX+half; gx += cellSize {
		for gy := minY + half; gy < maxY+half; gy += cellSize {
			heap.Push(pq, newPLCell(reg, gx, gy, half))
		}
	}

	for pq.Len() > 0 {
		top := heap.Pop(pq).(*plCell)
		if top.priority-best.dist <= placementPrecision {
			break
		}
		if top.dist > best.dist {
			best = top
		}
		if top.half > placementPrecision/2 {
			childHalf := top.half / 2
			for _, sx := range [2]float64{-1, 1} {
				for _, sy := range [2]float64{-1, 1} {
					heap.Push(pq, newPLCell(reg, top.cx+sx*childHalf, top.cy+sy*childHalf, childHalf))
				}
			}
		}
	}

	if best.dist <= 0 {
		return Point{}, false
	}
	return Point{best.cx, best.cy}, true
}

// PlaceLabels runs PlaceLabel over every region, tagging each surviving
// placement with its 1-based palette index. Regions for which no interior
// point could be found are dropped, per §7's Stage 5 rule — an
// InternalError is not raised, matching "drops placements it cannot
// compute rather than emitting an invalid point."
func PlaceLabels(regions []Region) []Placement {
	out := make([]Placement, 0, len(regions))
	for _, r := range regions {
		p, ok := PlaceLabel(r)
		if !ok {
			continue
		}
		out = append(out, Placement{X: p.X, Y: p.Y, Label: r.ColorIndex + 1})
	}
	return out
}
