package pbn

// Cleanup implements the single-pass connected-component noise absorption
// of §4.3: flood-fill components with an explicit index stack (4-
// connectivity), then for any component smaller than minSize, overwrite
// it with the most common differently-labeled 4-neighbor (ties broken by
// lowest label index); components with no differing neighbor are left
// untouched. Grounded on the teacher's slic connectivity-enforcement pass
// (explicit-stack flood fill over a label grid, builder.go) and on
// MeKo-Christian-pogo's BFS/stats component walk. The K-sized tally array
// follows the Design Note's "bounded small tables" guidance — K <= 50
// means a plain slice beats a map.
func Cleanup(labels LabelMap, k, minSize int) (LabelMap, error) {
	w, h := labels.W, labels.H
	n := w * h
	if n == 0 {
		return labels, nil
	}

	out := labels.clone()
	visited := make([]bool, n)
	stack := make([]int, 0, n)
	members := make([]int, 0, n)
	tally := make([]int, k)

	idx := func(x, y int) int { return y*w + x }

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		c := out.Labels[start]
		members = members[:0]

		stack = append(stack[:0], start)
		visited[start] = true
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			members = append(members, p)
			px, py := p%w, p/w

			if px > 0 {
				q := idx(px-1, py)
				if !visited[q] && out.Labels[q] == c {
					visited[q] = true
					stack = append(stack, q)
				}
			}
			if px < w-1 {
				q := idx(px+1, py)
				if !visited[q] && out.Labels[q] == c {
					visited[q] = true
					stack = append(stack, q)
				}
			}
			if py > 0 {
				q := idx(px, py-1)
				if !visited[q] && out.Labels[q] == c {
					visited[q] = true
					stack = append(stack, q)
				}
			}
			if py < h-1 {
				q := idx(px, py+1)
				if !visited[q] && out.Labels[q] == c {
					visited[q] = true
					stack = append(stack, q)
				}
			}
		}

		if len(members) >= minSize {
			continue
		}

		for i := range tally {
			tally[i] = 0
		}
		for _, p := range members {
			px, py := p%w, p/w
			if px > 0 {
				tallyNeighbor(out.Labels[idx(px-1, py)], c, tally)
			}
			if px < w-1 {
				tallyNeighbor(out.Labels[idx(px+1, py)], c, tally)
			}
			if py > 0 {
				tallyNeighbor(out.Labels[idx(px, py-1)], c, tally)
			}
			if py < h-1 {
				tallyNeighbor(out.Labels[idx(px, py+1)], c, tally)
			}
		}

		bestLabel, bestCount := -1, 0
		for lab, count := range tally {
			if count > bestCount {
				bestCount = count
				bestLabel = lab
			}
		}
		if bestLabel < 0 {
			continue // no differently-labeled neighbor; leave as-is (I2's exception)
		}
		for _, p := range members {
			out.Labels[p] = uint8(bestLabel)
		}
	}

	return out, nil
}

func tallyNeighbor(neighborLabel, ownLabel uint8, tally []int) {
	if neighborLabel != ownLabel {
		tally[neighborLabel]++
	}
}
