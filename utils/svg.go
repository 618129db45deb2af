package utils

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	pbn "paintbynumbers"
)

// WriteSVG renders a pbn.Result as an SVG document: one filled path per
// region (outer ring plus holes, even-odd fill rule so holes render as
// true holes) and one text label per placement, as named in §6. Built on
// github.com/ajstarks/svgo, a real dependency in the retrieved pack's
// Kaguya154 repo with no teacher-side home of its own.
func WriteSVG(w io.Writer, result *pbn.Result) error {
	canvas := svg.New(w)
	canvas.Start(result.Width, result.Height)
	defer canvas.End()

	rgb := RenderPalette(result.Palette)

	for _, r := range result.Regions {
		if r.ColorIndex < 0 || r.ColorIndex >= len(rgb) {
			continue
		}
		hex := rgb[r.ColorIndex].Hex()
		d := ringPathData(r.Outer)
		for _, h := range r.Holes {
			d += " " + ringPathData(h)
		}
		canvas.Path(d, fmt.Sprintf(`fill="%s" fill-rule="evenodd" stroke="black" stroke-width="0.5"`, hex))
	}

	for _, p := range result.Placements {
		canvas.Text(int(p.X), int(p.Y), fmt.Sprintf("%d", p.Label),
			`text-anchor="middle" dominant-baseline="middle" font-size="10" fill="black"`)
	}

	return nil
}

func ringPathData(r pbn.Ring) string {
	if len(r) == 0 {
		return ""
	}
	d := fmt.Sprintf("M%.1f,%.1f", r[0].X, r[0].Y)
	for _, p := range r[1:] {
		d += fmt.Sprintf(" L%.1f,%.1f", p.X, p.Y)
	}
	return d + " Z"
}

// SmoothPath renders a ring as a quadratic-Bezier SVG path with light corner
// rounding, for display purposes only — it never feeds back into the
// polygon data used for placement or any round-trip check. Each vertex is
// replaced by a short curve between its two neighboring edge midpoints.
func SmoothPath(r pbn.Ring) string {
	n := len(r)
	if n < 4 { // closed ring has first==last, so a triangle has n==4
		return ringPathData(r)
	}
	pts := r[:n-1] // drop the closing duplicate; we close the path explicitly
	m := len(pts)

	mid := func(a, b pbn.Point) pbn.Point {
		return pbn.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	}

	start := mid(pts[m-1], pts[0])
	d := fmt.Sprintf("M%.1f,%.1f", start.X, start.Y)
	for i := 0; i < m; i++ {
		next := pts[(i+1)%m]
		midNext := mid(pts[i], next)
		d += fmt.Sprintf(" Q%.1f,%.1f %.1f,%.1f", pts[i].X, pts[i].Y, midNext.X, midNext.Y)
	}
	return d + " Z"
}
