package pbn

import (
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"gonum.org/v1/gonum/mat"
)

const (
	quantizeMaxRounds   = 10
	quantizeConvergence = 0.01
	quantizeSampleCap   = 50000
)

type labPoint struct{ l, a, b float64 }

func labAt(lab LabBuffer, i int) labPoint {
	off := i * 3
	return labPoint{float64(lab.Pix[off]), float64(lab.Pix[off+1]), float64(lab.Pix[off+2])}
}

func sqDist(p labPoint, c labPoint) float64 {
	dl := p.l - c.l
	da := p.a - c.a
	db := p.b - c.b
	return dl*dl + da*da + db*db
}

// Quantize implements the spec's stride-sampled Lloyd k-means over Lab
// samples (§4.2): uniform-random seeding with replacement, a bounded
// training sample, up to 10 rounds with early convergence, and a final
// full-resolution assignment pass. Ties are broken by lowest centroid
// index. Grounded on the teacher's SLIC center-update loop
// (builder.go's slic: accumulate sum/count per cluster, then divide).
func Quantize(lab LabBuffer, k int, rngSeed int64) (Palette, LabelMap, error) {
	if k <= 0 {
		return nil, LabelMap{}, &ValidationError{Msg: "k must be > 0"}
	}
	n := lab.W * lab.H
	if n == 0 {
		return nil, LabelMap{}, &ValidationError{Msg: "empty image"}
	}
	rng := rand.New(rand.NewSource(rngSeed))
	seeds := seedUniform(lab, k, rng)
	return quantizeFromSeeds(lab, seeds)
}

// QuantizeKMeansPP is a documented deviation from §4.2's literal seeding:
// it seeds centroids with github.com/muesli/kmeans's k-means++, the same
// library the teacher's utils.ExtractKMeansPalette already uses, instead
// of uniform-random-with-replacement. The remaining iteration, stride
// sampling, convergence, and final assignment are identical to Quantize.
// Never used by the default Process path.
func QuantizeKMeansPP(lab LabBuffer, k int) (Palette, LabelMap, error) {
	if k <= 0 {
		return nil, LabelMap{}, &ValidationError{Msg: "k must be > 0"}
	}
	n := lab.W * lab.H
	if n == 0 {
		return nil, LabelMap{}, &ValidationError{Msg: "empty image"}
	}
	seeds, err := seedKMeansPP(lab, k)
	if err != nil {
		return nil, LabelMap{}, err
	}
	return quantizeFromSeeds(lab, seeds)
}

func seedUniform(lab LabBuffer, k int, rng *rand.Rand) []labPoint {
	n := lab.W * lab.H
	seeds := make([]labPoint, k)
	for i := 0; i < k; i++ {
		seeds[i] = labAt(lab, rng.Intn(n))
	}
	return seeds
}

func seedKMeansPP(lab LabBuffer, k int) ([]labPoint, error) {
	n := lab.W * lab.H
	stride := max(1, n/quantizeSampleCap)
	var obs clusters.Observations
	for i := 0; i < n; i += stride {
		p := labAt(lab, i)
		obs = append(obs, clusters.Coordinates{p.l, p.a, p.b})
	}
	if len(obs) < k {
		return nil, &InternalError{Stage: "quantize", Detail: "too few samples for k-means++ seeding"}
	}
	km := kmeans.New()
	cc, err := km.Partition(obs, k)
	if err != nil {
		return nil, &InternalError{Stage: "quantize", Detail: err.Error()}
	}
	seeds := make([]labPoint, len(cc))
	for i, c := range cc {
		if len(c.Center) < 3 {
			continue
		}
		seeds[i] = labPoint{c.Center[0], c.Center[1], c.Center[2]}
	}
	return seeds, nil
}

func quantizeFromSeeds(lab LabBuffer, seeds []labPoint) (Palette, LabelMap, error) {
	k := len(seeds)
	n := lab.W * lab.H
	stride := max(1, n/quantizeSampleCap)

	centroids := make([]labPoint, k)
	copy(centroids, seeds)

	var sampleIdx []int
	for i := 0; i < n; i += stride {
		sampleIdx = append(sampleIdx, i)
	}

	sums := make([]labPoint, k)
	counts := make([]int, k)

	for round := 0; round < quantizeMaxRounds; round++ {
		for i := range sums {
			sums[i] = labPoint{}
			counts[i] = 0
		}
		for _, idx := range sampleIdx {
			p := labAt(lab, idx)
			ci := nearestCentroid(p, centroids)
			sums[ci].l += p.l
			sums[ci].a += p.a
			sums[ci].b += p.b
			counts[ci]++
		}

		movement := 0.0
		for ci := range centroids {
			if counts[ci] == 0 {
				continue
			}
			newC := labPoint{
				sums[ci].l / float64(counts[ci]),
				sums[ci].a / float64(counts[ci]),
				sums[ci].b / float64(counts[ci]),
			}
			movement += sqDist(newC, centroids[ci])
			centroids[ci] = newC
		}
		if movement < quantizeConvergence {
			break
		}
	}

	palette := make(Palette, k)
	for i, c := range centroids {
		palette[i] = colorful.Color{R: c.l, G: c.a, B: c.b}
	}

	labels := newLabelMap(lab.W, lab.H)
	for i := 0; i < n; i++ {
		p := labAt(lab, i)
		labels.Labels[i] = uint8(nearestCentroid(p, centroids))
	}

	return palette, labels, nil
}

// nearestCentroid returns the lowest index among centroids minimizing
// squared Lab distance to p, per §4.2's tie-break rule.
func nearestCentroid(p labPoint, centroids []labPoint) int {
	best := 0
	bestD := math.MaxFloat64
	for i, c := range centroids {
		d := sqDist(p, c)
		if d < bestD {
			bestD = d
			best = i
		}
	}
	return best
}

// PaletteDistanceMatrix builds the K x K matrix of squared Lab distances
// between palette entries, grounded on the teacher's S x S LLE weight
// matrix construction (builder.go's buildLLEWeightMatrix). Useful for
// diagnosing a palette with too-similar colors.
func PaletteDistanceMatrix(p Palette) *mat.Dense {
	k := len(p)
	d := mat.NewDense(k, k, nil)
	for i := 0; i < k; i++ {
		li, ai, bi := p.Lab(i)
		for j := i + 1; j < k; j++ {
			lj, aj, bj := p.Lab(j)
			dl, da, db := li-lj, ai-aj, bi-bj
			v := dl*dl + da*da + db*db
			d.Set(i, j, v)
			d.Set(j, i, v)
		}
	}
	return d
}
