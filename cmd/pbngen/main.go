// Command pbngen is a thin batch CLI over pbn.Process: decode one image,
// run the pipeline, and write an SVG outline plus a palette swatch. It is
// not an interactive shell — no repainting, no undo, no live preview.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	pbn "paintbynumbers"
	"paintbynumbers/utils"
)

func encodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

func main() {
	var (
		inPath   = flag.String("in", "", "input image path (png, jpeg, gif, bmp, webp)")
		outDir   = flag.String("out", ".", "output directory")
		kColors  = flag.Int("k", 16, "number of palette colors")
		minSize  = flag.Int("min-region", 0, "minimum region size in pixels (0 = derive from image size)")
		maxDim   = flag.Int("max-dim", 1200, "resize the longer side down to this many pixels before processing (0 = no resize)")
		kmeanspp = flag.Bool("kmeanspp", false, "seed quantization with k-means++ instead of uniform random")
		seed     = flag.Int64("seed", 0, "RNG seed for uniform seeding (0 = derive from image dimensions)")
		dedupe   = flag.Bool("dedupe", false, "warn about near-duplicate palette colors after quantization")
	)
	flag.Parse()

	if err := run(*inPath, *outDir, *kColors, *minSize, *maxDim, *kmeanspp, *seed, *dedupe); err != nil {
		slog.Error("pbngen failed", "error", err)
		os.Exit(1)
	}
}

func run(inPath, outDir string, kColors, minSize, maxDim int, kmeanspp bool, seed int64, dedupe bool) error {
	if inPath == "" {
		return fmt.Errorf("missing -in")
	}

	f, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", inPath, err)
	}
	defer f.Close()

	img, format, err := utils.DecodeImage(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", inPath, err)
	}
	slog.Info("decoded input", "path", inPath, "format", format)

	img = utils.ResizeToMaxDim(img, maxDim)
	pixels, w, h := utils.ImageToPixels(img)

	settings := pbn.SettingsFromImageSize(w, h)
	settings.KColors = kColors
	settings.RNGSeed = seed
	if kmeanspp {
		settings.Seeding = pbn.SeedKMeansPP
	}
	if minSize > 0 {
		settings.MinRegionSize = minSize
	}

	in := pbn.ProcessInput{Pixels: pixels, Width: w, Height: h, Settings: settings}

	result, err := pbn.Process(context.Background(), in, func(e pbn.ProgressEvent) {
		if e.Kind == pbn.EventStatus {
			slog.Info("stage", "status", e.Status)
		}
	})
	if err != nil {
		return fmt.Errorf("process: %w", err)
	}
	slog.Info("processed", "regions", len(result.Regions), "placements", len(result.Placements), "colors", len(result.Palette))

	if dedupe {
		warnNearDuplicates(result.Palette)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", outDir, err)
	}
	base := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath))

	svgPath := filepath.Join(outDir, base+".svg")
	svgFile, err := os.Create(svgPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", svgPath, err)
	}
	defer svgFile.Close()
	if err := utils.WriteSVG(svgFile, result); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	slog.Info("wrote svg", "path", svgPath)

	swatch, err := utils.SavePalette(utils.RenderPalette(result.Palette), 64)
	if err != nil {
		return fmt.Errorf("render palette swatch: %w", err)
	}
	swatchPath := filepath.Join(outDir, base+"_palette.png")
	swatchFile, err := os.Create(swatchPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", swatchPath, err)
	}
	defer swatchFile.Close()
	if err := encodePNG(swatchFile, swatch); err != nil {
		return fmt.Errorf("encode palette swatch: %w", err)
	}
	slog.Info("wrote palette swatch", "path", swatchPath)

	return nil
}

// warnNearDuplicates flags palette pairs whose squared Lab distance falls
// below a perceptibility threshold, per PaletteDistanceMatrix's doc comment
// about "diagnosing a palette with too-similar colors".
func warnNearDuplicates(palette pbn.Palette) {
	const nearDuplicateThreshold = 4.0 // ~2 Lab units apart, barely distinguishable
	m := pbn.PaletteDistanceMatrix(palette)
	k := len(palette)
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			if d := m.At(i, j); d < nearDuplicateThreshold {
				slog.Warn("near-duplicate palette colors", "i", i, "j", j, "sq_dist", d)
			}
		}
	}
}
