// Package pbn implements the paint-by-numbers core pipeline: color
// quantization, region cleanup, contour extraction, and label placement.
// Everything outside this package (file pickers, canvases, progress
// bars) is an external collaborator; the only surface this package
// exposes to that collaborator is Process and its optional progress
// callback.
package pbn

import (
	"context"
	"log/slog"
)

// Process runs the full five-stage pipeline (§2) over one pixel buffer
// and returns the paint-by-numbers Result (§3/§6). It is a single,
// stateless call: no data structure it allocates outlives the call, and
// there is no re-entrancy or shared mutable state across calls (§5).
//
// progress may be nil. ctx is checked only at stage boundaries — the
// pipeline never suspends mid-stage (§5); a cancelled ctx yields a
// CancelledError with no partial result.
func Process(ctx context.Context, in ProcessInput, progress ProgressFunc) (*Result, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	settings := in.Settings

	progress.status("color conversion")
	progress.progress(0)
	lab := buildLabBuffer(in.Pixels, in.Width, in.Height)
	if err := checkCancelled(ctx, "quantization"); err != nil {
		return nil, err
	}

	progress.status("quantization")
	progress.progress(20)
	var palette Palette
	var labels LabelMap
	var err error
	switch settings.Seeding {
	case SeedKMeansPP:
		palette, labels, err = QuantizeKMeansPP(lab, settings.KColors)
	default:
		seed := settings.RNGSeed
		if seed == 0 {
			seed = int64(in.Width)*1_000_003 + int64(in.Height)
		}
		palette, labels, err = Quantize(lab, settings.KColors, seed)
	}
	if err != nil {
		return nil, err
	}
	if err := checkCancelled(ctx, "cleanup"); err != nil {
		return nil, err
	}

	progress.status("region cleanup")
	progress.progress(40)
	cleaned, err := Cleanup(labels, settings.KColors, settings.MinRegionSize)
	if err != nil {
		return nil, err
	}
	if err := checkCancelled(ctx, "contour extraction"); err != nil {
		return nil, err
	}

	progress.status("contour extraction")
	progress.progress(60)
	regions, err := ExtractRegions(cleaned, settings.KColors)
	if err != nil {
		return nil, err
	}
	if err := checkCancelled(ctx, "label placement"); err != nil {
		return nil, err
	}

	progress.status("label placement")
	progress.progress(80)
	placements := PlaceLabels(regions)
	if len(placements) < len(regions) {
		slog.Warn("paintbynumbers: dropped placements with no interior point",
			"regions", len(regions), "placements", len(placements))
	}

	progress.status("done")
	progress.progress(100)

	return &Result{
		Width:      in.Width,
		Height:     in.Height,
		Palette:    palette,
		Labels:     cleaned,
		Regions:    regions,
		Placements: placements,
	}, nil
}

func validateInput(in ProcessInput) error {
	if in.Width <= 0 || in.Height <= 0 {
		return &ValidationError{Msg: "width and height must be > 0"}
	}
	if len(in.Pixels) != 4*in.Width*in.Height {
		return &ValidationError{Msg: "pixel buffer length must equal 4*width*height"}
	}
	return in.Settings.Validate()
}

func checkCancelled(ctx context.Context, nextStage string) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return &CancelledError{Stage: nextStage}
	default:
		return nil
	}
}
