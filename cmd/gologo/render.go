package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xob0t/GoLogo/pkg/asset"
	"github.com/xob0t/GoLogo/pkg/export"
	"github.com/xob0t/GoLogo/pkg/logo"
	"github.com/xob0t/GoLogo/pkg/orchestrator"
	"github.com/xob0t/GoLogo/pkg/render"
)

type renderOptions struct {
	logoPath     string
	output       string
	ratio        int
	dir          string
	multiplier   int
	canvasColor  string
	layerColors  []string
	interpolator string
	quality      int
}

func newRenderCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a logo description to an image file",
		Long: `Render a logo description to an image file.

Color choices (--canvas-color, --layer-color) are a palette index such as
"0", a color literal such as "#ff0000" or "rgba(0,0,0,0.5)", or "none".
Layers without a color are left out.`,
		Example: `  gologo render --logo logo.json -o logo.png --layer-color 0 --layer-color 1
  gologo render --logo brand.logopack -o wide.tiff --ratio 2 --dir l --mul 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, rootFlags, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.logoPath, "logo", "l", "", "Logo description (.json, .yaml or .logopack)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "logo.png", "Output file ("+fmt.Sprint(export.Formats())+")")
	cmd.Flags().IntVar(&opts.ratio, "ratio", 0, "Index of the aspect ratio to use")
	cmd.Flags().StringVar(&opts.dir, "dir", "", "Orientation for non-square ratios: l or p")
	cmd.Flags().IntVar(&opts.multiplier, "mul", 0, "Pixels per ratio unit (default from config)")
	cmd.Flags().StringVar(&opts.canvasColor, "canvas-color", "", "Canvas color choice (default: first palette entry)")
	cmd.Flags().StringArrayVar(&opts.layerColors, "layer-color", nil, "Color choice for the next layer; repeat once per layer")
	cmd.Flags().StringVar(&opts.interpolator, "interpolator", "", "Layer scaling: nearest, approx-bilinear, bilinear, catmull-rom")
	cmd.Flags().IntVar(&opts.quality, "quality", 0, "JPEG quality 1-100 (default from config)")
	_ = cmd.MarkFlagRequired("logo")

	return cmd
}

func runRender(cmd *cobra.Command, rootFlags *rootFlags, opts *renderOptions) error {
	cfg, log, err := rootFlags.setup(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	interpName := cfg.Render.Interpolator
	if opts.interpolator != "" {
		interpName = opts.interpolator
	}
	interp, err := render.InterpolatorByName(interpName)
	if err != nil {
		return err
	}

	l, cleanup, err := logo.Load(opts.logoPath)
	if err != nil {
		return fmt.Errorf("load logo: %w", err)
	}
	defer cleanup()

	sel := logo.Selection{
		Ratio:       opts.ratio,
		Dir:         opts.dir,
		Multiplier:  opts.multiplier,
		CanvasColor: opts.canvasColor,
		LayerColors: opts.layerColors,
	}
	if sel.Multiplier == 0 {
		sel.Multiplier = cfg.Render.Multiplier
	}

	log = log.With("logo", opts.logoPath)
	sess := orchestrator.New(nil, &asset.FileLoader{Root: cfg.Assets.Root, Log: log},
		orchestrator.WithLogger(log),
		orchestrator.WithRenderer(render.NewRenderer(render.Options{Interpolator: interp})),
		orchestrator.WithDrawObserver(func(e orchestrator.DrawEvent) {
			log.WithFields(map[string]any{"target": e.Target.String(), "index": e.Index, "outcome": e.Outcome.String()}).Debug("surface drawn")
		}),
	)
	if err := sess.Import(ctx, l, sel); err != nil {
		return err
	}
	if err := sess.Wait(ctx); err != nil {
		return err
	}

	var loadErrs []error
	for i, layer := range sess.State().Icon.Layers {
		if err := layer.Image.Err(); err != nil {
			loadErrs = append(loadErrs, fmt.Errorf("layer %d: %w", i, err))
		}
	}
	if err := errors.Join(loadErrs...); err != nil {
		return err
	}

	quality := cfg.Render.JPEGQuality
	if opts.quality != 0 {
		quality = opts.quality
	}
	img := sess.Export()
	if err := export.Write(opts.output, img, export.Options{JPEGQuality: quality}); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Done: %s (%dx%d)\n", opts.output, img.Rect.Dx(), img.Rect.Dy())
	return nil
}
