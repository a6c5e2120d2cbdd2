package main

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/xob0t/GoLogo/pkg/export"
	"github.com/xob0t/GoLogo/pkg/logo"
)

const sampleSize = 200

type initOptions struct {
	dir   string
	force bool
}

func newInitCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample logo description with two layer images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.dir, "dir", ".", "Directory to write logo.json and assets/ into")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite existing files")

	return cmd
}

func runInit(cmd *cobra.Command, opts *initOptions) error {
	logoPath := filepath.Join(opts.dir, "logo.json")
	files := map[string]image.Image{
		filepath.Join(opts.dir, "assets", "ring.png"): ringMask(sampleSize),
		filepath.Join(opts.dir, "assets", "mark.png"): diamondMask(sampleSize),
	}

	if !opts.force {
		for _, p := range append([]string{logoPath}, keys(files)...) {
			if _, err := os.Stat(p); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", p)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
		}
	}

	if err := os.MkdirAll(filepath.Join(opts.dir, "assets"), 0o755); err != nil {
		return fmt.Errorf("create assets dir: %w", err)
	}
	if err := os.WriteFile(logoPath, []byte(logo.ExampleJSON()), 0o644); err != nil {
		return fmt.Errorf("write logo: %w", err)
	}
	for p, img := range files {
		if err := export.Write(p, img, export.Options{}); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s and %d layer images\n", logoPath, len(files))
	fmt.Fprintf(cmd.OutOrStdout(), "Run: gologo render --logo %s -o logo.png --layer-color 0 --layer-color 1\n", logoPath)
	return nil
}

func keys(m map[string]image.Image) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// ringMask is an opaque annulus on a transparent square.
func ringMask(size int) *image.NRGBA {
	c := float64(size) / 2
	outer, inner := c*0.95, c*0.6
	return mask(size, func(x, y float64) bool {
		d := math.Hypot(x-c, y-c)
		return d <= outer && d >= inner
	})
}

// diamondMask is an opaque diamond filling the inner half of the square.
func diamondMask(size int) *image.NRGBA {
	c := float64(size) / 2
	return mask(size, func(x, y float64) bool {
		return math.Abs(x-c)+math.Abs(y-c) <= c*0.5
	})
}

func mask(size int, inside func(x, y float64) bool) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if inside(float64(x)+0.5, float64(y)+0.5) {
				i := img.PixOffset(x, y)
				img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 0xff, 0xff, 0xff, 0xff
			}
		}
	}
	return img
}
