// ripplesnap renders ripple frames to image files without a window.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/ripple/internal/assets"
	"github.com/Faultbox/ripple/internal/engine/texture"
	"github.com/Faultbox/ripple/internal/logger"
	"github.com/Faultbox/ripple/internal/snapshot"
	"github.com/Faultbox/ripple/pkg/ripple"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "render":
		err = cmdRender(args)
	case "info":
		err = cmdInfo(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`ripplesnap - render water ripple frames to disk

Usage:
  ripplesnap <command> [options]

Commands:
  render   Drag a pointer across an image and save the final frame
  info     Show an image's size and how it is cover-fitted

Examples:
  ripplesnap render -image pond.jpg -w 640 -h 480 -frames 90 -path "100,100:540,380" -o out.png
  ripplesnap info -image pond.jpg -w 1280 -h 720`)
}

func cmdRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	image := fs.String("image", "", "Source image")
	width := fs.Int("w", 640, "Surface width")
	height := fs.Int("h", 480, "Surface height")
	frames := fs.Int("frames", 60, "Frames to simulate")
	pathSpec := fs.String("path", "", `Pointer path "x0,y0:x1,y1[:...]"`)
	translateY := fs.Float64("translate-y", 0, "Vertical shift after cover fit")
	workers := fs.Int("workers", 0, "Render goroutines (0 = one per CPU)")
	out := fs.String("o", "ripple.png", "Output file (.png or .bmp)")
	debug := fs.Bool("debug", false, "Enable debug logging")
	fs.Parse(args)

	if *image == "" {
		return errors.New("-image is required")
	}
	if *frames < 1 {
		return fmt.Errorf("-frames must be at least 1, got %d", *frames)
	}
	path, err := parsePath(*pathSpec)
	if err != nil {
		return err
	}

	level := "warn"
	if *debug {
		level = "debug"
	}
	if err := logger.Init(level, ""); err != nil {
		return err
	}
	defer logger.Sync()

	manager := assets.NewManager(logger.Named("assets"))
	defer manager.Close()

	params := ripple.DefaultParams()
	params.Workers = *workers
	sim, err := ripple.New(params, ripple.WithLogger(logger.Named("ripple")))
	if err != nil {
		return err
	}
	defer sim.Stop()

	if err := sim.Initialize(*width, *height, manager.Source(*image), *translateY); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sim.WaitReady(ctx); err != nil {
		return err
	}

	sim.Start()
	start := time.Now()
	for i := 0; i < *frames; i++ {
		if p, ok := path.At(i, *frames); ok {
			sim.OnPointerMove(p.X, p.Y)
		}
		sim.Tick()
	}
	logger.Debug("frames rendered",
		zap.Int("frames", *frames),
		zap.Duration("elapsed", time.Since(start)),
	)

	pix, w, h := sim.Frame()
	img, err := snapshot.FromPixels(pix, w, h)
	if err != nil {
		return err
	}
	if err := snapshot.WriteFile(*out, img); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%dx%d, %d frames)\n", *out, w, h, *frames)
	return nil
}

func cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	image := fs.String("image", "", "Source image")
	width := fs.Int("w", 0, "Surface width to fit (optional)")
	height := fs.Int("h", 0, "Surface height to fit (optional)")
	translateY := fs.Float64("translate-y", 0, "Vertical shift after cover fit")
	fs.Parse(args)

	if *image == "" {
		return errors.New("-image is required")
	}

	manager := assets.NewManager(nil)
	defer manager.Close()
	resolved, err := manager.Resolve(*image)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return err
	}
	img, format, err := texture.Decode(data, resolved)
	if err != nil {
		return err
	}

	b := img.Bounds()
	fmt.Printf("Image:  %s\n", resolved)
	fmt.Printf("Format: %s\n", format)
	fmt.Printf("Size:   %dx%d\n", b.Dx(), b.Dy())
	if *width > 0 && *height > 0 {
		r := ripple.CoverRect(b.Dx(), b.Dy(), *width, *height, *translateY)
		fmt.Printf("Cover %dx%d: drawn at (%.1f, %.1f) size %.1fx%.1f\n",
			*width, *height, r.X, r.Y, r.W, r.H)
	}
	return nil
}
