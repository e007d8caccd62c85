package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"stl2thumb/internal/logger"
	"stl2thumb/internal/util"
	"stl2thumb/pkg/config"
	"stl2thumb/pkg/encoder"
	"stl2thumb/pkg/render"
)

func main() {
	width := flag.Int("width", 256, "Width of the generated image")
	height := flag.Int("height", 256, "Height of the generated image")
	sizeHint := flag.Bool("dimensions", false, fmt.Sprintf("Draw the model dimensions underneath the model (requires a height of at least %d pixels)", render.MinHintHeight))
	turntable := flag.Bool("turntable", false, "Render a looping turntable animation instead of a still")
	timeout := flag.Duration("timeout", 0, "Abort rendering after this duration, 0 disables the limit")
	verbose := flag.Bool("verbose", false, "Be verbose")
	configPath := flag.String("config", "", "Path to an optional render configuration file")
	flag.Usage = usage
	flag.Parse()

	log := logger.NewLogger("info")
	if *verbose {
		log.SetLevel(logger.DEBUG)
	}

	if flag.NArg() != 2 {
		usage()
		os.Exit(2)
	}
	input := flag.Arg(0)
	output := flag.Arg(1)

	if !util.FileExists(input) {
		log.Fatalf("input file %q does not exist", input)
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			log.Warnf("%v", err)
		}
	}

	settings := render.Settings{
		Width:    *width,
		Height:   *height,
		SizeHint: *sizeHint && *height >= render.MinHintHeight,
		Timeout:  *timeout,
	}

	log.Debugf("size            %dx%d", settings.Width, settings.Height)
	log.Debugf("input           %s", input)
	log.Debugf("output          %s", output)
	log.Debugf("draw dimensions %v", settings.SizeHint)
	log.Debugf("turntable       %v", *turntable)
	log.Debugf("timeout         %v", settings.Timeout)

	start := time.Now()
	if err := run(input, output, *turntable, settings, cfg); err != nil {
		log.Fatalf("rendering failed: %v", err)
	}
	log.Infof("wrote %s in %s", output, time.Since(start).Round(time.Millisecond))
}

// run renders the input and encodes the result as PNG, or as a GIF
// animation in turntable mode
func run(input, output string, turntable bool, settings render.Settings, cfg *config.Config) error {
	ctx := context.Background()

	out, err := os.Create(output)
	if err != nil {
		return err
	}
	defer out.Close()

	if turntable || strings.EqualFold(filepath.Ext(output), ".gif") {
		frames, err := render.RenderTurntable(ctx, input, settings, cfg)
		if err != nil {
			return err
		}
		return encoder.EncodeGIF(out, frames, encoder.TurntableFrameDelay)
	}

	pic, err := render.RenderFile(ctx, input, settings, cfg)
	if err != nil {
		return err
	}
	return encoder.EncodePNG(out, pic)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <input.stl> <output.png|output.gif>\n", filepath.Base(os.Args[0]))
	fmt.Fprintln(os.Stderr, "\nGenerates thumbnails from STL files.")
	fmt.Fprintln(os.Stderr, "\nFlags:")
	flag.PrintDefaults()
}
