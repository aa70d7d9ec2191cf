package main

import (
	"flag"
	"fmt"
	"os"

	"minibrowser/pkg/config"
	"minibrowser/pkg/layout"
	"minibrowser/pkg/render"
	"minibrowser/pkg/resource"
	"minibrowser/pkg/text"
)

func main() {
	configPath := flag.String("config", "", "TOML configuration file")
	width := flag.Int("w", 0, "viewport width in pixels (overrides the config)")
	height := flag.Int("h", 0, "viewport height in pixels (overrides the config)")
	scrollY := flag.Float64("y", 0, "vertical scroll offset in pixels")
	scripts := flag.Bool("js", false, "run the page's scripts before layout")
	output := flag.String("o", "output.png", "output PNG file path")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: l14show [flags] [url or file]\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if *width > 0 {
		cfg.Viewport.Width = *width
	}
	if *height > 0 {
		cfg.Viewport.Height = *height
	}

	url := cfg.StartPage
	if flag.NArg() > 0 {
		url = flag.Arg(0)
	}
	if url == "" {
		flag.Usage()
		os.Exit(1)
	}

	fonts := text.NewFontCache()
	if err := cfg.InstallFonts(fonts); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading fonts: %v\n", err)
		os.Exit(1)
	}

	nav := resource.NewNavigator(fonts)
	nav.SetScriptsEnabled(cfg.Scripts || *scripts)

	fmt.Fprintf(os.Stderr, "Loading %s...\n", url)
	containing := layout.Dimensions{Content: layout.Rect{Width: float64(cfg.Viewport.Width)}}
	_, root, err := nav.Navigate(url, containing)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Rendering %dx%d...\n", cfg.Viewport.Width, cfg.Viewport.Height)
	r := render.NewRenderer(cfg.Viewport.Width, cfg.Viewport.Height, fonts)
	r.Render(root, layout.Rect{
		Y:      *scrollY,
		Width:  float64(cfg.Viewport.Width),
		Height: float64(cfg.Viewport.Height),
	})
	if err := r.SavePNG(*output); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing PNG: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Saved to %s\n", *output)
}
