// Package config reads the browser's TOML configuration file.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"minibrowser/pkg/logger"
	"minibrowser/pkg/text"
)

type Config struct {
	Viewport  Viewport    `toml:"viewport"`
	StartPage string      `toml:"start_page"`
	Scroll    Scroll      `toml:"scroll"`
	Scripts   bool        `toml:"scripts"`
	Fonts     []FontEntry `toml:"fonts"`
}

// Viewport is the size of the painted area in pixels. Its width is the
// width of the containing block of the root box.
type Viewport struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Scroll holds the distances the arrow keys move the viewport.
type Scroll struct {
	Vertical   float64 `toml:"vertical"`
	Horizontal float64 `toml:"horizontal"`
}

// FontEntry installs a TrueType file under a family name.
type FontEntry struct {
	Family string `toml:"family"`
	Weight int    `toml:"weight"`
	Style  string `toml:"style"`
	Path   string `toml:"path"`
}

func Default() Config {
	return Config{
		Viewport: Viewport{Width: 800, Height: 1100},
		Scroll:   Scroll{Vertical: 300, Horizontal: 100},
	}
}

// Load reads the file at path over the defaults. Keys the file leaves out
// keep their default value; unknown keys are reported and ignored.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		logger.WarningLogger.Printf("%s: unknown key %s", path, key)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", c.Viewport.Width, c.Viewport.Height)
	}
	for i, f := range c.Fonts {
		if f.Family == "" || f.Path == "" {
			return fmt.Errorf("fonts[%d]: family and path are required", i)
		}
	}
	return nil
}

// InstallFonts installs the standard fonts followed by the configured ones.
func (c Config) InstallFonts(fc *text.FontCache) error {
	if err := fc.InstallStandardFonts(); err != nil {
		return err
	}
	for _, f := range c.Fonts {
		weight := f.Weight
		if weight == 0 {
			weight = 400
		}
		style := strings.ToLower(f.Style)
		if style == "" {
			style = "normal"
		}
		if err := fc.InstallFontFile(f.Path, f.Family, weight, style); err != nil {
			return fmt.Errorf("installing font %s: %w", f.Path, err)
		}
		logger.ProgressLogger.Printf("installed %s as %q weight %d style %s", f.Path, f.Family, weight, style)
	}
	return nil
}
