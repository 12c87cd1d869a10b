package model

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/BurntSushi/toml"
)

//go:embed palettes.toml
var palettesTOML string

// Palette is a named foreground/background colour pair.
type Palette struct {
	Name       string `toml:"name" json:"name"`
	Foreground string `toml:"fg" json:"fg"`
	Background string `toml:"bg" json:"bg"`
}

var loadPalettes = sync.OnceValues(func() ([]Palette, error) {
	var doc struct {
		Palette []Palette `toml:"palette"`
	}
	if _, err := toml.Decode(palettesTOML, &doc); err != nil {
		return nil, fmt.Errorf("decode palettes: %w", err)
	}
	return doc.Palette, nil
})

// Palettes returns the built-in colour presets in display order.
func Palettes() ([]Palette, error) {
	palettes, err := loadPalettes()
	if err != nil {
		return nil, err
	}
	out := make([]Palette, len(palettes))
	copy(out, palettes)
	return out, nil
}

// PaletteByName looks up a preset case-sensitively.
func PaletteByName(name string) (Palette, bool) {
	palettes, err := loadPalettes()
	if err != nil {
		return Palette{}, false
	}
	for _, p := range palettes {
		if p.Name == name {
			return p, true
		}
	}
	return Palette{}, false
}
