package tileset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Mechazawa/wave-function-collapse/internal/grid"
)

// Config is the on-disk form of a tileset. JSON files parse as well, JSON
// being valid YAML.
type Config struct {
	Name  string       `yaml:"name"`
	Tiles []TileConfig `yaml:"tiles" validate:"required,min=1,dive"`
}

// TileConfig describes one tile and, with Rotate, its rotated variants.
type TileConfig struct {
	Name   string `yaml:"name" validate:"required"`
	Symbol string `yaml:"symbol" validate:"omitempty,cellwidth"`
	// Symbols optionally gives one symbol per rotation: 0, 90, 180 and 270
	// degrees clockwise.
	Symbols []string `yaml:"symbols" validate:"omitempty,len=4,dive,cellwidth"`
	Color   string   `yaml:"color" validate:"omitempty,tilecolor"`
	Weight  *float64 `yaml:"weight" validate:"omitempty,gt=0"` // Weight defaults to 1
	Sockets []string `yaml:"sockets" validate:"len=4"`         // up, right, down, left
	Rotate  bool     `yaml:"rotate"`
}

var colorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{3}|#[0-9a-fA-F]{6}|25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])$`)

// configValidate checks decoded configs before any tile is built.
var configValidate *validator.Validate

func init() {
	configValidate = validator.New()

	// A symbol has to fill exactly one terminal cell.
	mustRegister("cellwidth", func(fl validator.FieldLevel) bool {
		return lipgloss.Width(fl.Field().String()) == 1
	})
	// #rgb, #rrggbb or an ANSI color index 0-255.
	mustRegister("tilecolor", func(fl validator.FieldLevel) bool {
		return colorPattern.MatchString(fl.Field().String())
	})
}

func mustRegister(tag string, fn validator.Func) {
	if err := configValidate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("tileset: register %q validation: %v", tag, err))
	}
}

// Load reads a tileset file.
func Load(path string) (*Tileset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ts, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ts, nil
}

// Parse decodes a YAML or JSON tileset. Unknown fields are rejected.
func Parse(data []byte) (*Tileset, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidTileset)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidTileset, err)
	}
	return cfg.Build()
}

// Validate checks c against the tileset schema.
func (c *Config) Validate() error {
	err := configValidate.Struct(c)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return fmt.Errorf("%w: %w", ErrInvalidTileset, err)
	}
	msgs := make([]string, 0, len(fields))
	for _, fe := range fields {
		msg := fmt.Sprintf("%s fails %q", strings.TrimPrefix(fe.Namespace(), "Config."), fe.Tag())
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("%w: %s", ErrInvalidTileset, strings.Join(msgs, "; "))
}

// Build validates c, expands rotations and builds the tileset.
func (c *Config) Build() (*Tileset, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	var tiles []Tile
	for _, tc := range c.Tiles {
		tiles = append(tiles, tc.variants()...)
	}
	return New(c.Name, tiles)
}

func (tc *TileConfig) variants() []Tile {
	base := Tile{
		Name:   tc.Name,
		Symbol: tc.symbol(0),
		Color:  tc.Color,
		Weight: 1,
	}
	if tc.Weight != nil {
		base.Weight = *tc.Weight
	}
	copy(base.Sockets[:], tc.Sockets)

	out := []Tile{base}
	if !tc.Rotate {
		return out
	}

	t := base
	for r := 1; r < grid.DirectionCount; r++ {
		t = t.Rotate()
		if containsSockets(out, t.Sockets) {
			// Symmetric tiles repeat themselves.
			continue
		}
		v := t
		v.Name = fmt.Sprintf("%s@%d", tc.Name, r*90)
		v.Symbol = tc.symbol(r)
		out = append(out, v)
	}
	return out
}

// symbol returns the symbol for rotation r, defaulting to the first rune of
// the name.
func (tc *TileConfig) symbol(r int) string {
	if len(tc.Symbols) > 0 {
		return tc.Symbols[r]
	}
	if tc.Symbol != "" {
		return tc.Symbol
	}
	if first, _ := utf8.DecodeRuneInString(tc.Name); first != utf8.RuneError {
		return string(first)
	}
	return ""
}

func containsSockets(tiles []Tile, sockets [grid.DirectionCount]string) bool {
	for _, t := range tiles {
		if t.Sockets == sockets {
			return true
		}
	}
	return false
}
