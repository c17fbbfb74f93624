package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// sizeValue is a WxH grid size flag. A single number means a square.
type sizeValue struct {
	width, height int
}

var _ pflag.Value = (*sizeValue)(nil)

func (s *sizeValue) String() string {
	return fmt.Sprintf("%dx%d", s.width, s.height)
}

func (s *sizeValue) Set(v string) error {
	w, h, err := parseSize(v)
	if err != nil {
		return err
	}
	s.width, s.height = w, h
	return nil
}

func (s *sizeValue) Type() string {
	return "WxH"
}

// parseSize parses a size string which can be:
// - A single number: "20"
// - Width and height: "40x20"
func parseSize(s string) (width, height int, err error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	switch len(parts) {
	case 1:
		n, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid size: %w", err)
		}
		width, height = n, n
	case 2:
		width, err = strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid width: %w", err)
		}
		height, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid height: %w", err)
		}
	default:
		return 0, 0, fmt.Errorf("invalid size format: %s (use format like '20' or '40x20')", s)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("size must be positive, got %dx%d", width, height)
	}
	return width, height, nil
}

// pin is one parsed --fix argument.
type pin struct {
	X, Y int
	Tile string
}

// parseFix parses a pinned cell written as "x,y=tile".
func parseFix(s string) (pin, error) {
	coords, tile, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(tile) == "" {
		return pin{}, fmt.Errorf("invalid fixed cell %q (use format like '3,4=road')", s)
	}
	xs, ys, ok := strings.Cut(coords, ",")
	if !ok {
		return pin{}, fmt.Errorf("invalid fixed cell %q: coordinates must be 'x,y'", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return pin{}, fmt.Errorf("invalid fixed cell x: %w", err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return pin{}, fmt.Errorf("invalid fixed cell y: %w", err)
	}
	return pin{X: x, Y: y, Tile: strings.TrimSpace(tile)}, nil
}
