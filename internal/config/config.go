package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// TokenPair is one left/right naming token pair of the symmetry convention.
type TokenPair struct {
	Left  string `hcl:"left"`
	Right string `hcl:"right"`
}

// Symmetry holds the ordered naming token pairs used to mirror names.
type Symmetry struct {
	Pairs []TokenPair `hcl:"pair,block"`
}

// Category describes one display grouping for registered actions.
type Category struct {
	Name  string `hcl:"name,label"`
	Color string `hcl:"color,optional"`
}

// Config is the merged build configuration for one blueprint.
type Config struct {
	Symmetry   *Symmetry  `hcl:"symmetry,block"`
	Categories []Category `hcl:"category,block"`
}

// Default returns the built-in configuration layer.
func Default() *Config {
	return &Config{
		Symmetry: &Symmetry{
			Pairs: []TokenPair{
				{Left: "_L", Right: "_R"},
				{Left: "Left", Right: "Right"},
				{Left: "lf_", Right: "rt_"},
			},
		},
		Categories: []Category{
			{Name: "Core", Color: "#d8a657"},
			{Name: "General", Color: "#a9b665"},
		},
	}
}

// Load reads an HCL config file and layers it over the built-in defaults.
// A missing file is not an error; the defaults are returned with a log.
func Load(path string) (*Config, error) {
	base := Default()
	if path == "" {
		return base, nil
	}
	if _, err := os.Stat(path); err != nil {
		slog.Warn("Config file not found, using defaults.", "path", path)
		return base, nil
	}

	var user Config
	if err := hclsimple.DecodeFile(path, nil, &user); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	return merge(base, &user), nil
}

// merge layers the user config over the base config. User symmetry pairs
// are consulted before the defaults; categories merge by name.
func merge(base, user *Config) *Config {
	out := &Config{Symmetry: &Symmetry{}}

	if user.Symmetry != nil {
		out.Symmetry.Pairs = append(out.Symmetry.Pairs, user.Symmetry.Pairs...)
	}
	if base.Symmetry != nil {
		out.Symmetry.Pairs = append(out.Symmetry.Pairs, base.Symmetry.Pairs...)
	}

	byName := map[string]int{}
	for _, c := range base.Categories {
		byName[c.Name] = len(out.Categories)
		out.Categories = append(out.Categories, c)
	}
	for _, c := range user.Categories {
		if i, ok := byName[c.Name]; ok {
			out.Categories[i] = c
			continue
		}
		byName[c.Name] = len(out.Categories)
		out.Categories = append(out.Categories, c)
	}
	return out
}

// MirroredName returns the mirrored counterpart of a name under the
// symmetry convention. The first token pair found in the name wins; a name
// containing no symmetry token is returned unchanged with ok false.
func (c *Config) MirroredName(name string) (string, bool) {
	if c == nil || c.Symmetry == nil {
		return name, false
	}
	for _, p := range c.Symmetry.Pairs {
		if p.Left != "" && strings.Contains(name, p.Left) {
			return strings.ReplaceAll(name, p.Left, p.Right), true
		}
		if p.Right != "" && strings.Contains(name, p.Right) {
			return strings.ReplaceAll(name, p.Right, p.Left), true
		}
	}
	return name, false
}

// CategoryColor returns the display color configured for a category.
func (c *Config) CategoryColor(name string) (string, bool) {
	if c == nil {
		return "", false
	}
	for _, cat := range c.Categories {
		if cat.Name == name {
			return cat.Color, cat.Color != ""
		}
	}
	return "", false
}
