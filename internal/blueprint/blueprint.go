package blueprint

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vk/planforge/internal/action"
	"github.com/vk/planforge/internal/config"
	"github.com/vk/planforge/internal/step"
)

// FormatVersion is written to every saved blueprint. Loading tolerates
// older documents; the version gates future migrations.
const FormatVersion = 1

// SettingName is the settings key holding the name of the output the
// blueprint builds.
const SettingName = "name"

// DefaultFileName is the conventional blueprint file name.
const DefaultFileName = "plan.yaml"

var (
	// ErrNoSteps is returned by PreBuildValidate when nothing would run.
	ErrNoSteps = errors.New("blueprint has no enabled action steps")
	// ErrNoName is returned by PreBuildValidate when the output name
	// setting is missing.
	ErrNoName = errors.New("blueprint has no name setting")
)

// Blueprint is a step tree plus the settings and symmetry config a build
// of that tree uses.
type Blueprint struct {
	reg      *action.Registry
	root     *step.Step
	settings map[string]any

	configPath string
	cfg        *config.Config
}

// New creates an empty blueprint resolving action ids against a
// registry.
func New(reg *action.Registry) *Blueprint {
	return &Blueprint{
		reg:      reg,
		root:     step.New(""),
		settings: map[string]any{},
	}
}

// NewDefault creates a blueprint pre-populated with the default steps
// for a named output.
func NewDefault(reg *action.Registry, name string) *Blueprint {
	b := New(reg)
	b.SetSetting(SettingName, name)
	b.InitializeDefaultSteps()
	return b
}

// Root returns the root step. The root is never nil and its name is
// empty.
func (b *Blueprint) Root() *step.Step { return b.root }

// GetStepByPath resolves a slash-joined path from the root. The empty
// path returns the root itself.
func (b *Blueprint) GetStepByPath(path string) (*step.Step, bool) {
	return b.root.ChildByPath(path)
}

// Setting returns a settings value.
func (b *Blueprint) Setting(key string) (any, bool) {
	v, ok := b.settings[key]
	return v, ok
}

// SettingString returns a settings value as a string, empty when unset
// or not a string.
func (b *Blueprint) SettingString(key string) string {
	s, _ := b.settings[key].(string)
	return s
}

// SetSetting stores a settings value; nil removes the key.
func (b *Blueprint) SetSetting(key string, value any) {
	if value == nil {
		delete(b.settings, key)
		return
	}
	b.settings[key] = value
}

// Settings returns a copy of all settings.
func (b *Blueprint) Settings() map[string]any {
	out := make(map[string]any, len(b.settings))
	for k, v := range b.settings {
		out[k] = v
	}
	return out
}

// Name returns the output name setting.
func (b *Blueprint) Name() string { return b.SettingString(SettingName) }

// SetConfigPath points the blueprint at a symmetry config file. The
// config is reloaded on next use.
func (b *Blueprint) SetConfigPath(path string) {
	b.configPath = path
	b.cfg = nil
}

// ConfigPath returns the symmetry config file path, empty when the
// built-in defaults are used.
func (b *Blueprint) ConfigPath() string { return b.configPath }

// Config returns the symmetry config, loading and caching it on first
// use. Without a config path the built-in defaults are returned.
func (b *Blueprint) Config() *config.Config {
	if b.cfg != nil {
		return b.cfg
	}
	if b.configPath == "" {
		b.cfg = config.Default()
		return b.cfg
	}
	cfg, err := config.Load(b.configPath)
	if err != nil {
		slog.Warn("Failed to load config, using defaults.",
			"path", b.configPath, "error", err)
		cfg = config.Default()
	}
	b.cfg = cfg
	return b.cfg
}

// InitializeDefaultSteps resets the step tree to the default scaffold: a
// claim step for the build output followed by an empty main group.
func (b *Blueprint) InitializeDefaultSteps() {
	b.root = step.New("")
	claim := step.NewAction("", action.NewProxy(b.reg, "core.claim_output"))
	if err := b.root.AddChildren(claim, step.New("Main")); err != nil {
		// the fresh root is a group, adding to it cannot fail
		panic(err)
	}
}

// PreBuildValidate checks that the blueprint is able to produce a build:
// it must be named and contain at least one enabled action step.
func (b *Blueprint) PreBuildValidate() error {
	if b.Name() == "" {
		return ErrNoName
	}
	found := false
	b.root.WalkEnabled(func(s *step.Step) {
		if s.IsAction() {
			found = true
		}
	})
	if !found {
		return ErrNoSteps
	}
	return nil
}

// Serialize returns the document form of the blueprint.
func (b *Blueprint) Serialize() map[string]any {
	return map[string]any{
		"version":  FormatVersion,
		"settings": b.Settings(),
		"steps":    b.root.Serialize(),
	}
}

// Deserialize loads the blueprint from its document form, replacing the
// settings and the whole step tree.
func (b *Blueprint) Deserialize(doc map[string]any) error {
	settings := map[string]any{}
	if raw, ok := doc["settings"].(map[string]any); ok {
		for k, v := range raw {
			settings[k] = v
		}
	}

	root := step.New("")
	if raw, ok := doc["steps"].(map[string]any); ok {
		loaded, err := step.Deserialize(b.reg, raw)
		if err != nil {
			return err
		}
		root = loaded
	}

	b.settings = settings
	b.root = root
	return nil
}

// Save writes the blueprint as YAML to a file.
func (b *Blueprint) Save(path string) error {
	data, err := yaml.Marshal(b.Serialize())
	if err != nil {
		return fmt.Errorf("encoding blueprint: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing blueprint: %w", err)
	}
	return nil
}

// Load reads a YAML blueprint from a file into this blueprint.
func (b *Blueprint) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading blueprint: %w", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding blueprint %s: %w", path, err)
	}
	return b.Deserialize(doc)
}
