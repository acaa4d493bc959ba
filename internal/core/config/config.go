// Package config loads named projectile presets and the session block from
// YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/ricochet/internal/core/observability/log"
	"github.com/zeusync/ricochet/internal/core/projectile"
)

var (
	ErrPresetNotFound = errors.New("preset not found")
	ErrInvalidPreset  = errors.New("invalid preset")
)

// Session is the presets file's session block.
type Session struct {
	projectile.Config `yaml:",inline"`
	LogLevel          string `yaml:"log_level"`
}

// Presets is a decoded presets file. Every value is already clamped; the
// clamped fields are kept for reporting.
type Presets struct {
	Session     Session                        `yaml:"session"`
	Projectiles map[string]projectile.Settings `yaml:"projectiles"`

	level   log.Level
	clamped []string
}

// Load decodes a presets file. Unknown keys, unknown enum values and an
// empty projectiles map are rejected with ErrInvalidPreset; out-of-range
// numbers are clamped.
func Load(r io.Reader) (*Presets, error) {
	p := &Presets{Session: Session{Config: projectile.DefaultConfig(), LogLevel: "info"}}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPreset, err)
	}
	if len(p.Projectiles) == 0 {
		return nil, fmt.Errorf("%w: no projectiles defined", ErrInvalidPreset)
	}

	level, err := log.ParseLevel(p.Session.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPreset, err)
	}
	p.level = level

	var touched []string
	p.Session.Config, touched = p.Session.Config.Normalize()
	p.clamped = append(p.clamped, touched...)
	for _, name := range p.Names() {
		p.Projectiles[name], touched = p.Projectiles[name].Normalize()
		for _, field := range touched {
			p.clamped = append(p.clamped, "projectiles."+name+"."+field)
		}
	}
	return p, nil
}

// LoadFile opens path and decodes it with Load.
func LoadFile(path string) (*Presets, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return p, nil
}

// Projectile returns the named spawn settings.
func (p *Presets) Projectile(name string) (projectile.Settings, error) {
	s, ok := p.Projectiles[name]
	if !ok {
		return projectile.Settings{}, fmt.Errorf("%q: %w", name, ErrPresetNotFound)
	}
	return s, nil
}

// Names lists the preset names in sorted order.
func (p *Presets) Names() []string {
	names := make([]string, 0, len(p.Projectiles))
	for name := range p.Projectiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p *Presets) LogLevel() log.Level { return p.level }
func (p *Presets) Clamped() []string   { return slices.Clone(p.clamped) }

// Report logs every clamped field at warn.
func (p *Presets) Report(logger log.Log) {
	for _, field := range p.clamped {
		logger.Warn("preset setting clamped", log.String("field", field))
	}
}
