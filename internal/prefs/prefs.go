// Package prefs handles peke user preferences persistence.
// Preferences are stored in ~/.config/peke/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/nachokhan/peke-panel/internal/panel"
)

// PanelGeometry is the persisted placement of one panel kind.
type PanelGeometry struct {
	Top    int `toml:"top"`
	Left   int `toml:"left"`
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

func (g PanelGeometry) valid() bool {
	return g.Top >= 0 && g.Left >= 0 && g.Width > 0 && g.Height > 0
}

// Prefs holds user preferences for peke.
type Prefs struct {
	Theme  string                   `toml:"theme"`
	Panels map[string]PanelGeometry `toml:"panels,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/peke/prefs.toml"
	defaultTheme     = "Nightfox"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

func defaults() Prefs {
	return Prefs{Theme: defaultTheme}
}

// Load reads preferences from the given path, falling back to defaults if
// the file is missing or unreadable. Invalid panel entries are dropped.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return defaults(), nil
	}

	prefs := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return defaults(), nil // Graceful degradation
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}
	for kind, g := range prefs.Panels {
		if !g.valid() {
			delete(prefs.Panels, kind)
		}
	}

	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

// Store gives panels and the theme switcher read-modify-write access to the
// prefs file. It implements panel.GeometryStore.
type Store struct {
	mu   sync.Mutex
	path string
}

var _ panel.GeometryStore = (*Store)(nil)

// NewStore returns a Store for path ("" means the default location).
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the configured path.
func (s *Store) Path() string { return s.path }

// Load reads the current preferences.
func (s *Store) Load() Prefs {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, _ := Load(s.path)
	return p
}

// LoadGeometry returns the saved geometry for kind, if any.
func (s *Store) LoadGeometry(kind panel.Kind) (panel.Geometry, bool) {
	p := s.Load()
	g, ok := p.Panels[string(kind)]
	if !ok {
		return panel.Geometry{}, false
	}
	return panel.Geometry{Top: g.Top, Left: g.Left, Width: g.Width, Height: g.Height}, true
}

// SaveGeometry records the geometry for kind.
func (s *Store) SaveGeometry(kind panel.Kind, g panel.Geometry) error {
	return s.update(func(p *Prefs) {
		if p.Panels == nil {
			p.Panels = make(map[string]PanelGeometry)
		}
		p.Panels[string(kind)] = PanelGeometry{Top: g.Top, Left: g.Left, Width: g.Width, Height: g.Height}
	})
}

// SaveTheme records the theme name.
func (s *Store) SaveTheme(name string) error {
	return s.update(func(p *Prefs) { p.Theme = name })
}

func (s *Store) update(fn func(*Prefs)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, _ := Load(s.path)
	fn(&p)
	return Save(s.path, p)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
