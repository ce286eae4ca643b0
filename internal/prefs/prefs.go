package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	FileName = "prefs.yml"
)

// Preferences are the look-and-feel choices kept between sessions.
// They are independent of any folder or note.
type Preferences struct {
	Theme           string `koanf:"theme"`
	BackgroundType  string `koanf:"backgroundType"`
	BackgroundClass string `koanf:"backgroundClass"`
}

func Defaults() Preferences {
	return Preferences{Theme: ThemeLight}
}

// Store reads and writes preferences to a YAML file
type Store struct {
	path  string
	prefs Preferences
}

func NewStore(dataDir string) *Store {
	return &Store{
		path:  filepath.Join(dataDir, FileName),
		prefs: Defaults(),
	}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get() Preferences {
	return s.prefs
}

// Load reads the preferences file. A missing file leaves the defaults in place.
func (s *Store) Load() (Preferences, error) {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		s.prefs = Defaults()
		return s.prefs, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(s.path), yaml.Parser()); err != nil {
		return s.prefs, fmt.Errorf("failed to load preferences: %w", err)
	}

	p := Defaults()
	if err := k.Unmarshal("", &p); err != nil {
		return s.prefs, fmt.Errorf("failed to parse preferences: %w", err)
	}
	p.Theme = normalizeTheme(p.Theme)

	s.prefs = p
	return s.prefs, nil
}

// Save writes the current preferences to disk
func (s *Store) Save() error {
	k := koanf.New(".")
	for key, val := range map[string]string{
		"theme":           s.prefs.Theme,
		"backgroundType":  s.prefs.BackgroundType,
		"backgroundClass": s.prefs.BackgroundClass,
	} {
		if err := k.Set(key, val); err != nil {
			return fmt.Errorf("failed to encode preferences: %w", err)
		}
	}

	data, err := k.Marshal(yaml.Parser())
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}

	return os.WriteFile(s.path, data, 0644)
}

// ToggleTheme flips between light and dark and persists the choice
func (s *Store) ToggleTheme() (string, error) {
	next := ThemeDark
	if s.prefs.Theme == ThemeDark {
		next = ThemeLight
	}
	return next, s.SetTheme(next)
}

func (s *Store) SetTheme(theme string) error {
	s.prefs.Theme = normalizeTheme(theme)
	return s.Save()
}

// SetBackground records the background choice and persists it
func (s *Store) SetBackground(bgType, bgClass string) error {
	s.prefs.BackgroundType = strings.TrimSpace(bgType)
	s.prefs.BackgroundClass = strings.TrimSpace(bgClass)
	return s.Save()
}

func (p Preferences) Dark() bool {
	return p.Theme == ThemeDark
}

func normalizeTheme(theme string) string {
	if strings.EqualFold(strings.TrimSpace(theme), ThemeDark) {
		return ThemeDark
	}
	return ThemeLight
}
