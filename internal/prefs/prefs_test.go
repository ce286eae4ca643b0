package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s := NewStore(t.TempDir())

	p, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.Theme != ThemeLight {
		t.Errorf("default theme = %q, want %q", p.Theme, ThemeLight)
	}
}

func TestToggleThemePersists(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	theme, err := s.ToggleTheme()
	if err != nil {
		t.Fatalf("ToggleTheme() error = %v", err)
	}
	if theme != ThemeDark {
		t.Errorf("first toggle = %q, want dark", theme)
	}

	reloaded := NewStore(dir)
	p, err := reloaded.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !p.Dark() {
		t.Errorf("reloaded theme = %q, want dark", p.Theme)
	}

	theme, _ = reloaded.ToggleTheme()
	if theme != ThemeLight {
		t.Errorf("second toggle = %q, want light", theme)
	}
}

func TestSetBackgroundPersists(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	if err := s.SetBackground(" gradient ", "bg-sunset"); err != nil {
		t.Fatalf("SetBackground() error = %v", err)
	}

	p, err := NewStore(dir).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.BackgroundType != "gradient" || p.BackgroundClass != "bg-sunset" {
		t.Errorf("unexpected background: %+v", p)
	}
}

func TestUnknownThemeNormalized(t *testing.T) {
	dir := t.TempDir()
	content := "theme: purple\nbackgroundType: solid\n"
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := NewStore(dir).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.Theme != ThemeLight {
		t.Errorf("theme = %q, want light", p.Theme)
	}
	if p.BackgroundType != "solid" {
		t.Errorf("backgroundType = %q, want solid", p.BackgroundType)
	}
}
