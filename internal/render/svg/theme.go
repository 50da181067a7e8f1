package svg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Theme controls the colors, fonts and chrome dimensions of a rendered
// chart. Bar colors come from the status palette and are not themed.
type Theme struct {
	Font struct {
		Family string `yaml:"family"`
		Size   int    `yaml:"size"`
	} `yaml:"font"`
	Colors struct {
		Background        string `yaml:"background"`
		Grid              string `yaml:"grid"`
		Weekend           string `yaml:"weekend"`
		HeaderBackground  string `yaml:"header_background"`
		HeaderText        string `yaml:"header_text"`
		HeaderBorder      string `yaml:"header_border"`
		SidebarBackground string `yaml:"sidebar_background"`
		SidebarText       string `yaml:"sidebar_text"`
		Today             string `yaml:"today"`
		Connector         string `yaml:"connector"`
		CriticalConnector string `yaml:"critical_connector"`
		ProgressFill      string `yaml:"progress_fill"`
		EmptyText         string `yaml:"empty_text"`
	} `yaml:"colors"`
	Layout struct {
		SidebarWidth    int `yaml:"sidebar_width"`
		HeaderRowHeight int `yaml:"header_row_height"`
		IndentWidth     int `yaml:"indent_width"`
		AccentWidth     int `yaml:"accent_width"`
		CornerRadius    int `yaml:"corner_radius"`
		EmptyHeight     int `yaml:"empty_height"`
		EmptyWidth      int `yaml:"empty_width"`
	} `yaml:"layout"`
	ProgressOpacity float64 `yaml:"progress_opacity"`
	ShowBarLabels   bool    `yaml:"show_bar_labels"`
}

func DefaultTheme() Theme {
	var t Theme
	t.Font.Family = "Inter, Helvetica, Arial, sans-serif"
	t.Font.Size = 12

	t.Colors.Background = "#ffffff"
	t.Colors.Grid = "#e5e7eb"
	t.Colors.Weekend = "#f9fafb"
	t.Colors.HeaderBackground = "#f3f4f6"
	t.Colors.HeaderText = "#374151"
	t.Colors.HeaderBorder = "#d1d5db"
	t.Colors.SidebarBackground = "#ffffff"
	t.Colors.SidebarText = "#111827"
	t.Colors.Today = "#ef4444"
	t.Colors.Connector = "#6b7280"
	t.Colors.CriticalConnector = "#dc2626"
	t.Colors.ProgressFill = "#000000"
	t.Colors.EmptyText = "#6b7280"

	t.Layout.SidebarWidth = 240
	t.Layout.HeaderRowHeight = 28
	t.Layout.IndentWidth = 16
	t.Layout.AccentWidth = 4
	t.Layout.CornerRadius = 4
	t.Layout.EmptyHeight = 160
	t.Layout.EmptyWidth = 640

	t.ProgressOpacity = 0.2
	t.ShowBarLabels = true
	return t
}

// ParseTheme overlays YAML onto the defaults: keys absent from data keep
// their default values.
func ParseTheme(data []byte) (Theme, error) {
	t := DefaultTheme()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Theme{}, fmt.Errorf("parsing theme: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// LoadTheme reads a theme file. An empty path yields the defaults.
func LoadTheme(path string) (Theme, error) {
	if path == "" {
		return DefaultTheme(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("reading theme file: %w", err)
	}
	return ParseTheme(data)
}

func (t Theme) Validate() error {
	switch {
	case t.Font.Size <= 0:
		return fmt.Errorf("theme: font.size must be positive, got %d", t.Font.Size)
	case t.Layout.SidebarWidth < 0:
		return fmt.Errorf("theme: layout.sidebar_width must not be negative")
	case t.Layout.HeaderRowHeight <= 0:
		return fmt.Errorf("theme: layout.header_row_height must be positive")
	case t.ProgressOpacity < 0 || t.ProgressOpacity > 1:
		return fmt.Errorf("theme: progress_opacity must be within 0..1, got %g", t.ProgressOpacity)
	}
	return nil
}
