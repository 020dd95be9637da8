package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tonekit/tonekit/internal/palette"
)

// Settings holds all user-configurable application settings organized by category.
type Settings struct {
	General  GeneralSettings  `json:"general"`
	Server   ServerSettings   `json:"server"`
	Editor   EditorSettings   `json:"editor"`
	Families []FamilySettings `json:"families"`
}

// GeneralSettings contains export and housekeeping settings.
type GeneralSettings struct {
	CSSPrefix         string `json:"css_prefix"`
	ExportFilename    string `json:"export_filename"`
	DefaultMode       string `json:"default_mode"`
	LogRetentionCount int    `json:"log_retention_count"`
}

// ServerSettings contains the preview server parameters.
type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// EditorSettings contains live editor parameters.
type EditorSettings struct {
	Theme           int           `json:"theme"`
	RefreshInterval time.Duration `json:"refresh_interval"`
	LargeText       bool          `json:"large_text"`
}

const (
	ThemeAdaptive = 0
	ThemeLight    = 1
	ThemeDark     = 2
)

// FamilySettings is one configured color family.
type FamilySettings struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	H    float64 `json:"h"`
	S    float64 `json:"s"`
	L    float64 `json:"l"`
}

// legacyScaleOrder is the key order of the old "colorScales" object.
var legacyScaleOrder = []string{"primary", "neutral", "warning", "danger", "info", "notice"}

// UnmarshalJSON implements custom JSON unmarshalling for Settings.
// Older files carried a "colorScales" object keyed by short name
// ({"danger": {"h":0,"s":99,"l":50}}); it is migrated into Families.
func (s *Settings) UnmarshalJSON(data []byte) error {
	// Use an alias to avoid infinite recursion (alias has no methods)
	type Alias Settings
	if err := json.Unmarshal(data, (*Alias)(s)); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil // Already parsed above, ignore raw parse errors
	}

	if _, hasFamilies := raw["families"]; hasFamilies {
		return nil
	}
	legacy, ok := raw["colorScales"]
	if !ok {
		return nil
	}
	var scales map[string]struct{ H, S, L float64 }
	if err := json.Unmarshal(legacy, &scales); err != nil {
		return nil
	}

	defaults := palette.DefaultFamilies()
	migrated := make([]FamilySettings, 0, len(scales))
	for _, name := range legacyScaleOrder {
		sc, ok := scales[name]
		if !ok {
			continue
		}
		f, err := palette.FindFamily(defaults, name)
		if err != nil {
			continue
		}
		migrated = append(migrated, FamilySettings{ID: f.ID, Name: f.Name, H: sc.H, S: sc.S, L: sc.L})
	}
	if len(migrated) > 0 {
		s.Families = migrated
	}
	return nil
}

// ToFamilies converts configured families to palette families. Entries
// without an ID, and duplicates, are dropped; values are clamped.
func (s *Settings) ToFamilies() []palette.Family {
	seen := make(map[string]bool, len(s.Families))
	out := make([]palette.Family, 0, len(s.Families))
	for _, fs := range s.Families {
		id := strings.ToLower(strings.TrimSpace(fs.ID))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		name := fs.Name
		if name == "" {
			name = strings.TrimPrefix(id, "alerts-")
		}
		out = append(out, palette.Family{
			ID:   id,
			Name: name,
			HSL:  palette.Clamp(palette.HSL{H: fs.H, S: fs.S, L: fs.L}),
		})
	}
	if len(out) == 0 {
		return palette.DefaultFamilies()
	}
	return out
}

// Mode returns the configured default mode, falling back to light.
func (s *Settings) Mode() palette.Mode {
	m, err := palette.ParseMode(s.General.DefaultMode)
	if err != nil {
		return palette.ModeLight
	}
	return m
}

// Addr returns host:port for the preview server.
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Server.Host, s.Server.Port)
}

// Validate reports settings that cannot be used as-is.
func (s *Settings) Validate() error {
	if _, err := palette.ParseMode(s.General.DefaultMode); err != nil {
		return fmt.Errorf("general.default_mode: %w", err)
	}
	if s.Server.Port < 0 || s.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", s.Server.Port)
	}
	if strings.ContainsAny(s.General.CSSPrefix, " :;{}") {
		return fmt.Errorf("general.css_prefix contains invalid characters: %q", s.General.CSSPrefix)
	}
	return nil
}

// SettingMeta provides metadata for a single setting (for UI rendering).
type SettingMeta struct {
	Key         string // JSON key name
	Label       string // Human-readable label
	Description string // Help text
	Type        string // "string", "int", "bool", "duration"
}

// GetSettingsMetadata returns metadata for all settings organized by category.
func GetSettingsMetadata() map[string][]SettingMeta {
	return map[string][]SettingMeta{
		"General": {
			{Key: "css_prefix", Label: "CSS Prefix", Description: "Namespace for generated custom properties (--<prefix>-color-...).", Type: "string"},
			{Key: "export_filename", Label: "Export Filename", Description: "File name used when downloading or writing the token JSON.", Type: "string"},
			{Key: "default_mode", Label: "Default Mode", Description: "Mode shown first in the editors (light or dark).", Type: "string"},
			{Key: "log_retention_count", Label: "Log Retention Count", Description: "Number of recent log files to keep.", Type: "int"},
		},
		"Server": {
			{Key: "host", Label: "Host", Description: "Interface the preview server binds to.", Type: "string"},
			{Key: "port", Label: "Port", Description: "Preferred preview server port; the next free one is used when it is taken.", Type: "int"},
		},
		"Editor": {
			{Key: "theme", Label: "App Theme", Description: "UI Theme (System, Light, Dark).", Type: "int"},
			{Key: "refresh_interval", Label: "Refresh Interval", Description: "Minimum time between palette regenerations (e.g., 16ms).", Type: "duration"},
			{Key: "large_text", Label: "Large Text", Description: "Grade contrast with the large-text thresholds.", Type: "bool"},
		},
	}
}

// CategoryOrder returns the order of categories for display.
func CategoryOrder() []string {
	return []string{"General", "Server", "Editor"}
}

// DefaultSettings returns a new Settings instance with sensible defaults.
func DefaultSettings() *Settings {
	families := palette.DefaultFamilies()
	fs := make([]FamilySettings, len(families))
	for i, f := range families {
		fs[i] = FamilySettings{ID: f.ID, Name: f.Name, H: f.H, S: f.S, L: f.L}
	}

	return &Settings{
		General: GeneralSettings{
			CSSPrefix:         "op",
			ExportFilename:    "optics-tokens-generated.json",
			DefaultMode:       string(palette.ModeLight),
			LogRetentionCount: 5,
		},
		Server: ServerSettings{
			Host: "127.0.0.1",
			Port: 7420,
		},
		Editor: EditorSettings{
			Theme:           ThemeAdaptive,
			RefreshInterval: 16 * time.Millisecond,
		},
		Families: fs,
	}
}

// GetSettingsPath returns the path to the settings JSON file.
func GetSettingsPath() string {
	return filepath.Join(GetTonekitDir(), "settings.json")
}

// LoadSettings loads settings from disk. Returns defaults if file doesn't exist.
func LoadSettings() (*Settings, error) {
	return loadSettingsFrom(GetSettingsPath())
}

func loadSettingsFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings() // Start with defaults to fill any missing fields
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// SaveSettings saves settings to disk atomically.
func SaveSettings(s *Settings) error {
	path := GetSettingsPath()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	// Atomic write: write to temp file, then rename
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tempPath, path)
}
