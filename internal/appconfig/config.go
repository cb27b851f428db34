package appconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jcorbin/chatmark/internal/chatui"
)

// CurrentConfigVersion is the config schema version written by WriteDefault
// and required by Load.
const CurrentConfigVersion = 1

// Config holds chatmark settings.
type Config struct {
	ConfigVersion int           `mapstructure:"config_version" yaml:"config_version"`
	Render        RenderConfig  `mapstructure:"render" yaml:"render"`
	HTML          HTMLConfig    `mapstructure:"html" yaml:"html"`
	Term          TermConfig    `mapstructure:"term" yaml:"term"`
	Preview       PreviewConfig `mapstructure:"preview" yaml:"preview"`
}

// RenderConfig selects the default output format and message splitting.
type RenderConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
	Split  string `mapstructure:"split" yaml:"split"`
}

// HTMLConfig configures HTML rendering. Bare URL links always open in a new
// tab; TargetBlank extends that to every absolute link. Safelink keeps links
// with unsafe destinations, such as "javascript:", from becoming anchors.
type HTMLConfig struct {
	Class       string `mapstructure:"class" yaml:"class"`
	TargetBlank bool   `mapstructure:"target_blank" yaml:"target_blank"`
	Safelink    bool   `mapstructure:"safelink" yaml:"safelink"`
}

// TermConfig configures terminal (ANSI) rendering.
type TermConfig struct {
	Profile    string `mapstructure:"profile" yaml:"profile"`
	Hyperlinks bool   `mapstructure:"hyperlinks" yaml:"hyperlinks"`
}

// PreviewConfig configures the interactive preview. A zero Width uses the
// whole screen.
type PreviewConfig struct {
	Width int `mapstructure:"width" yaml:"width"`
}

// Output formats.
const (
	FormatSegments = "segments"
	FormatJSON     = "json"
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
	FormatANSI     = "ansi"
)

// Formats lists every valid render.format value.
var Formats = []string{FormatSegments, FormatJSON, FormatHTML, FormatMarkdown, FormatANSI}

// Terminal color profiles.
const (
	ProfileAuto      = "auto"
	ProfileASCII     = "ascii"
	ProfileANSI      = "ansi"
	ProfileANSI256   = "ansi256"
	ProfileTrueColor = "truecolor"
)

// Profiles lists every valid term.profile value.
var Profiles = []string{ProfileAuto, ProfileASCII, ProfileANSI, ProfileANSI256, ProfileTrueColor}

// DefaultConfig returns the built-in settings.
func DefaultConfig() (Config, error) {
	return Config{
		ConfigVersion: CurrentConfigVersion,
		Render: RenderConfig{
			Format: FormatSegments,
			Split:  string(chatui.SplitBlank),
		},
		HTML: HTMLConfig{
			Class:       "chat-message",
			TargetBlank: false,
			Safelink:    true,
		},
		Term: TermConfig{
			Profile:    ProfileAuto,
			Hyperlinks: false,
		},
	}, nil
}

// DefaultConfigPath returns the user config file location.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "chatmark", "config.yaml"), nil
}

// Validate checks enumerated settings.
func (cfg Config) Validate() error {
	if !contains(Formats, cfg.Render.Format) {
		return fmt.Errorf("unsupported render.format %q; expected one of %v", cfg.Render.Format, Formats)
	}
	if _, err := chatui.ParseSplit(cfg.Render.Split); err != nil {
		return fmt.Errorf("render.split: %w", err)
	}
	if !contains(Profiles, cfg.Term.Profile) {
		return fmt.Errorf("unsupported term.profile %q; expected one of %v", cfg.Term.Profile, Profiles)
	}
	if cfg.Preview.Width < 0 {
		return fmt.Errorf("preview.width must not be negative, got %d", cfg.Preview.Width)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
