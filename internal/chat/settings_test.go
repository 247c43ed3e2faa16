package chat

import (
	"strings"
	"testing"

	"aio-chat/internal/config"
)

func boolPtr(b bool) *bool { return &b }

func testDefaults() Settings {
	return Settings{
		FileContentLimit:      5000,
		TranslationLimit:      5000,
		EnableTranslation:     true,
		EnableWebSearch:       false,
		WebSearchResultsLimit: 5,
		SystemPrompt:          DefaultSystemPrompt,
	}
}

func TestNormalize(t *testing.T) {
	longPrompt := strings.Repeat("p", 2500)

	tests := []struct {
		name string
		in   SettingsInput
		want Settings
	}{
		{
			name: "empty input takes defaults",
			in:   SettingsInput{},
			want: testDefaults(),
		},
		{
			name: "limits clamped",
			in: SettingsInput{
				FileContentLimit:      50,
				TranslationLimit:      20000,
				WebSearchResultsLimit: 42,
			},
			want: func() Settings {
				s := testDefaults()
				s.FileContentLimit = 100
				s.TranslationLimit = 10000
				s.WebSearchResultsLimit = 10
				return s
			}(),
		},
		{
			name: "negative values clamp to minimum",
			in:   SettingsInput{FileContentLimit: -5, WebSearchResultsLimit: -1},
			want: func() Settings {
				s := testDefaults()
				s.FileContentLimit = 100
				s.WebSearchResultsLimit = 1
				return s
			}(),
		},
		{
			name: "explicit false flags kept",
			in:   SettingsInput{EnableTranslation: boolPtr(false), EnableWebSearch: boolPtr(true)},
			want: func() Settings {
				s := testDefaults()
				s.EnableTranslation = false
				s.EnableWebSearch = true
				return s
			}(),
		},
		{
			name: "short prompt replaced",
			in:   SettingsInput{SystemPrompt: "too short"},
			want: testDefaults(),
		},
		{
			name: "ten character prompt kept",
			in:   SettingsInput{SystemPrompt: "Be concise"},
			want: func() Settings {
				s := testDefaults()
				s.SystemPrompt = "Be concise"
				return s
			}(),
		},
		{
			name: "long prompt cut",
			in:   SettingsInput{SystemPrompt: longPrompt},
			want: func() Settings {
				s := testDefaults()
				s.SystemPrompt = longPrompt[:2000]
				return s
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(testDefaults()); got != tt.want {
				t.Errorf("Normalize() = %+v\nwant %+v", got, tt.want)
			}
		})
	}
}

func TestDefaultSettings(t *testing.T) {
	got := DefaultSettings(config.Defaults{
		FileContentLimit:      999999,
		TranslationLimit:      0,
		EnableTranslation:     false,
		EnableWebSearch:       true,
		WebSearchResultsLimit: 3,
		SystemPrompt:          "short",
	})
	want := Settings{
		FileContentLimit:      10000,
		TranslationLimit:      5000,
		EnableTranslation:     false,
		EnableWebSearch:       true,
		WebSearchResultsLimit: 3,
		SystemPrompt:          DefaultSystemPrompt,
	}
	if got != want {
		t.Errorf("DefaultSettings() = %+v\nwant %+v", got, want)
	}
}

func TestClip(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 5, "hello..."},
		{"olá mundo", 3, "olá..."},
		{"", 0, ""},
	}
	for _, tt := range tests {
		if got := Clip(tt.in, tt.limit); got != tt.want {
			t.Errorf("Clip(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestSettingsLimits(t *testing.T) {
	l := SettingsLimits()
	if l.FileContentLimit.Min != 100 || l.FileContentLimit.Max != 10000 || l.FileContentLimit.Default != 5000 {
		t.Errorf("unexpected content limits %+v", l.FileContentLimit)
	}
	if l.SystemPrompt.MinLength != 10 || l.SystemPrompt.MaxLength != 2000 {
		t.Errorf("unexpected prompt limits %+v", l.SystemPrompt)
	}
	if len(PredefinedPrompts) != 5 {
		t.Errorf("expected 5 predefined prompts, got %d", len(PredefinedPrompts))
	}
}
