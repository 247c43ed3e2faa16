package chat

import (
	"aio-chat/internal/config"
)

const (
	MinContentLimit     = 100
	MaxContentLimit     = 10000
	DefaultContentLimit = 5000

	MinSearchResults     = 1
	MaxSearchResults     = 10
	DefaultSearchResults = 5

	MinSystemPromptLength = 10
	MaxSystemPromptLength = 2000
)

const DefaultSystemPrompt = "You are AIO Travel Itinerary assistant. You help users create, analyze, and manage travel itineraries. You can translate content, extract detailed information, generate quotations, and provide comprehensive travel planning assistance."

// Settings controls how files, translation and web search feed a conversation.
type Settings struct {
	FileContentLimit      int    `json:"fileContentLimit"`
	TranslationLimit      int    `json:"translationLimit"`
	EnableTranslation     bool   `json:"enableTranslation"`
	EnableWebSearch       bool   `json:"enableWebSearch"`
	WebSearchResultsLimit int    `json:"webSearchResultsLimit"`
	SystemPrompt          string `json:"systemPrompt"`
}

// SettingsInput is Settings as sent by a client; any field may be missing.
type SettingsInput struct {
	FileContentLimit      int    `json:"fileContentLimit"`
	TranslationLimit      int    `json:"translationLimit"`
	EnableTranslation     *bool  `json:"enableTranslation"`
	EnableWebSearch       *bool  `json:"enableWebSearch"`
	WebSearchResultsLimit int    `json:"webSearchResultsLimit"`
	SystemPrompt          string `json:"systemPrompt"`
}

// DefaultSettings converts configured defaults into valid Settings.
func DefaultSettings(d config.Defaults) Settings {
	base := Settings{
		FileContentLimit:      DefaultContentLimit,
		TranslationLimit:      DefaultContentLimit,
		EnableTranslation:     d.EnableTranslation,
		EnableWebSearch:       d.EnableWebSearch,
		WebSearchResultsLimit: DefaultSearchResults,
		SystemPrompt:          DefaultSystemPrompt,
	}
	in := SettingsInput{
		FileContentLimit:      d.FileContentLimit,
		TranslationLimit:      d.TranslationLimit,
		WebSearchResultsLimit: d.WebSearchResultsLimit,
		SystemPrompt:          d.SystemPrompt,
	}
	return in.Normalize(base)
}

// Normalize fills missing fields from defaults and clamps the rest into range.
// Zero limits take the default; a system prompt shorter than
// MinSystemPromptLength is replaced and a longer one is cut to MaxSystemPromptLength.
func (in SettingsInput) Normalize(defaults Settings) Settings {
	out := Settings{
		FileContentLimit:      clamp(orInt(in.FileContentLimit, defaults.FileContentLimit), MinContentLimit, MaxContentLimit),
		TranslationLimit:      clamp(orInt(in.TranslationLimit, defaults.TranslationLimit), MinContentLimit, MaxContentLimit),
		EnableTranslation:     defaults.EnableTranslation,
		EnableWebSearch:       defaults.EnableWebSearch,
		WebSearchResultsLimit: clamp(orInt(in.WebSearchResultsLimit, defaults.WebSearchResultsLimit), MinSearchResults, MaxSearchResults),
		SystemPrompt:          defaults.SystemPrompt,
	}
	if in.EnableTranslation != nil {
		out.EnableTranslation = *in.EnableTranslation
	}
	if in.EnableWebSearch != nil {
		out.EnableWebSearch = *in.EnableWebSearch
	}
	if r := []rune(in.SystemPrompt); len(r) >= MinSystemPromptLength {
		if len(r) > MaxSystemPromptLength {
			r = r[:MaxSystemPromptLength]
		}
		out.SystemPrompt = string(r)
	}
	return out
}

// Clip cuts s to limit runes and marks the cut with "...".
func Clip(s string, limit int) string {
	r := []rune(s)
	if limit < 0 || len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

// PredefinedPrompts are quick actions offered next to the composer.
var PredefinedPrompts = []string{
	"Translate Itinerary",
	"Extract full detailed itinerary",
	"Generate a quotation",
	"Extract all inclusion",
	"Extract all exclusions",
}

type Range struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
}

type LengthRange struct {
	MinLength int `json:"minLength"`
	MaxLength int `json:"maxLength"`
}

// Limits describes the accepted ranges so the UI can validate before sending.
type Limits struct {
	FileContentLimit      Range       `json:"fileContentLimit"`
	TranslationLimit      Range       `json:"translationLimit"`
	WebSearchResultsLimit Range       `json:"webSearchResultsLimit"`
	SystemPrompt          LengthRange `json:"systemPrompt"`
}

func SettingsLimits() Limits {
	content := Range{Min: MinContentLimit, Max: MaxContentLimit, Default: DefaultContentLimit}
	return Limits{
		FileContentLimit:      content,
		TranslationLimit:      content,
		WebSearchResultsLimit: Range{Min: MinSearchResults, Max: MaxSearchResults, Default: DefaultSearchResults},
		SystemPrompt:          LengthRange{MinLength: MinSystemPromptLength, MaxLength: MaxSystemPromptLength},
	}
}
