package translate

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"aio-chat/internal/cache"
)

const (
	English = "english"

	DefaultTarget = "en"
)

type languagePattern struct {
	name    string
	pattern *regexp.Regexp
}

// Checked in order; the first match wins.
var languagePatterns = []languagePattern{
	{"spanish", regexp.MustCompile(`(?i)[ñáéíóúü]`)},
	{"french", regexp.MustCompile(`(?i)[àâäéèêëïîôöùûüÿç]`)},
	{"german", regexp.MustCompile(`(?i)[äöüß]`)},
	{"italian", regexp.MustCompile(`(?i)[àèéìíîòóù]`)},
	{"portuguese", regexp.MustCompile(`(?i)[ãõáàâéêíóôúç]`)},
	{"russian", regexp.MustCompile(`(?i)[а-яё]`)},
	{"chinese", regexp.MustCompile(`[\x{4e00}-\x{9fff}]`)},
	{"japanese", regexp.MustCompile(`[\x{3040}-\x{309f}\x{30a0}-\x{30ff}]`)},
	{"korean", regexp.MustCompile(`[\x{ac00}-\x{d7af}]`)},
	{"arabic", regexp.MustCompile(`[\x{0600}-\x{06ff}]`)},
}

var phrases = map[string]string{
	"Hola, ¿cómo estás?":            "Hello, how are you?",
	"Bonjour, comment allez-vous?":  "Hello, how are you?",
	"Guten Tag, wie geht es Ihnen?": "Good day, how are you?",
	"Ciao, come stai?":              "Hello, how are you?",
	"Olá, como você está?":          "Hello, how are you?",
}

// DetectLanguage guesses the language of text from its characters.
func DetectLanguage(text string) string {
	for _, lp := range languagePatterns {
		if lp.pattern.MatchString(text) {
			return lp.name
		}
	}
	return English
}

type Result struct {
	OriginalText     string `json:"originalText"`
	TranslatedText   string `json:"translatedText"`
	DetectedLanguage string `json:"detectedLanguage"`
	TargetLanguage   string `json:"targetLanguage"`
}

// Translator renders text in English.
type Translator interface {
	Translate(ctx context.Context, text, target string) (Result, error)
}

// PhraseTranslator translates a fixed phrase table and tags everything else
// with the detected language. Results are cached.
type PhraseTranslator struct {
	log   *slog.Logger
	cache cache.Cache
	ttl   time.Duration
}

func NewPhraseTranslator(log *slog.Logger, c cache.Cache, ttl time.Duration) *PhraseTranslator {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	return &PhraseTranslator{log: log, cache: c, ttl: ttl}
}

func (t *PhraseTranslator) Translate(ctx context.Context, text, target string) (Result, error) {
	if target == "" {
		target = DefaultTarget
	}
	res := Result{OriginalText: text, TargetLanguage: target}

	key := cache.Key(cache.NamespaceTranslation, target, text)
	if cached, err := t.cache.GetTranslation(ctx, key); err != nil {
		t.log.Warn("translation cache read failed", "err", err)
	} else if cached != nil {
		res.TranslatedText = cached.Text
		res.DetectedLanguage = cached.DetectedLanguage
		return res, nil
	}

	res.DetectedLanguage = DetectLanguage(text)
	res.TranslatedText = translateDetected(text, res.DetectedLanguage)

	if err := t.cache.SetTranslation(ctx, key, &cache.Translation{Text: res.TranslatedText, DetectedLanguage: res.DetectedLanguage}, t.ttl); err != nil {
		t.log.Warn("translation cache write failed", "err", err)
	}
	return res, nil
}

func translateDetected(text, lang string) string {
	if lang == English {
		return text
	}
	if english, ok := phrases[strings.TrimSpace(text)]; ok {
		return fmt.Sprintf("[Translated from %s] %s", lang, english)
	}
	return fmt.Sprintf("[Detected: %s] %s", lang, text)
}
