// Package translation translates user text to and from English for the
// analysis engines. Translation never fails outward: on any error the input
// text is returned unchanged.
package translation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/healthintel/healthintel/internal/platform/cache"
	"github.com/healthintel/healthintel/internal/platform/inference"
)

// English is the language every engine works in.
const English = "en"

// Translator translates text between language codes.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) string
}

// Service is a cached Translator over an inference backend.
type Service struct {
	backend inference.Translator
	cache   cache.Cache
	ttl     time.Duration
	logger  zerolog.Logger
}

// NewService creates a translation service. A nil cache disables caching.
func NewService(backend inference.Translator, c cache.Cache, ttl time.Duration, logger zerolog.Logger) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{
		backend: backend,
		cache:   c,
		ttl:     ttl,
		logger:  logger.With().Str("component", "translation").Logger(),
	}
}

// Translate returns text in the target language, or text itself when the
// languages match, the text is blank, or the backend cannot answer.
func (s *Service) Translate(ctx context.Context, text, source, target string) string {
	source, target = normalizeLang(source), normalizeLang(target)
	if source == target || strings.TrimSpace(text) == "" {
		return text
	}

	key := cacheKey(text, source, target)
	var cached string
	if ok, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.logger.Debug().Err(err).Msg("translation cache read failed")
	} else if ok {
		return cached
	}

	r := s.backend.Translate(ctx, text, source, target)
	switch r.Status {
	case inference.StatusOK:
		if err := s.cache.Set(ctx, key, r.Value, s.ttl); err != nil {
			s.logger.Debug().Err(err).Msg("translation cache write failed")
		}
		return r.Value
	case inference.StatusTransientError:
		s.logger.Warn().Err(r.Err).Str("source", source).Str("target", target).Msg("translation failed, passing text through")
	}
	return text
}

// ToEnglish translates text from lang to English.
func ToEnglish(ctx context.Context, t Translator, text, lang string) string {
	return t.Translate(ctx, text, lang, English)
}

// FromEnglish translates text from English to lang.
func FromEnglish(ctx context.Context, t Translator, text, lang string) string {
	return t.Translate(ctx, text, English, lang)
}

func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return English
	}
	return lang
}

func cacheKey(text, source, target string) string {
	sum := sha256.Sum256([]byte(text))
	return "translate:" + source + ":" + target + ":" + hex.EncodeToString(sum[:12])
}

// Passthrough returns every text unchanged.
type Passthrough struct{}

func (Passthrough) Translate(_ context.Context, text, _, _ string) string { return text }
