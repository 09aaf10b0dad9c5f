package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pawshome/internal/config"
	"pawshome/internal/repository"
	"pawshome/internal/translate"
)

// BulkSeparator joins a batch into one upstream call. Chosen to survive
// providers that preserve line structure and to never occur in site copy.
const BulkSeparator = "\n[[--]]\n"

// Combined bulk payloads above this are rejected before calling upstream.
const maxBulkChars = 30000

var defaultLanguages = []string{"en", "fr", "de", "es", "it", "ro"}

type UpstreamTranslator interface {
	Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error)
}

type SettingsReader interface {
	Get(ctx context.Context, key string) (string, error)
}

// KeyValueCache is the slice of cache.Store the translation path uses.
type KeyValueCache interface {
	GetString(ctx context.Context, key string) (string, bool, error)
	SetString(ctx context.Context, key, value string, ttl time.Duration) error
	Increment(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error)
	GetInt(ctx context.Context, key string) (int64, error)
}

type TranslateService struct {
	upstream UpstreamTranslator
	settings SettingsReader
	cache    KeyValueCache
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewTranslateService(
	upstream UpstreamTranslator,
	settings SettingsReader,
	cache KeyValueCache,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *TranslateService {
	return &TranslateService{
		upstream: upstream,
		settings: settings,
		cache:    cache,
		cfg:      cfg,
		log:      log,
	}
}

func (s *TranslateService) Translate(ctx context.Context, texts []string, targetLang, sourceLang string) ([]string, error) {
	if len(texts) == 0 || targetLang == "" {
		return nil, ErrValidation
	}

	if !s.enabled(ctx) {
		return nil, ErrForbidden
	}
	if !s.supported(ctx, targetLang) {
		return nil, ErrValidation
	}

	total := 0
	for _, text := range texts {
		total += len(text)
	}
	if total+len(BulkSeparator)*(len(texts)-1) > maxBulkChars {
		return nil, ErrValidation
	}

	results := make([]string, len(texts))
	var missIdx []int
	for i, text := range texts {
		if text == "" {
			results[i] = ""
			continue
		}
		if cached, ok := s.cacheGet(ctx, text, targetLang, sourceLang); ok {
			results[i] = cached
			continue
		}
		missIdx = append(missIdx, i)
	}
	if len(missIdx) == 0 {
		return results, nil
	}

	missTexts := make([]string, len(missIdx))
	for n, i := range missIdx {
		missTexts[n] = texts[i]
	}

	combined := strings.Join(missTexts, BulkSeparator)
	translated, err := s.upstream.Translate(ctx, combined, targetLang, sourceLang)
	if err != nil {
		if errors.Is(err, translate.ErrUnavailable) {
			// Availability-preserving degradation: hand back the source text.
			s.log.Warn().Err(err).Msg("translation provider degraded, returning source text")
			for _, i := range missIdx {
				results[i] = texts[i]
			}
			return results, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	parts := strings.Split(translated, BulkSeparator)
	for n, i := range missIdx {
		// A miscounted split pads with the untranslated source and drops
		// extras rather than failing the batch.
		if n < len(parts) {
			results[i] = parts[n]
		} else {
			results[i] = texts[i]
		}
		s.cacheSet(ctx, texts[i], targetLang, sourceLang, results[i])
	}

	s.addUsage(ctx, int64(len(combined)))
	return results, nil
}

type UsageReport struct {
	CharactersUsed int64   `json:"charactersUsed"`
	Limit          int64   `json:"limit"`
	PercentUsed    float64 `json:"percentUsed"`
	LimitReached   bool    `json:"limitReached"`
}

func (s *TranslateService) Usage(ctx context.Context) (UsageReport, error) {
	used, err := s.cache.GetInt(ctx, usageKey(time.Now().UTC()))
	if err != nil {
		return UsageReport{}, err
	}

	limit := s.cfg.Translation.ProviderLimit
	if raw, err := s.settings.Get(ctx, "translation.charLimit"); err == nil {
		if override, err := strconv.ParseInt(raw, 10, 64); err == nil && override > 0 {
			limit = override
		}
	}

	report := UsageReport{
		CharactersUsed: used,
		Limit:          limit,
	}
	if limit > 0 {
		report.PercentUsed = float64(used) / float64(limit) * 100
		report.LimitReached = report.PercentUsed >= 100
	}
	return report, nil
}

func (s *TranslateService) enabled(ctx context.Context) bool {
	raw, err := s.settings.Get(ctx, "translation.enabled")
	if err != nil {
		if !errors.Is(err, repository.ErrSettingNotFound) {
			s.log.Debug().Err(err).Msg("translation.enabled lookup failed")
		}
		return true
	}
	return raw != "false"
}

func (s *TranslateService) supported(ctx context.Context, lang string) bool {
	langs := defaultLanguages
	if raw, err := s.settings.Get(ctx, "translation.supportedLangs"); err == nil && raw != "" {
		langs = strings.Split(raw, ",")
	}
	for _, candidate := range langs {
		if strings.EqualFold(strings.TrimSpace(candidate), lang) {
			return true
		}
	}
	return false
}

func (s *TranslateService) cacheGet(ctx context.Context, text, target, source string) (string, bool) {
	cached, ok, err := s.cache.GetString(ctx, cacheKey(text, target, source))
	if err != nil || !ok {
		return "", false
	}
	return cached, true
}

func (s *TranslateService) cacheSet(ctx context.Context, text, target, source, translated string) {
	if err := s.cache.SetString(ctx, cacheKey(text, target, source), translated, s.cfg.Translation.CacheTTL); err != nil {
		s.log.Debug().Err(err).Msg("translation cache write failed")
	}
}

func (s *TranslateService) addUsage(ctx context.Context, chars int64) {
	if _, err := s.cache.Increment(ctx, usageKey(time.Now().UTC()), chars, 48*time.Hour); err != nil {
		s.log.Warn().Err(err).Msg("translation usage accounting failed")
	}
}

func cacheKey(text, target, source string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("tr:%s:%s:%s", target, source, hex.EncodeToString(sum[:16]))
}

func usageKey(day time.Time) string {
	return "tr:usage:" + day.Format("2006-01-02")
}
