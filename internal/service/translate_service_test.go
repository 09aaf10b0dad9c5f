package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawshome/internal/config"
	"pawshome/internal/repository"
	"pawshome/internal/translate"
)

// reversingTranslator reverses each segment, preserving the separator.
// Translating twice gives back the input, which makes batch alignment easy
// to assert on.
type reversingTranslator struct {
	calls []string
	err   error
}

func (r *reversingTranslator) Translate(_ context.Context, text, _, _ string) (string, error) {
	r.calls = append(r.calls, text)
	if r.err != nil {
		return "", r.err
	}
	parts := strings.Split(text, BulkSeparator)
	for i, part := range parts {
		parts[i] = reverse(part)
	}
	return strings.Join(parts, BulkSeparator), nil
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

type fakeSettings struct {
	values map[string]string
}

func (f *fakeSettings) Get(_ context.Context, key string) (string, error) {
	if val, ok := f.values[key]; ok {
		return val, nil
	}
	return "", repository.ErrSettingNotFound
}

type memoryCache struct {
	strings  map[string]string
	counters map[string]int64
}

func newMemoryCache() *memoryCache {
	return &memoryCache{strings: make(map[string]string), counters: make(map[string]int64)}
}

func (m *memoryCache) GetString(_ context.Context, key string) (string, bool, error) {
	val, ok := m.strings[key]
	return val, ok, nil
}

func (m *memoryCache) SetString(_ context.Context, key, value string, _ time.Duration) error {
	m.strings[key] = value
	return nil
}

func (m *memoryCache) Increment(_ context.Context, key string, delta int64, _ time.Duration) (int64, error) {
	m.counters[key] += delta
	return m.counters[key], nil
}

func (m *memoryCache) GetInt(_ context.Context, key string) (int64, error) {
	return m.counters[key], nil
}

func newTranslateFixture(upstream UpstreamTranslator, settings *fakeSettings) (*TranslateService, *memoryCache) {
	if settings == nil {
		settings = &fakeSettings{}
	}
	cache := newMemoryCache()
	cfg := &config.AppConfig{}
	cfg.Translation.ProviderLimit = 1000
	cfg.Translation.CacheTTL = time.Hour
	svc := NewTranslateService(upstream, settings, cache, cfg, zerolog.Nop())
	return svc, cache
}

func TestTranslateBatchAlignment(t *testing.T) {
	upstream := &reversingTranslator{}
	svc, _ := newTranslateFixture(upstream, nil)

	texts := []string{"hello", "cats are great", "adopt me"}
	results, err := svc.Translate(context.Background(), texts, "fr", "en")
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, "olleh", results[0])
	assert.Equal(t, "taerg era stac", results[1])
	assert.Equal(t, "em tpoda", results[2])

	// One upstream call for the whole batch.
	require.Len(t, upstream.calls, 1)
	assert.Equal(t, strings.Join(texts, BulkSeparator), upstream.calls[0])
}

func TestTranslateCacheHitSkipsUpstream(t *testing.T) {
	upstream := &reversingTranslator{}
	svc, _ := newTranslateFixture(upstream, nil)

	_, err := svc.Translate(context.Background(), []string{"hello"}, "fr", "en")
	require.NoError(t, err)

	results, err := svc.Translate(context.Background(), []string{"hello"}, "fr", "en")
	require.NoError(t, err)
	assert.Equal(t, "olleh", results[0])
	assert.Len(t, upstream.calls, 1)
}

func TestTranslatePartialCacheHit(t *testing.T) {
	upstream := &reversingTranslator{}
	svc, _ := newTranslateFixture(upstream, nil)

	_, err := svc.Translate(context.Background(), []string{"hello"}, "fr", "en")
	require.NoError(t, err)

	results, err := svc.Translate(context.Background(), []string{"hello", "goodbye"}, "fr", "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"olleh", "eybdoog"}, results)

	// Second call carries only the miss.
	require.Len(t, upstream.calls, 2)
	assert.Equal(t, "goodbye", upstream.calls[1])
}

func TestTranslateEmptyStringsPassThrough(t *testing.T) {
	upstream := &reversingTranslator{}
	svc, _ := newTranslateFixture(upstream, nil)

	results, err := svc.Translate(context.Background(), []string{"", "abc", ""}, "fr", "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"", "cba", ""}, results)
}

func TestTranslateDegradesToSourceText(t *testing.T) {
	upstream := &reversingTranslator{err: translate.ErrUnavailable}
	svc, _ := newTranslateFixture(upstream, nil)

	results, err := svc.Translate(context.Background(), []string{"hello", "world"}, "fr", "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "world"}, results)
}

func TestTranslateUpstreamHardFailure(t *testing.T) {
	upstream := &reversingTranslator{err: assert.AnError}
	svc, _ := newTranslateFixture(upstream, nil)

	_, err := svc.Translate(context.Background(), []string{"hello"}, "fr", "en")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestTranslateRejectsOversizedBatch(t *testing.T) {
	svc, _ := newTranslateFixture(&reversingTranslator{}, nil)

	_, err := svc.Translate(context.Background(), []string{strings.Repeat("a", maxBulkChars+1)}, "fr", "en")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTranslateUnsupportedLanguage(t *testing.T) {
	svc, _ := newTranslateFixture(&reversingTranslator{}, nil)

	_, err := svc.Translate(context.Background(), []string{"hello"}, "xx", "en")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTranslateSupportedLanguageOverride(t *testing.T) {
	settings := &fakeSettings{values: map[string]string{"translation.supportedLangs": "en, ja"}}
	svc, _ := newTranslateFixture(&reversingTranslator{}, settings)

	_, err := svc.Translate(context.Background(), []string{"hello"}, "ja", "en")
	assert.NoError(t, err)

	_, err = svc.Translate(context.Background(), []string{"hello"}, "fr", "en")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTranslateDisabledBySetting(t *testing.T) {
	settings := &fakeSettings{values: map[string]string{"translation.enabled": "false"}}
	svc, _ := newTranslateFixture(&reversingTranslator{}, settings)

	_, err := svc.Translate(context.Background(), []string{"hello"}, "fr", "en")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTranslateUsageAccounting(t *testing.T) {
	svc, cache := newTranslateFixture(&reversingTranslator{}, nil)

	texts := []string{"hello", "world"}
	_, err := svc.Translate(context.Background(), texts, "fr", "en")
	require.NoError(t, err)

	report, err := svc.Usage(context.Background())
	require.NoError(t, err)

	wantChars := int64(len(strings.Join(texts, BulkSeparator)))
	assert.Equal(t, wantChars, report.CharactersUsed)
	assert.Equal(t, int64(1000), report.Limit)
	assert.False(t, report.LimitReached)
	assert.NotEmpty(t, cache.counters)
}

func TestTranslateUsageLimitOverride(t *testing.T) {
	settings := &fakeSettings{values: map[string]string{"translation.charLimit": "10"}}
	svc, _ := newTranslateFixture(&reversingTranslator{}, settings)

	_, err := svc.Translate(context.Background(), []string{"twelve chars"}, "fr", "en")
	require.NoError(t, err)

	report, err := svc.Usage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10), report.Limit)
	assert.True(t, report.LimitReached)
	assert.Greater(t, report.PercentUsed, 100.0)
}

func TestTranslateValidation(t *testing.T) {
	svc, _ := newTranslateFixture(&reversingTranslator{}, nil)

	_, err := svc.Translate(context.Background(), nil, "fr", "en")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Translate(context.Background(), []string{"hi"}, "", "en")
	assert.ErrorIs(t, err, ErrValidation)
}
