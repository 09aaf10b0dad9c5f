package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"pawshome/internal/config"
)

// ErrUnavailable marks upstream failures the proxy degrades on (quota and
// availability classes) instead of failing the whole request.
var ErrUnavailable = errors.New("translation provider unavailable")

type Client struct {
	http *http.Client
	cfg  config.TranslationConfig
}

func NewClient(cfg config.TranslationConfig) *Client {
	return &Client{
		http: &http.Client{Timeout: cfg.RequestTimeout},
		cfg:  cfg,
	}
}

type providerRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"target_lang"`
	SourceLang string `json:"source_lang,omitempty"`
}

type providerResponse struct {
	TranslatedText string `json:"translated_text"`
}

func (c *Client) Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	body, err := json.Marshal(providerRequest{
		Text:       text,
		TargetLang: targetLang,
		SourceLang: sourceLang,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ProviderURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.ProviderKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	default:
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("translation provider status %d: %s", resp.StatusCode, payload)
	}

	var out providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode provider response: %w", err)
	}
	return out.TranslatedText, nil
}
