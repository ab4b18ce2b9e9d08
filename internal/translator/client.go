// Package translator proxies translation and text-to-speech calls to the
// Azure Translator API.
package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/maay-app/maay-api/pkg/cache"
)

const (
	defaultBaseURL = "https://api.cognitive.microsofttranslator.com"
	apiVersion     = "3.0"

	// SpeechLanguage is the Yucatec Maya locale used for audio synthesis.
	SpeechLanguage = "yua-MX"

	requestTimeout = 15 * time.Second
	translationTTL = 24 * time.Hour
)

type (
	Client struct {
		httpClient *http.Client
		baseURL    string
		key        string
		region     string
		cache      *cache.InMemory
		log        *slog.Logger
	}

	Option func(*Client)

	textPayload struct {
		Text string `json:"Text"`
	}

	translationResponse []struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
)

// WithBaseURL overrides the Azure endpoint, used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

func NewClient(key, region string, log *slog.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    defaultBaseURL,
		key:        key,
		region:     region,
		cache:      cache.NewInMemory(),
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Translate translates text between the given languages. Results are cached
// in-process since the curriculum produces a small, highly repetitive set of
// phrases.
func (c *Client) Translate(ctx context.Context, text, from, to string) (string, error) {
	cacheKey := from + "|" + to + "|" + text
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached, nil
	}

	query := url.Values{
		"api-version": {apiVersion},
		"from":        {from},
		"to":          {to},
	}
	resp, err := c.post(ctx, "/translate", query, text)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var parsed translationResponse
	if err = json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode translation response: %w", err)
	}
	if len(parsed) == 0 || len(parsed[0].Translations) == 0 {
		return "", nil
	}

	translated := parsed[0].Translations[0].Text
	c.cache.Set(cacheKey, translated, translationTTL)
	return translated, nil
}

// Speak synthesizes the text as Yucatec Maya speech. The caller receives the
// audio stream and its content type and must close the stream.
func (c *Client) Speak(ctx context.Context, text string) (io.ReadCloser, string, error) {
	query := url.Values{
		"api-version": {apiVersion},
		"language":    {SpeechLanguage},
		"format":      {"audio/mp3"},
		"options":     {"Male"},
	}
	resp, err := c.post(ctx, "/speak", query, text)
	if err != nil {
		return nil, "", err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mp3"
	}
	return resp.Body, contentType, nil
}

func (c *Client) post(ctx context.Context, path string, query url.Values, text string) (*http.Response, error) {
	body, err := json.Marshal([]textPayload{{Text: text}})
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path+"?"+query.Encode(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)
	req.Header.Set("Ocp-Apim-Subscription-Region", c.region)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call translator api: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.log.ErrorContext(ctx, "translator api error",
			"status", resp.StatusCode,
			"response", string(payload),
		)
		return nil, fmt.Errorf("translator api responded with status %d", resp.StatusCode)
	}

	return resp, nil
}
