// Package gemini calls the Generative Language API generateContent method.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	// ErrUnauthorized is returned for HTTP 401 and 403.
	ErrUnauthorized = errors.New("gemini: api key invalid or unauthorized")
	// ErrNoCandidate is returned when a successful reply carries no text.
	ErrNoCandidate = errors.New("gemini: no candidate text in response")
)

// APIError is any other non-2xx reply, including a 429 that outlived the
// retry budget.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini: api error (%d): %s", e.Status, e.Message)
}

const unknownError = "Unknown error."

// Config holds the client settings read from the gemini.* options.
type Config struct {
	Endpoint        string
	Model           string
	MaxRetries      int
	BaseDelay       time.Duration
	Timeout         time.Duration
	ValidateTimeout time.Duration
	RPS             float64
}

func ConfigFromViper(v *viper.Viper) Config {
	return Config{
		Endpoint:        v.GetString("gemini.endpoint"),
		Model:           v.GetString("gemini.model"),
		MaxRetries:      v.GetInt("gemini.max_retries"),
		BaseDelay:       v.GetDuration("gemini.base_delay"),
		Timeout:         v.GetDuration("gemini.timeout"),
		ValidateTimeout: v.GetDuration("gemini.validate_timeout"),
		RPS:             v.GetFloat64("gemini.rps"),
	}
}

// Client is safe for concurrent use.
type Client struct {
	cfg     Config
	http    *retryablehttp.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

// New builds a client whose transport retries only on HTTP 429, waiting
// BaseDelay doubled per attempt, for at most MaxRetries attempts in total.
func New(cfg Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.ValidateTimeout <= 0 {
		cfg.ValidateTimeout = 5 * time.Second
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.MaxRetries - 1
	rc.RetryWaitMin = cfg.BaseDelay
	rc.RetryWaitMax = cfg.BaseDelay << uint(cfg.MaxRetries)
	rc.CheckRetry = retryOnRateLimit
	rc.Backoff = doubling
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = leveled{log.Sugar()}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RPS > 0 {
		burst := int(cfg.RPS)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}
	return &Client{cfg: cfg, http: rc, limiter: limiter, log: log}
}

// Model is the model name requests are sent to.
func (c *Client) Model() string { return c.cfg.Model }

func retryOnRateLimit(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return false, err
	}
	return resp.StatusCode == http.StatusTooManyRequests, nil
}

func doubling(min, max time.Duration, attempt int, _ *http.Response) time.Duration {
	d := min << uint(attempt)
	if d <= 0 || d > max {
		return max
	}
	return d
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents          []content `json:"contents"`
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends prompt with the given system instruction and returns the
// first candidate's first text part.
func (c *Client) Generate(ctx context.Context, apiKey, system, prompt string) (string, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	body := generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}}
	if system != "" {
		body.SystemInstruction = &content{Parts: []part{{Text: system}}}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.url(), payload)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	setHeaders(req.Header, apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return "", fmt.Errorf("generate content: %w", err)
	}
	defer resp.Body.Close()
	c.log.Debug("gemini reply", zap.Int("status", resp.StatusCode), zap.Duration("took", time.Since(start)))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var out generateResponse
		if err := json.Unmarshal(raw, &out); err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}
		if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 || out.Candidates[0].Content.Parts[0].Text == "" {
			return "", ErrNoCandidate
		}
		return out.Candidates[0].Content.Parts[0].Text, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", ErrUnauthorized
	default:
		return "", &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}
}

// Validate checks apiKey with a single ping request. A 400 complaining about
// the prompt still proves the key works.
func (c *Client) Validate(ctx context.Context, apiKey string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ValidateTimeout)
	defer cancel()

	payload, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{{Text: "ping"}}}}})
	if err != nil {
		return false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(), bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	setHeaders(req.Header, apiKey)

	resp, err := c.http.HTTPClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("validate key: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return true, nil
	}
	if resp.StatusCode == http.StatusBadRequest {
		raw, _ := io.ReadAll(resp.Body)
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil && strings.Contains(eb.Error.Message, "prompt") {
			return true, nil
		}
	}
	return false, nil
}

func (c *Client) url() string {
	return c.cfg.Endpoint + "/models/" + c.cfg.Model + ":generateContent"
}

func setHeaders(h http.Header, apiKey string) {
	h.Set("Content-Type", "application/json")
	h.Set("x-goog-api-key", apiKey)
}

func errorMessage(raw []byte) string {
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err != nil || eb.Error.Message == "" {
		return unknownError
	}
	return eb.Error.Message
}

// leveled adapts zap to retryablehttp.LeveledLogger.
type leveled struct {
	s *zap.SugaredLogger
}

func (l leveled) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l leveled) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l leveled) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l leveled) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
