package inference

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

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/healthintel/healthintel/pkg/retry"
)

// TriageClassifier predicts a disease label from symptom names.
type TriageClassifier interface {
	PredictDisease(ctx context.Context, symptoms []string) Result[string]
}

// EmotionClassifier labels the emotion expressed in free text.
type EmotionClassifier interface {
	Classify(ctx context.Context, text string) Result[Emotion]
}

// QARetriever finds the closest known medical question and its answer.
type QARetriever interface {
	Answer(ctx context.Context, question string) Result[Answer]
}

// Translator translates between two language codes.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) Result[string]
}

// errUnavailable is returned by post when the sidecar reports that the
// requested model is not loaded.
var errUnavailable = errors.New("model unavailable")

// Client calls the sidecar over HTTP/JSON. A Client with an empty base URL
// reports every model as unavailable.
type Client struct {
	baseURL string
	http    *http.Client
	retry   retry.Config
	logger  zerolog.Logger
}

// NewClient creates a Client. timeout bounds each attempt.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		retry:   retry.DefaultConfig(),
		logger:  logger.With().Str("component", "inference").Logger(),
	}
}

// WithRetry replaces the retry policy.
func (c *Client) WithRetry(cfg retry.Config) *Client {
	c.retry = cfg
	return c
}

// Enabled reports whether a sidecar is configured.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

func (c *Client) PredictDisease(ctx context.Context, symptoms []string) Result[string] {
	var out struct {
		Disease string `json:"disease"`
	}
	if r := c.call(ctx, "/v1/triage", map[string]any{"symptoms": symptoms}, &out); r.Status != StatusOK {
		return Result[string]{Status: r.Status, Err: r.Err}
	}
	return OK(out.Disease)
}

func (c *Client) Classify(ctx context.Context, text string) Result[Emotion] {
	var out Emotion
	if r := c.call(ctx, "/v1/emotion", map[string]any{"text": text}, &out); r.Status != StatusOK {
		return Result[Emotion]{Status: r.Status, Err: r.Err}
	}
	return OK(out)
}

func (c *Client) Answer(ctx context.Context, question string) Result[Answer] {
	var out Answer
	if r := c.call(ctx, "/v1/qa", map[string]any{"question": question}, &out); r.Status != StatusOK {
		return Result[Answer]{Status: r.Status, Err: r.Err}
	}
	return OK(out)
}

func (c *Client) Translate(ctx context.Context, text, source, target string) Result[string] {
	var out struct {
		Text string `json:"text"`
	}
	body := map[string]any{"text": text, "source": source, "target": target}
	if r := c.call(ctx, "/v1/translate", body, &out); r.Status != StatusOK {
		return Result[string]{Status: r.Status, Err: r.Err}
	}
	return OK(out.Text)
}

func (c *Client) call(ctx context.Context, path string, in, out any) Result[struct{}] {
	if !c.Enabled() {
		return Unavailable[struct{}]()
	}

	ctx, span := otel.Tracer("healthintel/inference").Start(ctx, "inference "+path)
	defer span.End()

	err := retry.Do(ctx, c.retry, func(ctx context.Context) error {
		return c.post(ctx, path, in, out)
	}, func(attempt int, err error, next time.Duration) {
		c.logger.Debug().Err(err).Str("path", path).Int("attempt", attempt).Dur("backoff", next).Msg("retrying inference call")
	})

	switch {
	case err == nil:
		span.SetAttributes(attribute.String("inference.status", StatusOK.String()))
		return OK(struct{}{})
	case errors.Is(err, errUnavailable):
		span.SetAttributes(attribute.String("inference.status", StatusUnavailable.String()))
		return Unavailable[struct{}]()
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "inference call failed")
		c.logger.Warn().Err(err).Str("path", path).Msg("inference call failed")
		return Transient[struct{}](err)
	}
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return retry.Permanent(fmt.Errorf("encode request: %w", err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return retry.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusNotFound:
		return retry.Permanent(errUnavailable)
	case resp.StatusCode >= 500:
		return fmt.Errorf("POST %s: status %d", path, resp.StatusCode)
	case resp.StatusCode >= 400:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return retry.Permanent(fmt.Errorf("POST %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(msg))))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return retry.Permanent(fmt.Errorf("decode %s response: %w", path, err))
	}
	return nil
}
