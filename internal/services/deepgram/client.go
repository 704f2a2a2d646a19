package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout    = 300 * time.Second
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = 4 * time.Second
	defaultRetryMaxDelay  = 60 * time.Second

	// Deepgram rejects prerecorded uploads above this size, so refuse them
	// locally with a readable message instead of surfacing an HTTP 413.
	defaultMaxUploadBytes = 25 * 1024 * 1024
)

// Config captures the runtime settings required to talk to Deepgram.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// Segment is one diarized utterance from the transcription response.
type Segment struct {
	Speaker int
	Text    string
	Start   float64
	End     float64
}

// Result is the shaped transcription output.
type Result struct {
	PlainText   string
	Formatted   string
	Segments    []Segment
	NumSpeakers int
	Language    string
	Duration    float64
}

// Client wraps the Deepgram listen endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	maxUploadBytes   int64
	sleeper          func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryMaxAttempts overrides the default retry count (defaults to 3).
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) {
		c.retryMaxAttempts = attempts
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retryBaseDelay = baseDelay
		c.retryMaxDelay = maxDelay
	}
}

// WithMaxUploadBytes overrides the upload size ceiling (defaults to 25MB).
func WithMaxUploadBytes(limit int64) Option {
	return func(c *Client) {
		if limit > 0 {
			c.maxUploadBytes = limit
		}
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// NewClient constructs a Deepgram client from the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			Model:          strings.TrimSpace(cfg.Model),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient:       &http.Client{Timeout: timeout},
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
		maxUploadBytes:   defaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = "https://api.deepgram.com/v1/listen"
	}
	if client.cfg.Model == "" {
		client.cfg.Model = "nova-2"
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// TranscribeFile uploads the audio file at path and returns the shaped
// transcription.
func (c *Client) TranscribeFile(ctx context.Context, path string) (Result, error) {
	var empty Result
	if strings.TrimSpace(path) == "" {
		return empty, errors.New("deepgram transcribe: file path required")
	}
	info, err := os.Stat(path)
	if err != nil {
		return empty, fmt.Errorf("deepgram transcribe: stat audio: %w", err)
	}
	if info.Size() > c.maxUploadBytes {
		return empty, fmt.Errorf("deepgram transcribe: file is %.1fMB, exceeds the %dMB upload limit",
			float64(info.Size())/1024/1024, c.maxUploadBytes/1024/1024)
	}
	audio, err := os.ReadFile(path)
	if err != nil {
		return empty, fmt.Errorf("deepgram transcribe: read audio: %w", err)
	}
	return c.Transcribe(ctx, audio)
}

// Transcribe submits raw audio bytes for transcription with diarization.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (Result, error) {
	var empty Result
	if c.cfg.APIKey == "" {
		return empty, errors.New("deepgram transcribe: api key required")
	}
	if len(audio) == 0 {
		return empty, errors.New("deepgram transcribe: empty audio")
	}
	if int64(len(audio)) > c.maxUploadBytes {
		return empty, fmt.Errorf("deepgram transcribe: payload is %.1fMB, exceeds the %dMB upload limit",
			float64(len(audio))/1024/1024, c.maxUploadBytes/1024/1024)
	}

	attempts := c.retryAttempts()
	var body []byte
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		body, err = c.sendOnce(ctx, audio)
		if err == nil {
			break
		}
		delay, retry := c.retryDelay(ctx, err, attempt, attempts)
		if !retry {
			return empty, err
		}
		if sleepErr := c.sleep(ctx, delay); sleepErr != nil {
			return empty, sleepErr
		}
	}
	if err != nil {
		return empty, err
	}

	var resp listenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return empty, fmt.Errorf("deepgram transcribe: decode response: %w", err)
	}
	return shapeResult(resp)
}

type httpStatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("deepgram request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

type listenResponse struct {
	Metadata struct {
		Duration float64 `json:"duration"`
	} `json:"metadata"`
	Results struct {
		Channels []struct {
			DetectedLanguage string `json:"detected_language"`
			Alternatives     []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
		Utterances []struct {
			Speaker    int     `json:"speaker"`
			Transcript string  `json:"transcript"`
			Start      float64 `json:"start"`
			End        float64 `json:"end"`
		} `json:"utterances"`
	} `json:"results"`
	ErrMsg string `json:"err_msg"`
}

func (c *Client) sendOnce(ctx context.Context, audio []byte) ([]byte, error) {
	endpoint, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("deepgram request: parse base url: %w", err)
	}
	query := endpoint.Query()
	query.Set("model", c.cfg.Model)
	query.Set("smart_format", "true")
	query.Set("diarize", "true")
	query.Set("punctuate", "true")
	query.Set("utterances", "true")
	query.Set("detect_language", "true")
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(audio))
	if err != nil {
		return nil, fmt.Errorf("deepgram request: new request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deepgram request: http error: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("deepgram request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		retryAfter, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, &httpStatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
			RetryAfter: retryAfter,
		}
	}
	return body, nil
}

func shapeResult(resp listenResponse) (Result, error) {
	var result Result
	if resp.ErrMsg != "" {
		return result, fmt.Errorf("deepgram transcribe: api error: %s", resp.ErrMsg)
	}

	channels := resp.Results.Channels
	if len(channels) > 0 {
		result.Language = channels[0].DetectedLanguage
		if len(channels[0].Alternatives) > 0 {
			result.PlainText = strings.TrimSpace(channels[0].Alternatives[0].Transcript)
		}
	}
	if result.PlainText == "" {
		return result, errors.New("deepgram transcribe: empty transcript, check audio quality")
	}
	result.Duration = resp.Metadata.Duration

	utterances := resp.Results.Utterances
	if len(utterances) == 0 {
		result.Formatted = result.PlainText
		result.NumSpeakers = 1
		return result, nil
	}

	speakerSet := make(map[int]struct{})
	var lines []string
	currentSpeaker := -1
	for _, u := range utterances {
		speakerSet[u.Speaker] = struct{}{}
		result.Segments = append(result.Segments, Segment{
			Speaker: u.Speaker,
			Text:    u.Transcript,
			Start:   u.Start,
			End:     u.End,
		})
		if u.Speaker != currentSpeaker {
			lines = append(lines, fmt.Sprintf("\n**Speaker %d:**", u.Speaker))
			currentSpeaker = u.Speaker
		}
		lines = append(lines, u.Transcript)
	}
	result.Formatted = strings.TrimSpace(strings.Join(lines, "\n"))

	speakers := make([]int, 0, len(speakerSet))
	for id := range speakerSet {
		speakers = append(speakers, id)
	}
	sort.Ints(speakers)
	result.NumSpeakers = len(speakers)
	return result, nil
}

func (c *Client) retryAttempts() int {
	if c == nil || c.retryMaxAttempts <= 0 {
		return 1
	}
	return c.retryMaxAttempts
}

func (c *Client) retryDelay(ctx context.Context, err error, attempt, maxAttempts int) (time.Duration, bool) {
	if attempt >= maxAttempts || err == nil || ctx == nil || ctx.Err() != nil {
		return 0, false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}

	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusRequestTimeout,
			statusErr.StatusCode == http.StatusTooManyRequests,
			statusErr.StatusCode >= http.StatusInternalServerError:
			if statusErr.RetryAfter > 0 {
				return c.capDelay(statusErr.RetryAfter), true
			}
			return c.backoffDelay(attempt), true
		default:
			return 0, false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return c.backoffDelay(attempt), true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return c.backoffDelay(attempt), true
	}

	return 0, false
}

func (c *Client) backoffDelay(attempt int) time.Duration {
	base := c.retryBaseDelay
	if base < 0 {
		base = defaultRetryBaseDelay
	}
	if base == 0 {
		return 0
	}
	delay := base
	maxDelay := c.maxDelay()
	for i := 1; i < attempt; i++ {
		if delay > maxDelay/2 {
			delay = maxDelay
			break
		}
		delay *= 2
	}
	return c.capDelay(delay)
}

func (c *Client) maxDelay() time.Duration {
	if c != nil && c.retryMaxDelay > 0 {
		return c.retryMaxDelay
	}
	return defaultRetryMaxDelay
}

func (c *Client) capDelay(delay time.Duration) time.Duration {
	if delay < 0 {
		return 0
	}
	if maxDelay := c.maxDelay(); delay > maxDelay {
		return maxDelay
	}
	return delay
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		delay := time.Until(when)
		if delay < 0 {
			return 0, false
		}
		return delay, true
	}
	return 0, false
}
