package telegram

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/dumwala/tournament-bot/internal/platform/logging"
	"github.com/dumwala/tournament-bot/internal/platform/resilience"
	"github.com/dumwala/tournament-bot/internal/usecase"
)

const (
	defaultBaseURL = "https://api.telegram.org"
	defaultTimeout = 15 * time.Second

	maxResponseBytes = 1 << 20
)

var errTransient = crerr.New("telegram transient failure")

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Token      string
	Timeout    time.Duration
	MaxRetries int
	ParseMode  string
	Logger     *logging.Logger
	Breaker    resilience.BreakerConfig
}

// Client sends messages through the Telegram Bot API. It implements
// usecase.Notifier; a breaker trip surfaces as ErrGatewayUnavailable so
// callers can tell delivery backpressure from a bad request.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	parseMode      string
	logger         *logging.Logger
	breaker        *resilience.Breaker
	breakerEnabled bool
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     max(cfg.MaxRetries, 0),
		parseMode:      cfg.ParseMode,
		logger:         logger,
		breaker:        resilience.NewBreaker(cfg.Breaker),
		breakerEnabled: cfg.Breaker.Enabled,
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	ErrorCode   int    `json:"error_code"`
	Parameters  struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters"`
}

// Send delivers one text message to one chat.
func (c *Client) Send(ctx context.Context, recipientID, text string) error {
	if recipientID == "" {
		return fmt.Errorf("recipient id is required")
	}
	if text == "" {
		return fmt.Errorf("message text is required")
	}

	if c.breakerEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "telegram circuit breaker rejected send", "state", c.breaker.State())
			return fmt.Errorf("%w: message platform is temporarily unavailable", usecase.ErrGatewayUnavailable)
		}
	}

	err := c.sendMessage(ctx, recipientID, text)
	if c.breakerEnabled {
		if err != nil && crerr.Is(err, errTransient) {
			c.breaker.Failure()
		} else {
			c.breaker.Success()
		}
	}
	return err
}

func (c *Client) sendMessage(ctx context.Context, chatID, text string) error {
	payload, err := sonic.Marshal(sendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: c.parseMode,
	})
	if err != nil {
		return fmt.Errorf("encode send message payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("build send message request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errTransient, c.redact(err.Error()))
			continue
		}

		raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("%w: read response body: %v", errTransient, readErr)
			continue
		}

		var api apiResponse
		if decodeErr := sonic.Unmarshal(raw, &api); decodeErr == nil && api.OK {
			return nil
		} else if decodeErr == nil && !api.OK {
			if api.ErrorCode == http.StatusTooManyRequests {
				lastErr = fmt.Errorf("%w: rate limited, retry after %ds", errTransient, api.Parameters.RetryAfter)
				continue
			}
			if retryableStatus(api.ErrorCode) {
				lastErr = fmt.Errorf("%w: api error_code=%d description=%s", errTransient, api.ErrorCode, api.Description)
				continue
			}
			// Blocked bot, unknown chat, malformed markup: retrying
			// cannot help.
			return fmt.Errorf("telegram api error_code=%d description=%s", api.ErrorCode, api.Description)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		if retryableStatus(resp.StatusCode) {
			lastErr = fmt.Errorf("%w: status=%d", errTransient, resp.StatusCode)
			continue
		}
		return fmt.Errorf("telegram status=%d", resp.StatusCode)
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%w: send message failed", errTransient)
	}
	c.logger.WarnContext(ctx, "telegram send failed", "chat_id", chatID, "error", c.redact(lastErr.Error()))
	return lastErr
}

// redact strips the bot token from text destined for logs or wrapped
// errors.
func (c *Client) redact(text string) string {
	if c.token == "" {
		return text
	}
	return strings.ReplaceAll(text, c.token, "[redacted]")
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}
