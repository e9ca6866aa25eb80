package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const sendPath = "/v3/mail/send"

// Client delivers verification-code emails through a SendGrid-compatible
// mail API.
type Client struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
}

// NewClient instantiates the mail client with sane defaults.
func NewClient(baseURL, apiKey, from string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("mail base URL is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("mail API key is required")
	}
	if strings.TrimSpace(from) == "" {
		return nil, errors.New("mail sender address is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		from:       from,
		httpClient: httpClient,
	}, nil
}

type sendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

type personalization struct {
	To []address `json:"to"`
}

type address struct {
	Email string `json:"email"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// SendVerificationCode mails the code to the recipient.
func (c *Client) SendVerificationCode(ctx context.Context, email, code string) error {
	if c == nil || c.httpClient == nil {
		return errors.New("mail client not configured")
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("mail recipient is required")
	}
	payload := sendRequest{
		Personalizations: []personalization{{To: []address{{Email: email}}}},
		From:             address{Email: c.from},
		Subject:          "Your verification code",
		Content: []content{
			{
				Type:  "text/plain",
				Value: fmt.Sprintf("Your verification code is %s. It confirms your email address.", code),
			},
			{
				Type:  "text/html",
				Value: fmt.Sprintf("<p>Your verification code is <strong>%s</strong>. It confirms your email address.</p>", code),
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode mail payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+sendPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call mail API: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail API error: %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}
	return nil
}

// LogSender writes codes to the log instead of sending mail. It backs local
// development when no mail API key is configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) SendVerificationCode(ctx context.Context, email, code string) error {
	s.logger.InfoContext(ctx, "verification code issued", "email", email, "code", code)
	return nil
}
