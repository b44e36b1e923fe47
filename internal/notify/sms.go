package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"
)

// maxSMSLength is the single-segment GSM limit; longer messages are cut.
const maxSMSLength = 160

var backoffSchedule = []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}

// SMSClient sends text messages through the Termii API. Transient provider
// failures (5xx, network) are retried with exponential backoff; 4xx
// responses mean a configuration problem and are returned immediately.
type SMSClient struct {
	httpClient *http.Client
	apiKey     string
	sender     string
	baseURL    string
	sleep      func(time.Duration)
}

// NewSMSClient constructs a Termii SMS client.
func NewSMSClient(httpClient *http.Client, apiKey, sender string) *SMSClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &SMSClient{
		httpClient: httpClient,
		apiKey:     apiKey,
		sender:     sender,
		baseURL:    "https://api.ng.termii.com",
		sleep:      time.Sleep,
	}
}

// SetBaseURL overrides the API host, used by tests.
func (c *SMSClient) SetBaseURL(u string) { c.baseURL = u }

// Send delivers one SMS, truncating the message to a single segment.
func (c *SMSClient) Send(ctx context.Context, phone, message string) error {
	message = Truncate(message, maxSMSLength)

	var lastErr error
	for attempt := 0; ; attempt++ {
		retryable, err := c.send(ctx, phone, message)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable || attempt >= len(backoffSchedule) {
			return lastErr
		}
		c.sleep(backoffSchedule[attempt])
	}
}

// send performs a single delivery attempt and reports whether a failure is
// worth retrying.
func (c *SMSClient) send(ctx context.Context, phone, message string) (bool, error) {
	payload := map[string]string{
		"api_key": c.apiKey,
		"to":      phone,
		"from":    c.sender,
		"sms":     message,
		"type":    "plain",
		"channel": "generic",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/sms/send", bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// network failure, transient
		return true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode < 300:
		return false, nil
	case resp.StatusCode >= 500:
		return true, fmt.Errorf("termii: server error %s", resp.Status)
	default:
		// bad sender id, bad api key, insufficient balance: not transient
		return false, fmt.Errorf("termii: rejected with status %s", resp.Status)
	}
}

// Truncate cuts s to at most limit characters, never splitting a rune.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
