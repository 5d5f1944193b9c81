package fmpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout is the hard deadline applied to every outbound call.
const DefaultTimeout = 60 * time.Second

// ErrTimeout is returned when a call exceeds the client deadline, regardless
// of how the underlying transport reported it.
var ErrTimeout = errors.New("request timed out")

// APIError carries a non-success HTTP status together with the most readable
// message we could pull out of the response body.
type APIError struct {
	Status  string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error: %s", e.Status)
	}
	return fmt.Sprintf("API error: %s: %s", e.Status, e.Message)
}

// Client is a thin wrapper around the financial data provider's REST API.
// Callers hand it fully formed URLs; all it adds is the deadline and a
// uniform error shape.
type Client struct {
	http *resty.Client
}

func New() *Client {
	c := resty.New()
	c.SetTimeout(DefaultTimeout)
	c.SetHeader("Accept", "application/json")
	return &Client{http: c}
}

// SetTimeout overrides the default deadline. Used by tests and by callers
// that want a tighter budget.
func (c *Client) SetTimeout(d time.Duration) {
	c.http.SetTimeout(d)
}

// Get issues a single GET and returns the decoded JSON body.
// Failure modes: ErrTimeout, *APIError for non-2xx statuses, and wrapped
// transport errors for everything else.
func (c *Client) Get(ctx context.Context, url string) (interface{}, error) {
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		if isTimeout(err) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &APIError{
			Status:  resp.Status(),
			Message: extractMessage(resp.Body()),
		}
	}

	var v interface{}
	if err := json.Unmarshal(resp.Body(), &v); err != nil {
		return nil, fmt.Errorf("failed to parse response body: %w", err)
	}
	return v, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

// extractMessage digs a human readable message out of an error body.
// Providers disagree on the field name, so we try the common shapes before
// falling back to the raw text.
func extractMessage(body []byte) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err == nil {
		if errVal, ok := payload["error"]; ok {
			switch e := errVal.(type) {
			case string:
				return e
			case map[string]interface{}:
				if msg, ok := e["message"].(string); ok {
					return msg
				}
			}
		}
		// FMP reports plan and key problems under "Error Message"
		if msg, ok := payload["Error Message"].(string); ok {
			return msg
		}
		if msg, ok := payload["message"].(string); ok {
			return msg
		}
	}
	return strings.TrimSpace(string(body))
}
