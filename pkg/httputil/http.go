package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	herrors "github.com/matzehuels/housesketch/pkg/errors"
	"github.com/matzehuels/housesketch/pkg/observability"
)

// maxErrorBody bounds how much of an error response is read into messages.
const maxErrorBody = 4 << 10

// NewClient returns an HTTP client with the given overall request timeout.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// Do sends req and returns the response when its status is 2xx. Any other
// status is converted by [CheckStatus] and the body is closed.
func Do(client *http.Client, req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	host, path := req.URL.Host, req.URL.Path
	hooks := observability.HTTP()

	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, transportError(ctx, host, err)
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := CheckStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

func transportError(ctx context.Context, host string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return herrors.Wrap(herrors.ErrCodeTimeout, err, "request to %s timed out", host)
	}
	return herrors.Wrap(herrors.ErrCodeNetwork, err, "failed to reach %s", host)
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// CheckStatus returns nil for 2xx responses and a coded error otherwise.
// It reads (but does not close) a bounded prefix of the body for the message.
func CheckStatus(resp *http.Response) error {
	code := resp.StatusCode
	if code >= 200 && code < 300 {
		return nil
	}
	detail := errorDetail(resp.Body)

	switch {
	case code == http.StatusUnauthorized:
		return herrors.New(herrors.ErrCodeUnauthorized, "provider rejected the API token%s", detail)
	case code == http.StatusForbidden:
		return herrors.New(herrors.ErrCodeForbidden, "provider denied access%s", detail)
	case code == http.StatusNotFound:
		return herrors.New(herrors.ErrCodeNotFound, "provider resource not found%s", detail)
	case code == http.StatusTooManyRequests:
		retry, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return herrors.Wrap(herrors.ErrCodeRateLimited,
			&herrors.RateLimitedError{RetryAfter: retry},
			"provider rate limit reached%s", detail)
	case code >= 500:
		return herrors.New(herrors.ErrCodeNetwork, "provider unavailable (status %d)%s", code, detail)
	default:
		return herrors.New(herrors.ErrCodeProviderFailed, "provider returned status %d%s", code, detail)
	}
}

// errorDetail extracts a short message from a provider error body. Both
// providers answer with JSON carrying "detail", "message" or "errors".
func errorDetail(body io.Reader) string {
	if body == nil {
		return ""
	}
	raw, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return ""
	}

	var v struct {
		Detail  string   `json:"detail"`
		Message string   `json:"message"`
		Errors  []string `json:"errors"`
	}
	if json.Unmarshal(raw, &v) == nil {
		switch {
		case v.Detail != "":
			text = v.Detail
		case v.Message != "":
			text = v.Message
		case len(v.Errors) > 0:
			text = strings.Join(v.Errors, "; ")
		}
	}
	return fmt.Sprintf(": %s", text)
}
