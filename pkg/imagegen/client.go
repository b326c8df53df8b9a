package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/housesketch/pkg/buildinfo"
	herrors "github.com/matzehuels/housesketch/pkg/errors"
	"github.com/matzehuels/housesketch/pkg/httputil"
)

// maxImageBytes bounds a downloaded image body.
const maxImageBytes = 32 << 20

// Client provides the HTTP functionality shared by the providers: a base
// URL, default headers and coded errors for failed calls.
type Client struct {
	http    *http.Client
	baseURL string
	headers map[string]string
}

// NewClient creates a Client. Headers are sent with every request.
func NewClient(baseURL string, timeout time.Duration, headers map[string]string) *Client {
	return &Client{
		http:    httputil.NewClient(timeout),
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: headers,
	}
}

// PostJSON sends body as JSON and decodes the JSON response into v.
func (c *Client) PostJSON(ctx context.Context, path string, body, v any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return herrors.Wrap(herrors.ErrCodeInternal, err, "encode request")
	}
	resp, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(data), map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp.Body, v)
}

// GetJSON performs a GET and decodes the JSON response into v.
func (c *Client) GetJSON(ctx context.Context, path string, v any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp.Body, v)
}

// PostRaw sends body with the given content type and returns the raw
// response body together with its media type.
func (c *Client) PostRaw(ctx context.Context, path, contentType string, body io.Reader, headers map[string]string) ([]byte, string, error) {
	h := map[string]string{"Content-Type": contentType}
	for k, v := range headers {
		h[k] = v
	}
	resp, err := c.do(ctx, http.MethodPost, path, body, h)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, "", herrors.Wrap(herrors.ErrCodeNetwork, err, "read response")
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, herrors.Wrap(herrors.ErrCodeInternal, err, "build request")
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return httputil.Do(c.http, req)
}

func (c *Client) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + path
}

func decode(r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return herrors.Wrap(herrors.ErrCodeProviderFailed, err, "unexpected response from provider")
	}
	return nil
}
