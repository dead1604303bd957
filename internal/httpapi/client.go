// Package httpapi is the JSON-over-HTTP transport shared by the backend clients.
//
// Every call is bounded by a timeout and classified into exactly one outcome:
// success, *errors.ServerError (the backend answered with a non-success
// status or an unreadable body), errors.ErrTimeout, or errors.ErrConnectivity
// (no HTTP answer at all).
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/justsurfingit/brightpath/internal/errors"
	"github.com/justsurfingit/brightpath/internal/logger"
)

// DefaultTimeout bounds every request unless configured otherwise.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration      // DefaultTimeout when zero
	Tokens     oauth2.TokenSource // bearer tokens; nil or a failing source means no Authorization header
	HTTPClient *http.Client       // optional; its Timeout is overridden
	Logger     *zap.SugaredLogger // nil = nop
}

// Client issues JSON requests against one base URL.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  oauth2.TokenSource
	logger  *zap.SugaredLogger
}

func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	hc := &http.Client{}
	if cfg.HTTPClient != nil {
		copied := *cfg.HTTPClient
		hc = &copied
	}
	hc.Timeout = cfg.Timeout

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    hc,
		tokens:  cfg.Tokens,
		logger:  logger.OrNop(cfg.Logger),
	}
}

// BaseURL returns the URL paths are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends body (when non-nil) as JSON and decodes a successful response into out (when non-nil).
// It returns the response status on success.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) (int, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, errors.Wrapf(err, "encode %s %s request", method, path)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, errors.Wrapf(err, "build %s %s request", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	c.logger.Debugw("HTTP request", "method", method, "url", target)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, classifyTransport(err, method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, serverError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, errors.WithSecondaryError(
			&errors.ServerError{Status: resp.StatusCode, Message: "unexpected response from server"}, err)
	}
	return resp.StatusCode, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.tokens == nil {
		return
	}
	tok, err := c.tokens.Token()
	if err != nil || tok == nil || tok.AccessToken == "" {
		return
	}
	tok.SetAuthHeader(req)
}

func classifyTransport(err error, method, path string) error {
	wrapped := errors.Wrapf(err, "%s %s", method, path)
	if isTimeout(err) {
		return errors.Mark(wrapped, errors.ErrTimeout)
	}
	if errors.Is(err, context.Canceled) {
		return wrapped
	}
	return errors.Mark(wrapped, errors.ErrConnectivity)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func serverError(resp *http.Response) error {
	se := &errors.ServerError{Status: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return se
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		se.Message = payload.Message
		if se.Message == "" {
			se.Message = payload.Error
		}
	}
	return se
}
