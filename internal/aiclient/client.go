// Package aiclient calls the backend's text-generation endpoints.
package aiclient

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/justsurfingit/brightpath/internal/errors"
	"github.com/justsurfingit/brightpath/internal/httpapi"
	"github.com/justsurfingit/brightpath/internal/logger"
)

// CoverLetterRequest is the input of a cover letter generation.
type CoverLetterRequest struct {
	Position  string `json:"position"`
	Company   string `json:"company"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Recipient string `json:"recipient,omitempty"`
}

// ProfessionalizeRequest asks for a more formal rewording of OriginalText.
type ProfessionalizeRequest struct {
	OriginalText string `json:"originalText"`
	Context      string `json:"context,omitempty"`
}

// Usage is the token accounting reported by the model provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the answer of every generation endpoint.
type Response struct {
	Message     string    `json:"message"`
	Content     string    `json:"content"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generatedAt"`
	Usage       *Usage    `json:"usage,omitempty"`
}

// Marker is told when a mock answered in place of the backend.
type Marker interface {
	Mark(op string)
}

// Config configures a Client.
type Config struct {
	Development bool   // connectivity failures are served by the mock
	ForceMock   bool   // in development, skip the network entirely
	Indicator   Marker // optional
	Now         func() time.Time
	Logger      *zap.SugaredLogger
}

type Client struct {
	api    *httpapi.Client
	cfg    Config
	logger *zap.SugaredLogger
}

func New(api *httpapi.Client, cfg Config) *Client {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Client{api: api, cfg: cfg, logger: logger.OrNop(cfg.Logger)}
}

func (c *Client) GenerateCoverLetter(ctx context.Context, req CoverLetterRequest) (*Response, error) {
	if strings.TrimSpace(req.Position) == "" || strings.TrimSpace(req.Company) == "" {
		return nil, errors.Validationf("position and company are required")
	}
	return c.generate(ctx, "cover-letter", "/ai/cover-letter", req, func() *Response {
		return mockCoverLetter(req, c.cfg.Now())
	})
}

func (c *Client) ProfessionalizeText(ctx context.Context, req ProfessionalizeRequest) (*Response, error) {
	if strings.TrimSpace(req.OriginalText) == "" {
		return nil, errors.Validationf("text to rewrite is required")
	}
	return c.generate(ctx, "professionalize-text", "/ai/professionalize-text", req, func() *Response {
		return mockProfessionalize(req, c.cfg.Now())
	})
}

func (c *Client) generate(ctx context.Context, op, path string, body interface{}, mock func() *Response) (*Response, error) {
	if c.cfg.Development && c.cfg.ForceMock {
		c.mark(op)
		return mock(), nil
	}

	var resp Response
	_, err := c.api.Do(ctx, http.MethodPost, path, nil, body, &resp)
	if err == nil {
		return &resp, nil
	}

	var se *errors.ServerError
	switch {
	case errors.As(err, &se):
		return nil, err
	case errors.IsTimeout(err):
		return nil, errors.Mark(errors.WithSecondaryError(errors.New(errors.MsgTimeout), err), errors.ErrTimeout)
	case errors.IsConnectivity(err):
		if !c.cfg.Development {
			return nil, errors.Mark(errors.WithSecondaryError(errors.New(errors.MsgUnreachable), err), errors.ErrConnectivity)
		}
		c.logger.Warnw("AI backend unreachable, serving mock response", "operation", op, "error", err)
		c.mark(op)
		return mock(), nil
	}
	return nil, errors.Wrap(err, "generation failed")
}

func (c *Client) mark(op string) {
	if c.cfg.Indicator != nil {
		c.cfg.Indicator.Mark("ai " + op)
	}
}
