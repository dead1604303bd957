// Package remote stores applications through the backend API.
//
// Client speaks the backend's snake_case wire format and reports failures as
// typed errors (see internal/errors). Mock fabricates answers with the same
// contract. Fallback decides, per call, whether a connectivity failure is
// served by the mock (development) or surfaced (any other build). Store adapts
// either to the persistence.Store capability.
package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/justsurfingit/brightpath/internal/errors"
	"github.com/justsurfingit/brightpath/internal/httpapi"
	"github.com/justsurfingit/brightpath/internal/logger"
	"github.com/justsurfingit/brightpath/internal/models"
)

// Backend is the remote collection resource.
type Backend interface {
	List(ctx context.Context, f models.Filters) (models.ListResult, error)
	Get(ctx context.Context, id string) (*models.Application, error)
	Create(ctx context.Context, in models.ApplicationInput) (*models.Application, error)
	Update(ctx context.Context, id string, patch models.ApplicationPatch) (*models.Application, error)
	Delete(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context) (models.Stats, error)
}

// Client is the HTTP implementation of Backend.
type Client struct {
	api    *httpapi.Client
	logger *zap.SugaredLogger
}

var _ Backend = (*Client)(nil)

func NewClient(api *httpapi.Client, l *zap.SugaredLogger) *Client {
	return &Client{api: api, logger: logger.OrNop(l)}
}

type listResponse struct {
	Applications []map[string]interface{} `json:"applications"`
	Total        int                      `json:"total"`
	Page         int                      `json:"page"`
	Limit        int                      `json:"limit"`
}

// FilterValues encodes filters as query parameters, leaving out the ones not set.
func FilterValues(f models.Filters) url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	if f.OrderBy != "" {
		q.Set("orderBy", f.OrderBy)
	}
	if f.OrderDirection != "" {
		q.Set("orderDirection", f.OrderDirection)
	}
	return q
}

func (c *Client) List(ctx context.Context, f models.Filters) (models.ListResult, error) {
	var resp listResponse
	if _, err := c.api.Do(ctx, http.MethodGet, "/applications", FilterValues(f), nil, &resp); err != nil {
		return models.ListResult{}, err
	}

	apps := make([]models.Application, 0, len(resp.Applications))
	for _, raw := range resp.Applications {
		app, err := decodeApplication(raw)
		if err != nil {
			return models.ListResult{}, err
		}
		apps = append(apps, *app)
	}
	return models.ListResult{Applications: apps, Total: resp.Total, Page: resp.Page, Limit: resp.Limit}, nil
}

func (c *Client) Get(ctx context.Context, id string) (*models.Application, error) {
	var raw map[string]interface{}
	if _, err := c.api.Do(ctx, http.MethodGet, "/applications/"+url.PathEscape(id), nil, nil, &raw); err != nil {
		return nil, err
	}
	return decodeApplication(raw)
}

// Create validates the application date locally; an invalid date never reaches the network.
func (c *Client) Create(ctx context.Context, in models.ApplicationInput) (*models.Application, error) {
	date, err := models.NormalizeDate(in.ApplicationDate)
	if err != nil {
		return nil, err
	}
	in.ApplicationDate = date

	fields, err := models.ToMap(in)
	if err != nil {
		return nil, errors.Wrap(err, "encode application")
	}
	body := models.ToRemote(fields, true)
	c.logger.Debugw("Creating application", "payload", body)

	var raw map[string]interface{}
	if _, err := c.api.Do(ctx, http.MethodPost, "/applications", nil, body, &raw); err != nil {
		return nil, err
	}
	return decodeApplication(raw)
}

// Update sends only the fields the patch carries.
func (c *Client) Update(ctx context.Context, id string, patch models.ApplicationPatch) (*models.Application, error) {
	if patch.ApplicationDate != nil {
		date, err := models.NormalizeDate(*patch.ApplicationDate)
		if err != nil {
			return nil, err
		}
		patch.ApplicationDate = &date
	}

	fields, err := models.ToMap(patch)
	if err != nil {
		return nil, errors.Wrap(err, "encode application patch")
	}
	body := models.ToRemote(fields, false)
	c.logger.Debugw("Updating application", "id", id, "payload", body)

	var raw map[string]interface{}
	if _, err := c.api.Do(ctx, http.MethodPut, "/applications/"+url.PathEscape(id), nil, body, &raw); err != nil {
		return nil, err
	}
	return decodeApplication(raw)
}

func (c *Client) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := c.api.Do(ctx, http.MethodDelete, "/applications/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) Stats(ctx context.Context) (models.Stats, error) {
	var s models.Stats
	if _, err := c.api.Do(ctx, http.MethodGet, "/applications/stats", nil, nil, &s); err != nil {
		return models.Stats{}, err
	}
	return s, nil
}

func decodeApplication(raw map[string]interface{}) (*models.Application, error) {
	if raw == nil {
		return nil, &errors.ServerError{Status: http.StatusOK, Message: "unexpected response from server"}
	}
	var app models.Application
	if err := models.FromMap(models.ToInternal(raw), &app); err != nil {
		return nil, errors.WithSecondaryError(
			&errors.ServerError{Status: http.StatusOK, Message: "unexpected response from server"}, err)
	}
	return &app, nil
}
