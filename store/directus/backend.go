// Package directus stores vulnerable systems in a Directus collection through its REST items API.
package directus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/imroc/req/v3"
	"github.com/quantumx/qvr-backend/config"
	"github.com/quantumx/qvr-backend/model"
	"github.com/quantumx/qvr-backend/store"
	"go.uber.org/zap"
)

// Backend implements store.Backend against one Directus collection
type Backend struct {
	client *req.Client
	items  string
	logger *zap.Logger
}

type directusErrors struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type itemList struct {
	Data []Item `json:"data"`
}

type itemEnvelope struct {
	Data *Item `json:"data"`
}

// New returns a backend for cfg. The static token is optional for public collections.
func New(cfg config.DirectusConfig, logger *zap.Logger) *Backend {
	client := req.C().
		SetBaseURL(cfg.URL).
		SetCommonHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)
	if cfg.Token != "" {
		client.SetCommonBearerAuthToken(cfg.Token)
	}

	return &Backend{
		client: client,
		items:  "/items/" + url.PathEscape(cfg.Collection),
		logger: logger,
	}
}

// Name implements store.Backend
func (b *Backend) Name() string { return config.BackendDirectus }

func (b *Backend) itemURL(id string) string {
	return b.items + "/" + url.PathEscape(id)
}

func failure(op, id string, resp *req.Response) error {
	if resp.StatusCode == http.StatusNotFound {
		return store.NotFound(op, id)
	}
	var apiErr directusErrors
	if err := resp.UnmarshalJson(&apiErr); err == nil && len(apiErr.Errors) > 0 {
		msgs := make([]string, 0, len(apiErr.Errors))
		for _, e := range apiErr.Errors {
			msgs = append(msgs, e.Message)
		}
		return store.BackendError(op, errors.New(strings.Join(msgs, "; ")))
	}
	return store.BackendError(op, fmt.Errorf("directus returned status %d: %s", resp.StatusCode, resp.String()))
}

// List implements store.Backend
func (b *Backend) List(ctx context.Context, filter store.ListFilter) ([]model.VulnerableSystem, error) {
	const op = "directus list"

	r := b.client.R().SetContext(ctx).
		SetQueryParam("sort", "-score,-date_created").
		SetQueryParam("limit", "-1")
	if filter.PublishedOnly {
		f, _ := json.Marshal(map[string]interface{}{
			"entry_status": map[string]string{"_eq": string(model.EntryPublished)},
		})
		r.SetQueryParam("filter", string(f))
	}

	resp, err := r.Get(b.items)
	if err != nil {
		return nil, store.BackendError(op, err)
	}
	if resp.IsErrorState() {
		return nil, failure(op, "", resp)
	}

	var list itemList
	if err := resp.UnmarshalJson(&list); err != nil {
		return nil, store.BackendError(op, fmt.Errorf("failed to decode items: %w", err))
	}

	systems := make([]model.VulnerableSystem, 0, len(list.Data))
	for _, item := range list.Data {
		v, err := fromBackend(item)
		if err != nil {
			b.logger.Warn("skipping item", zap.String("id", item.ID), zap.Error(err))
			continue
		}
		systems = append(systems, v)
	}
	return systems, nil
}

// Get implements store.Backend
func (b *Backend) Get(ctx context.Context, id string) (model.VulnerableSystem, error) {
	const op = "directus get"

	resp, err := b.client.R().SetContext(ctx).Get(b.itemURL(id))
	if err != nil {
		return model.VulnerableSystem{}, store.BackendError(op, err)
	}
	if resp.IsErrorState() {
		return model.VulnerableSystem{}, failure(op, id, resp)
	}

	var env itemEnvelope
	if err := resp.UnmarshalJson(&env); err != nil {
		return model.VulnerableSystem{}, store.BackendError(op, fmt.Errorf("failed to decode item: %w", err))
	}
	if env.Data == nil {
		return model.VulnerableSystem{}, store.NotFound(op, id)
	}

	v, err := fromBackend(*env.Data)
	if err != nil {
		return model.VulnerableSystem{}, store.DataIntegrity(op, err)
	}
	return v, nil
}

// Create implements store.Backend
func (b *Backend) Create(ctx context.Context, id string, fields model.Fields, status model.Status) error {
	const op = "directus create"

	entry, err := status.Entry()
	if err != nil {
		return store.Validation(op, err)
	}
	item := toBackend(fields)
	item.ID = id
	item.EntryStatus = entry

	resp, err := b.client.R().SetContext(ctx).SetBody(item).Post(b.items)
	if err != nil {
		return store.BackendError(op, err)
	}
	if resp.IsErrorState() {
		return failure(op, id, resp)
	}
	return nil
}

// Update implements store.Backend
func (b *Backend) Update(ctx context.Context, id string, patch model.Patch) error {
	const op = "directus update"

	item, err := toBackendPatch(patch)
	if err != nil {
		return store.Validation(op, err)
	}

	resp, err := b.client.R().SetContext(ctx).SetBody(item).Patch(b.itemURL(id))
	if err != nil {
		return store.BackendError(op, err)
	}
	if resp.IsErrorState() {
		return failure(op, id, resp)
	}
	return nil
}

// Delete implements store.Backend
func (b *Backend) Delete(ctx context.Context, id string) error {
	const op = "directus delete"

	resp, err := b.client.R().SetContext(ctx).Delete(b.itemURL(id))
	if err != nil {
		return store.BackendError(op, err)
	}
	if resp.IsErrorState() {
		return failure(op, id, resp)
	}
	return nil
}

var _ store.Backend = (*Backend)(nil)
