// Package appwrite stores vulnerable systems in an Appwrite database collection through the
// Appwrite REST API.
package appwrite

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/imroc/req/v3"
	"github.com/quantumx/qvr-backend/config"
	"github.com/quantumx/qvr-backend/model"
	"github.com/quantumx/qvr-backend/store"
	"go.uber.org/zap"
)

// PageSize is the number of documents requested per list call
const PageSize = 100

// Backend implements store.Backend against one Appwrite collection
type Backend struct {
	client       *req.Client
	documents    string
	integerScore bool
	logger       *zap.Logger
}

// appwriteError is the error body returned by the Appwrite API
type appwriteError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}

type documentList struct {
	Total     int        `json:"total"`
	Documents []Document `json:"documents"`
}

type createRequest struct {
	DocumentID string   `json:"documentId"`
	Data       Document `json:"data"`
}

type updateRequest struct {
	Data DocumentPatch `json:"data"`
}

// New returns a backend for cfg. cfg must be Configured.
func New(cfg config.AppwriteConfig, logger *zap.Logger) *Backend {
	commonHeaders := map[string]string{
		"X-Appwrite-Project": cfg.ProjectID,
		"Content-Type":       "application/json",
	}
	if cfg.APIKey != "" {
		commonHeaders["X-Appwrite-Key"] = cfg.APIKey
	}

	client := req.C().
		SetBaseURL(cfg.Endpoint).
		SetCommonHeaders(commonHeaders).
		SetTimeout(15 * time.Second)

	return &Backend{
		client:       client,
		documents:    fmt.Sprintf("/databases/%s/collections/%s/documents", url.PathEscape(cfg.DatabaseID), url.PathEscape(cfg.CollectionID)),
		integerScore: cfg.IntegerScore,
		logger:       logger,
	}
}

// Name implements store.Backend
func (b *Backend) Name() string { return config.BackendAppwrite }

func query(method, attribute string, values ...interface{}) string {
	q := map[string]interface{}{"method": method}
	if attribute != "" {
		q["attribute"] = attribute
	}
	if len(values) > 0 {
		q["values"] = values
	}
	out, _ := json.Marshal(q)
	return string(out)
}

func (b *Backend) documentURL(id string) string {
	return b.documents + "/" + url.PathEscape(id)
}

// failure turns an error response into a typed store error.
func failure(op, id string, resp *req.Response) error {
	if resp.StatusCode == http.StatusNotFound {
		return store.NotFound(op, id)
	}
	var apiErr appwriteError
	if err := resp.UnmarshalJson(&apiErr); err == nil && apiErr.Message != "" {
		return store.BackendError(op, fmt.Errorf("%s", apiErr.Message))
	}
	return store.BackendError(op, fmt.Errorf("appwrite returned status %d: %s", resp.StatusCode, resp.String()))
}

// List implements store.Backend. Pages are read until total is reached; documents whose
// status label is unknown are skipped.
func (b *Backend) List(ctx context.Context, filter store.ListFilter) ([]model.VulnerableSystem, error) {
	const op = "appwrite list"

	systems := []model.VulnerableSystem{}
	for offset := 0; ; {
		r := b.client.R().SetContext(ctx)
		if filter.PublishedOnly {
			r.AddQueryParam("queries[]", query("equal", "entry-status", string(model.EntryPublished)))
		}
		r.AddQueryParam("queries[]", query("orderDesc", "Risk-Score"))
		r.AddQueryParam("queries[]", query("orderDesc", "$createdAt"))
		r.AddQueryParam("queries[]", query("limit", "", PageSize))
		r.AddQueryParam("queries[]", query("offset", "", offset))

		resp, err := r.Get(b.documents)
		if err != nil {
			return nil, store.BackendError(op, err)
		}
		if resp.IsErrorState() {
			return nil, failure(op, "", resp)
		}

		var page documentList
		if err := resp.UnmarshalJson(&page); err != nil {
			return nil, store.BackendError(op, fmt.Errorf("failed to decode document list: %w", err))
		}

		for _, doc := range page.Documents {
			v, err := fromBackend(doc)
			if err != nil {
				b.logger.Warn("skipping document", zap.String("id", doc.ID), zap.Error(err))
				continue
			}
			systems = append(systems, v)
		}

		offset += len(page.Documents)
		if len(page.Documents) == 0 || offset >= page.Total {
			break
		}
	}
	return systems, nil
}

// Get implements store.Backend
func (b *Backend) Get(ctx context.Context, id string) (model.VulnerableSystem, error) {
	const op = "appwrite get"

	resp, err := b.client.R().SetContext(ctx).Get(b.documentURL(id))
	if err != nil {
		return model.VulnerableSystem{}, store.BackendError(op, err)
	}
	if resp.IsErrorState() {
		return model.VulnerableSystem{}, failure(op, id, resp)
	}

	var doc Document
	if err := resp.UnmarshalJson(&doc); err != nil {
		return model.VulnerableSystem{}, store.BackendError(op, fmt.Errorf("failed to decode document: %w", err))
	}
	v, err := fromBackend(doc)
	if err != nil {
		return model.VulnerableSystem{}, store.DataIntegrity(op, err)
	}
	return v, nil
}

// score applies the integer Risk-Score attribute rule
func (b *Backend) score(id string, score float64) float64 {
	if !b.integerScore {
		return score
	}
	rounded := math.Round(score)
	if rounded != score {
		b.logger.Warn("Risk-Score attribute is an integer, rounding score",
			zap.String("id", id), zap.Float64("score", score), zap.Float64("stored", rounded))
	}
	return rounded
}

// Create implements store.Backend
func (b *Backend) Create(ctx context.Context, id string, fields model.Fields, status model.Status) error {
	const op = "appwrite create"

	entry, err := status.Entry()
	if err != nil {
		return store.Validation(op, err)
	}

	doc := toBackend(fields)
	doc.RiskScore = b.score(id, doc.RiskScore)
	doc.EntryStatus = entry

	resp, err := b.client.R().SetContext(ctx).
		SetBody(createRequest{DocumentID: id, Data: doc}).
		Post(b.documents)
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
	const op = "appwrite update"

	doc, err := toBackendPatch(patch)
	if err != nil {
		return store.Validation(op, err)
	}
	if doc.RiskScore != nil {
		s := b.score(id, *doc.RiskScore)
		doc.RiskScore = &s
	}

	resp, err := b.client.R().SetContext(ctx).
		SetBody(updateRequest{Data: doc}).
		Patch(b.documentURL(id))
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
	const op = "appwrite delete"

	resp, err := b.client.R().SetContext(ctx).Delete(b.documentURL(id))
	if err != nil {
		return store.BackendError(op, err)
	}
	if resp.IsErrorState() {
		return failure(op, id, resp)
	}
	return nil
}

var _ store.Backend = (*Backend)(nil)
