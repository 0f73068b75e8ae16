// Package arango stores vulnerable systems in an ArangoDB document collection.
package arango

import (
	"context"
	"fmt"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/quantumx/qvr-backend/config"
	"github.com/quantumx/qvr-backend/database"
	"github.com/quantumx/qvr-backend/model"
	"github.com/quantumx/qvr-backend/store"
	"github.com/quantumx/qvr-backend/util"
	"go.uber.org/zap"
)

const listQuery = `
	FOR d IN @@collection
		FILTER !@publishedOnly || d.entry_status == @published
		SORT d.score DESC, d.created_at DESC
		RETURN d
`

const getQuery = `
	FOR d IN @@collection
		FILTER d._key == @key
		LIMIT 1
		RETURN d
`

const updateQuery = `
	FOR d IN @@collection
		FILTER d._key == @key
		UPDATE d WITH @patch IN @@collection
		RETURN NEW._key
`

const removeQuery = `
	FOR d IN @@collection
		FILTER d._key == @key
		REMOVE d IN @@collection
		RETURN OLD._key
`

// Backend implements store.Backend against one ArangoDB collection
type Backend struct {
	db         database.DBConnection
	collection string
	logger     *zap.Logger
	now        func() time.Time
}

// New returns a backend over a connection opened with database.Connect.
func New(db database.DBConnection, cfg config.ArangoConfig, logger *zap.Logger) *Backend {
	return &Backend{
		db:         db,
		collection: cfg.Collection,
		logger:     logger,
		now:        time.Now,
	}
}

// Name implements store.Backend
func (b *Backend) Name() string { return config.BackendArango }

func (b *Backend) bindVars(vars map[string]interface{}) map[string]interface{} {
	vars["@collection"] = b.collection
	return vars
}

// List implements store.Backend
func (b *Backend) List(ctx context.Context, filter store.ListFilter) ([]model.VulnerableSystem, error) {
	const op = "arango list"

	cursor, err := b.db.Database.Query(ctx, listQuery, &arangodb.QueryOptions{
		BindVars: b.bindVars(map[string]interface{}{
			"publishedOnly": filter.PublishedOnly,
			"published":     string(model.EntryPublished),
		}),
	})
	if err != nil {
		return nil, store.BackendError(op, err)
	}
	defer cursor.Close()

	systems := []model.VulnerableSystem{}
	for cursor.HasMore() {
		var doc Document
		if _, err := cursor.ReadDocument(ctx, &doc); err != nil {
			return nil, store.BackendError(op, err)
		}
		v, err := fromBackend(doc)
		if err != nil {
			b.logger.Warn("skipping document", zap.String("key", doc.Key), zap.Error(err))
			continue
		}
		systems = append(systems, v)
	}
	return systems, nil
}

// Get implements store.Backend
func (b *Backend) Get(ctx context.Context, id string) (model.VulnerableSystem, error) {
	const op = "arango get"

	if !util.ValidKey(id) {
		return model.VulnerableSystem{}, store.NotFound(op, id)
	}

	cursor, err := b.db.Database.Query(ctx, getQuery, &arangodb.QueryOptions{
		BindVars: b.bindVars(map[string]interface{}{"key": id}),
	})
	if err != nil {
		return model.VulnerableSystem{}, store.BackendError(op, err)
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return model.VulnerableSystem{}, store.NotFound(op, id)
	}

	var doc Document
	if _, err := cursor.ReadDocument(ctx, &doc); err != nil {
		return model.VulnerableSystem{}, store.BackendError(op, err)
	}
	v, err := fromBackend(doc)
	if err != nil {
		return model.VulnerableSystem{}, store.DataIntegrity(op, err)
	}
	return v, nil
}

// Create implements store.Backend. The creation time is stamped here since ArangoDB keeps none.
func (b *Backend) Create(ctx context.Context, id string, fields model.Fields, status model.Status) error {
	const op = "arango create"

	entry, err := status.Entry()
	if err != nil {
		return store.Validation(op, err)
	}

	col, ok := b.db.Collections[b.collection]
	if !ok {
		return store.BackendError(op, fmt.Errorf("collection %s is not open", b.collection))
	}

	doc := toBackend(fields)
	doc.Key = id
	doc.CreatedAt = b.now().UTC().Format(time.RFC3339Nano)
	doc.EntryStatus = entry

	if _, err := col.CreateDocument(ctx, doc); err != nil {
		return store.BackendError(op, err)
	}
	return nil
}

// keyed runs a statement returning the affected key; no row means the key does not exist.
func (b *Backend) keyed(ctx context.Context, op, query, id string, vars map[string]interface{}) error {
	if !util.ValidKey(id) {
		return store.NotFound(op, id)
	}
	vars["key"] = id

	cursor, err := b.db.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: b.bindVars(vars)})
	if err != nil {
		return store.BackendError(op, err)
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return store.NotFound(op, id)
	}
	return nil
}

// Update implements store.Backend
func (b *Backend) Update(ctx context.Context, id string, patch model.Patch) error {
	const op = "arango update"

	doc, err := toBackendPatch(patch)
	if err != nil {
		return store.Validation(op, err)
	}
	return b.keyed(ctx, op, updateQuery, id, map[string]interface{}{"patch": doc})
}

// Delete implements store.Backend
func (b *Backend) Delete(ctx context.Context, id string) error {
	return b.keyed(ctx, "arango delete", removeQuery, id, map[string]interface{}{})
}

var _ store.Backend = (*Backend)(nil)
