// Package database - Handles all interaction with ArangoDB
package database

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/arangodb/go-driver/v2/connection"
	"github.com/quantumx/qvr-backend/config"
	"go.uber.org/zap"
)

// DBConnection is the structure that defined the database engine and collections
type DBConnection struct {
	Collections map[string]arangodb.Collection
	Database    arangodb.Database
}

// Define a struct to hold the index definition
type indexConfig struct {
	IdxName   string
	IdxFields []string
}

// registryIndexes back the listing filter and sort order
var registryIndexes = []indexConfig{
	{IdxName: "registry_entry_status", IdxFields: []string{"entry_status"}},
	{IdxName: "registry_score_created", IdxFields: []string{"score", "created_at"}},
	{IdxName: "registry_status_score_created", IdxFields: []string{"entry_status", "score", "created_at"}},
}

func dbConnectionConfig(endpoint connection.Endpoint, dbuser string, dbpass string) connection.HttpConfiguration {
	return connection.HttpConfiguration{
		Authentication: connection.NewBasicAuth(dbuser, dbpass),
		Endpoint:       endpoint,
		ContentType:    connection.ApplicationJSON,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, // #nosec G402
			},
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 90 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// Connect opens the database named in cfg, creating the database, the registry collection and
// its indexes when missing. A single connection attempt is made.
func Connect(ctx context.Context, cfg config.ArangoConfig, logger *zap.Logger) (DBConnection, error) {
	endpoint := connection.NewRoundRobinEndpoints([]string{cfg.URL})
	conn := connection.NewHttpConnection(dbConnectionConfig(endpoint, cfg.User, cfg.Password))
	client := arangodb.NewClient(conn)

	// Ask the version of the server
	versionInfo, err := client.Version(ctx)
	if err != nil {
		return DBConnection{}, fmt.Errorf("failed to connect to ArangoDB at %s: %w", cfg.URL, err)
	}
	logger.Sugar().Infof("Database has version '%s' and license '%s'", versionInfo.Version, versionInfo.License)

	//
	// Database creation
	//

	var db arangodb.Database
	dblist, err := client.Databases(ctx)
	if err != nil {
		return DBConnection{}, fmt.Errorf("failed to list databases: %w", err)
	}

	exists := false
	for _, dbinfo := range dblist {
		if dbinfo.Name() == cfg.Database {
			exists = true
			break
		}
	}

	if exists {
		var options arangodb.GetDatabaseOptions
		if db, err = client.GetDatabase(ctx, cfg.Database, &options); err != nil {
			return DBConnection{}, fmt.Errorf("failed to get database: %w", err)
		}
	} else {
		if db, err = client.CreateDatabase(ctx, cfg.Database, nil); err != nil {
			return DBConnection{}, fmt.Errorf("failed to create database: %w", err)
		}
		logger.Sugar().Infof("Created database %s", cfg.Database)
	}

	//
	// Collection creation for document storage
	//

	var col arangodb.Collection
	exists, err = db.CollectionExists(ctx, cfg.Collection)
	if err != nil {
		return DBConnection{}, fmt.Errorf("failed to check collection %s: %w", cfg.Collection, err)
	}
	if exists {
		var options arangodb.GetCollectionOptions
		if col, err = db.GetCollection(ctx, cfg.Collection, &options); err != nil {
			return DBConnection{}, fmt.Errorf("failed to use collection: %w", err)
		}
	} else {
		if col, err = db.CreateCollectionV2(ctx, cfg.Collection, nil); err != nil {
			return DBConnection{}, fmt.Errorf("failed to create collection: %w", err)
		}
	}

	if err := ensureIndexes(ctx, col, cfg.Collection, logger); err != nil {
		return DBConnection{}, err
	}

	logger.Sugar().Infof("Database initialization complete for collection %s", cfg.Collection)

	return DBConnection{
		Database:    db,
		Collections: map[string]arangodb.Collection{cfg.Collection: col},
	}, nil
}

func ensureIndexes(ctx context.Context, col arangodb.Collection, name string, logger *zap.Logger) error {
	False := false

	existing := map[string]bool{}
	if indexes, err := col.Indexes(ctx); err == nil {
		for _, index := range indexes {
			existing[index.Name] = true
		}
	}

	for _, idx := range registryIndexes {
		if existing[idx.IdxName] {
			continue
		}

		// Define the index options
		indexOptions := arangodb.CreatePersistentIndexOptions{
			Unique: &False,
			Sparse: &False,
			Name:   idx.IdxName,
		}

		if _, _, err := col.EnsurePersistentIndex(ctx, idx.IdxFields, &indexOptions); err != nil {
			return fmt.Errorf("error creating index %s: %w", idx.IdxName, err)
		}
		logger.Sugar().Infof("Created index: %s on %s%v", idx.IdxName, name, idx.IdxFields)
	}
	return nil
}
