// Package graphql assembles the public GraphQL schema.
package graphql

import (
	"github.com/graphql-go/graphql"
	"github.com/quantumx/qvr-backend/graphql/modules/vulnerabilities"
	"github.com/quantumx/qvr-backend/store"
)

// CreateSchema builds the read-only schema served at /api/v1/graphql.
func CreateSchema(repo *store.Repository) (graphql.Schema, error) {
	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: vulnerabilities.GetQueryFields(repo),
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: rootQuery,
	})
}
