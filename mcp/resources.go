package mcp

// In this file: read-only MCP resources over the bridge configuration and
// per-database schema listings.

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
)

// registerResources attaches the static and templated resources.
func (s *Server) registerResources() {
	s.mcp.AddResource(
		mcplib.NewResource("db://config", "Database Configuration",
			mcplib.WithResourceDescription("Current database registry and settings, credentials stripped"),
			mcplib.WithMIMEType("application/json"),
		),
		s.readConfig,
	)
	s.mcp.AddResource(
		mcplib.NewResource("db://connections", "Active Connections",
			mcplib.WithResourceDescription("Names of databases with a live handle and the cache entry count"),
			mcplib.WithMIMEType("application/json"),
		),
		s.readConnections,
	)
	s.mcp.AddResourceTemplate(
		mcplib.NewResourceTemplate("db://{database}/schema", "Database Schema",
			mcplib.WithTemplateDescription("Catalog listing (tables, indexes, views) for one database"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		s.readSchema,
	)
	s.mcp.AddResourceTemplate(
		mcplib.NewResourceTemplate("db://{database}/tables", "Database Tables",
			mcplib.WithTemplateDescription("Table name listing for one database"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		s.readTables,
	)
}

func (s *Server) readConfig(ctx context.Context, req mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	return jsonContents(req.Params.URI, s.svc.SanitizedConfig())
}

func (s *Server) readConnections(ctx context.Context, req mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	handles, cacheEntries := s.svc.Status()
	return jsonContents(req.Params.URI, map[string]any{
		"active_connections": handles,
		"cache_entries":      cacheEntries,
	})
}

func (s *Server) readSchema(ctx context.Context, req mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	database, err := databaseFromURI(req.Params.URI, "/schema")
	if err != nil {
		return nil, err
	}
	objects, err := s.svc.Schema(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("schema for %q: %w", database, err)
	}
	return jsonContents(req.Params.URI, objects)
}

func (s *Server) readTables(ctx context.Context, req mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	database, err := databaseFromURI(req.Params.URI, "/tables")
	if err != nil {
		return nil, err
	}
	tables, err := s.svc.ListTables(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("tables for %q: %w", database, err)
	}
	return jsonContents(req.Params.URI, map[string]any{"tables": tables})
}

// databaseFromURI extracts the database name from db://<name><suffix>.
func databaseFromURI(uri, suffix string) (string, error) {
	rest, ok := strings.CutPrefix(uri, "db://")
	if !ok {
		return "", fmt.Errorf("unsupported resource URI: %s", uri)
	}
	database, ok := strings.CutSuffix(rest, suffix)
	if !ok || database == "" || strings.Contains(database, "/") {
		return "", fmt.Errorf("unknown resource path: %s", uri)
	}
	return database, nil
}

// jsonContents renders v as a single JSON text resource.
func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
