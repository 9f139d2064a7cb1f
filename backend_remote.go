package sqlbridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/sqlbridge/sqlbridge/shared/types"
)

// defaultRemoteEndpoint is the per-database base URL of the hosted SQL
// service; the two %s verbs take the account id and the database id.
const defaultRemoteEndpoint = "https://api.cloudflare.com/client/v4/accounts/%s/d1/database/%s"

// RemoteBackend reaches a hosted SQL service over stateless REST calls.
// The service is catalog-compatible with the embedded engine, so schema
// introspection issues the same queries as the local variant.
type RemoteBackend struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewRemoteBackend builds a client for one remote database. Credential
// placeholders in the registry must already be resolved by the caller.
// A nil client gets a default with the given timeout.
func NewRemoteBackend(remote types.RemoteRegistry, databaseID string, timeout time.Duration, client *http.Client) *RemoteBackend {
	endpoint := remote.Endpoint
	if endpoint == "" {
		endpoint = defaultRemoteEndpoint
	}
	baseURL := endpoint
	if strings.Contains(endpoint, "%s") {
		baseURL = fmt.Sprintf(endpoint, remote.AccountID, databaseID)
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &RemoteBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   remote.APIToken,
		client:  client,
	}
}

// Dialect implements Backend. The remote service speaks the embedded
// engine's dialect.
func (b *RemoteBackend) Dialect() string { return "sqlite" }

// remoteEnvelope is the wire shape of a remote query response.
type remoteEnvelope struct {
	Success bool            `json:"success"`
	Result  []remoteResult  `json:"result"`
	Errors  json.RawMessage `json:"errors"`
}

type remoteResult struct {
	Results  []map[string]any `json:"results"`
	Meta     map[string]any   `json:"meta"`
	Duration float64          `json:"duration"`
}

// Execute implements Backend. Transport faults and non-200 statuses are
// folded into a failed QueryResult so the executor sees a uniform shape.
func (b *RemoteBackend) Execute(ctx context.Context, query string, params []string, fetch bool) (types.QueryResult, error) {
	payload := map[string]any{"sql": query}
	if len(params) > 0 {
		payload["params"] = params
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return types.QueryResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/query", bytes.NewReader(body))
	if err != nil {
		return types.QueryResult{}, err
	}
	req.Header.Set("Authorization", "Bearer "+b.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return types.QueryResult{Success: false, Error: "connection error: " + err.Error()}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return types.QueryResult{
			Success: false,
			Error:   fmt.Sprintf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))),
		}, nil
	}

	var envelope remoteEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return types.QueryResult{}, fmt.Errorf("decode response: %w", err)
	}

	if !envelope.Success {
		return types.QueryResult{Success: false, Error: firstRemoteError(envelope.Errors)}, nil
	}

	var first remoteResult
	if len(envelope.Result) > 0 {
		first = envelope.Result[0]
	}

	if !fetch {
		res := types.QueryResult{Success: true, Meta: first.Meta, Duration: first.Duration}
		if first.Meta != nil {
			if n, ok := numberValue(first.Meta["changes"]); ok {
				res.AffectedRows = n
			}
			if n, ok := numberValue(first.Meta["last_row_id"]); ok {
				res.LastInsertID = n
			}
		}
		return res, nil
	}

	rows := first.Results
	if rows == nil {
		rows = []map[string]any{}
	}
	return types.QueryResult{
		Success:  true,
		Rows:     rows,
		Columns:  columnsFromRows(rows),
		Count:    len(rows),
		Meta:     first.Meta,
		Duration: first.Duration,
	}, nil
}

// Schema implements Backend using the shared catalog query.
func (b *RemoteBackend) Schema(ctx context.Context) ([]types.SchemaObject, error) {
	res, err := b.Execute(ctx, catalogQuery(b.Dialect()), nil, true)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, fmt.Errorf("%s", res.Error)
	}
	return schemaFromRows(res.Rows), nil
}

// firstRemoteError extracts the first application-level error message.
// The service reports errors either as strings or as {code, message} pairs.
func firstRemoteError(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "unknown error"
	}
	var asStrings []string
	if err := json.Unmarshal(raw, &asStrings); err == nil && len(asStrings) > 0 {
		return asStrings[0]
	}
	var asObjects []struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &asObjects); err == nil && len(asObjects) > 0 && asObjects[0].Message != "" {
		return asObjects[0].Message
	}
	return "unknown error"
}

// columnsFromRows derives a deterministic column list from result objects.
// The remote service returns rows as objects without a column descriptor,
// so names are taken from the first row and sorted.
func columnsFromRows(rows []map[string]any) []string {
	if len(rows) == 0 {
		return nil
	}
	cols := make([]string, 0, len(rows[0]))
	for name := range rows[0] {
		cols = append(cols, name)
	}
	sort.Strings(cols)
	return cols
}

// numberValue coerces a decoded JSON number to int64.
func numberValue(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}
