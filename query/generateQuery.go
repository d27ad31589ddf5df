package query

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"timeless/database"
	"timeless/pivot"
	"timeless/services"
	"timeless/utils"
)

type QueryRequest struct {
	Prompt string `json:"prompt"`
}

type QueryResponse struct {
	Query string `json:"query"`
}

// RenderRequest names one table source: an inline table, a SQL query or a
// prompt to turn into SQL, tried in that order.
type RenderRequest struct {
	Table   *pivot.Table    `json:"table,omitempty"`
	SQL     string          `json:"sql,omitempty"`
	Prompt  string          `json:"prompt,omitempty"`
	Options json.RawMessage `json:"options,omitempty"`
}

type RenderResponse struct {
	Query  string          `json:"query,omitempty"`
	Result *pivot.Result   `json:"result"`
	Figure services.Figure `json:"figure"`
}

func decodeJSON(r *http.Request, w http.ResponseWriter, out any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", errBadRequest, err)
	}
	return nil
}

// HandleGenerateQuery turns a prompt into a read-only SQL query without
// running it.
func (s *Server) HandleGenerateQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := decodeJSON(r, w, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, r, fmt.Errorf("%w: prompt is required", errBadRequest))
		return
	}

	q, err := s.suggest(r.Context(), req.Prompt)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, QueryResponse{Query: q})
}

// HandleRender resolves the request's table, pivots it and returns the
// result together with its figure.
func (s *Server) HandleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := decodeJSON(r, w, &req); err != nil {
		writeError(w, r, err)
		return
	}

	opts, err := services.ParsePanelOptions(req.Options)
	if err != nil {
		writeError(w, r, err)
		return
	}

	table, query, err := s.resolveTable(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := pivot.Pivot(table, opts.PlotType, opts.PivotOptions())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, RenderResponse{
		Query:  query,
		Result: res,
		Figure: services.BuildFigure(res, opts),
	})
}

func (s *Server) resolveTable(ctx context.Context, req RenderRequest) (*pivot.Table, string, error) {
	if req.Table != nil {
		return req.Table, "", nil
	}

	query := strings.TrimSpace(req.SQL)
	if query == "" && strings.TrimSpace(req.Prompt) != "" {
		var err error
		query, err = s.suggest(ctx, req.Prompt)
		if err != nil {
			return nil, "", err
		}
	}
	if query == "" {
		return nil, "", fmt.Errorf("%w: one of table, sql or prompt is required", errBadRequest)
	}
	if !utils.ValidateSQL(query) {
		return nil, query, errForbidden
	}
	if s.DB == nil {
		return nil, query, errUnavailable
	}

	table, err := database.QueryTableReadOnly(ctx, s.DB, query)
	if err != nil {
		return nil, query, err
	}
	logger(ctx).WithField("fields", len(table.Fields)).WithField("rows", table.Rows()).Debug("query executed")
	return table, query, nil
}

func (s *Server) suggest(ctx context.Context, prompt string) (string, error) {
	if s.Suggester == nil {
		return "", services.ErrSuggesterDisabled
	}
	var schema []database.TableSchema
	if s.DB != nil {
		var err error
		schema, err = database.LoadSchema(ctx, s.DB, s.Schema)
		if err != nil {
			return "", err
		}
	}
	q, err := s.Suggester.Suggest(ctx, prompt, schema)
	if err != nil {
		return "", fmt.Errorf("suggesting query: %w", err)
	}
	logger(ctx).WithField("query", q).Info("query suggested")
	return q, nil
}
