package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/queryloom/queryloom/internal/nl2sql"
	"github.com/queryloom/queryloom/internal/observability"
	"github.com/queryloom/queryloom/internal/sanitize"
)

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	SQL      string           `json:"sql"`
	Notes    string           `json:"notes"`
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"rowCount"`
}

// handleQuery runs the full pipeline: schema snapshot, prompt, model,
// sanitizer, executor. Every failure maps to a 400 with the specific
// message so the frontend can show why the request was rejected.
func handleQuery(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Schema == nil || deps.Translator == nil || deps.Executor == nil {
		writeError(w, http.StatusNotImplemented, "query dependencies are not configured")
		return
	}

	var request askRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(request.Question) == "" {
		writeError(w, http.StatusBadRequest, "Question is required")
		return
	}

	snapshot, err := deps.Schema.Get(r.Context())
	if err != nil {
		logError(deps, r, "schema snapshot failed", err)
		writeError(w, http.StatusBadRequest, "Failed to load schema")
		return
	}

	generated, err := deps.Translator.Translate(r.Context(), nl2sql.Request{
		Question:   request.Question,
		SchemaText: snapshot.Text(),
	})
	if err != nil {
		observability.ObserveTranslation("model_error")
		logError(deps, r, "translation failed", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sanitized, err := sanitize.Sanitize(generated.SQL)
	if err != nil {
		observability.ObserveTranslation("rejected")
		observability.ObserveSanitizerRejection(sanitize.Rule(err))
		logError(deps, r, "generated statement rejected", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := deps.Executor.Execute(r.Context(), sanitized)
	if err != nil {
		observability.ObserveTranslation("execution_error")
		logError(deps, r, "query execution failed", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	observability.ObserveTranslation("ok")
	writeJSON(w, http.StatusOK, askResponse{
		SQL:      sanitized,
		Notes:    generated.Notes,
		Columns:  result.Columns,
		Rows:     result.Rows,
		RowCount: result.RowCount,
	})
}
