package api

import "net/http"

func handleSchema(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Schema == nil {
		writeError(w, http.StatusNotImplemented, "schema dependency is not configured")
		return
	}

	snapshot, err := deps.Schema.Get(r.Context())
	if err != nil {
		// Detail stays in the server log; clients get a fixed message.
		logError(deps, r, "schema snapshot failed", err)
		writeError(w, http.StatusInternalServerError, "Failed to load schema")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"schema": snapshot.Text()})
}
