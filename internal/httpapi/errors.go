package httpapi

import (
	"encoding/json"
	"net/http"

	"pluginbuilder/internal/common/errs"
	"pluginbuilder/pkg/types"
)

// statusForError maps builder errors onto HTTP status codes. Wrapped kinds,
// such as the cause inside a PartialFailure, map like the bare kind.
func statusForError(err error) int {
	switch {
	case errs.IsUserInput(err):
		return http.StatusBadRequest
	case errs.IsAlreadyExists(err):
		return http.StatusConflict
	case errs.IsMissingDirectory(err):
		return http.StatusNotFound
	case errs.IsNotRunning(err):
		return http.StatusConflict
	case errs.IsArtifactMissing(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}
