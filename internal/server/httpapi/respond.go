package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avelkov/draftforge/internal/common"
	"github.com/avelkov/draftforge/internal/server/providers"
)

type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto stable HTTP statuses and error kinds.
// Upstream provider failures surface as 502 with the classified kind;
// anything unrecognized collapses to a generic 500 without leaking
// internals.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation", Detail: err.Error()})
	case errors.Is(err, common.ErrUnknownModel):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "unknown_model", Detail: err.Error()})
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found", Detail: err.Error()})
	case errors.Is(err, common.ErrVersionConflict):
		writeJSON(w, http.StatusConflict, errorBody{Error: "version_conflict", Detail: err.Error()})
	default:
		var pe *providers.Error
		if errors.As(err, &pe) {
			writeJSON(w, http.StatusBadGateway, errorBody{Error: string(pe.Kind), Detail: pe.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal", Detail: "internal server error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation", Detail: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}
