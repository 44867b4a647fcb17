package httpapi

import (
	"net/http"
	"strconv"
)

func (s *Server) handleAnalyticsUsage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	days := 0
	if v := q.Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation", Detail: "days must be an integer"})
			return
		}
		days = n
	}

	stats, err := s.analytics.Usage(r.Context(), q.Get("provider"), days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleAnalyticsCosts(w http.ResponseWriter, r *http.Request) {
	b, err := s.analytics.Costs(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
