package httpapi

import (
	"net/http"
	"strconv"

	"github.com/avelkov/draftforge/internal/server/services"
)

const defaultDraftMaxTokens = 2000

type draftGenerateRequest struct {
	Model        string   `json:"model"`
	Context      string   `json:"context"`
	Title        string   `json:"title"`
	SystemPrompt string   `json:"system_prompt"`
	Temperature  *float64 `json:"temperature"`
	MaxTokens    *int     `json:"max_tokens"`
	Save         bool     `json:"save"`
}

func (s *Server) handleDraftGenerate(w http.ResponseWriter, r *http.Request) {
	var req draftGenerateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	temp := defaultTemperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTokens := defaultDraftMaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}

	res, err := s.gen.Generate(r.Context(), req.Model, req.Context, services.GenerateOptions{
		SystemPrompt: req.SystemPrompt,
		Temperature:  temp,
		MaxTokens:    maxTokens,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	draftBody := map[string]any{
		"content":  res.Content,
		"title":    req.Title,
		"model":    res.Model,
		"provider": res.Provider,
	}

	if req.Save {
		d, err := s.drafts.Create(r.Context(), res.Content, req.Title, res.Model)
		if err != nil {
			writeError(w, err)
			return
		}
		draftBody["id"] = d.ID
		draftBody["version"] = d.CurrentVersion
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"draft": draftBody,
		"metadata": map[string]any{
			"tokens": tokenCounts{
				Input:  res.InputTokens,
				Output: res.OutputTokens,
				Total:  res.InputTokens + res.OutputTokens,
			},
			"estimated_cost": res.Cost,
			"finish_reason":  res.FinishReason,
		},
	})
}

type compareRequest struct {
	Models       []string `json:"models"`
	Prompt       string   `json:"prompt"`
	SystemPrompt string   `json:"system_prompt"`
	Temperature  *float64 `json:"temperature"`
}

func (s *Server) handleDraftCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !decodeBody(w, r, &req) {
		return
	}

	temp := defaultTemperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}

	entries, err := s.cmp.Compare(r.Context(), req.Models, req.Prompt, services.GenerateOptions{
		SystemPrompt: req.SystemPrompt,
		Temperature:  temp,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	results := make([]map[string]any, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		if e.Err != nil {
			results = append(results, map[string]any{
				"model":  e.Model,
				"error":  e.ErrorKind(),
				"status": "failed",
			})
			continue
		}
		results = append(results, map[string]any{
			"model":    e.Model,
			"provider": e.Result.Provider,
			"content":  e.Result.Content,
			"tokens": map[string]int{
				"input":  e.Result.InputTokens,
				"output": e.Result.OutputTokens,
			},
			"estimated_cost": e.Result.Cost,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"comparison": results,
		"count":      len(results),
	})
}

func (s *Server) handleDraftList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation", Detail: "limit must be an integer"})
			return
		}
		limit = n
	}

	list, err := s.drafts.List(r.Context(), q.Get("status"), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"drafts": list,
		"count":  len(list),
	})
}

func (s *Server) handleDraftGet(w http.ResponseWriter, r *http.Request) {
	d, err := s.drafts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"draft": d})
}

func (s *Server) handleVersionList(w http.ResponseWriter, r *http.Request) {
	vs, err := s.drafts.Versions(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"versions": vs,
		"count":    len(vs),
	})
}

type versionCreateRequest struct {
	Content        string `json:"content"`
	ChangesSummary string `json:"changes_summary"`
}

func (s *Server) handleVersionCreate(w http.ResponseWriter, r *http.Request) {
	var req versionCreateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	v, d, err := s.drafts.AppendVersion(r.Context(), r.PathValue("id"), req.Content, req.ChangesSummary)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"version": v,
		"draft": map[string]any{
			"id":      d.ID,
			"version": d.CurrentVersion,
		},
	})
}
