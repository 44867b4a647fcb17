package httpapi

import (
	"net/http"

	"github.com/avelkov/draftforge/internal/server/costs"
	"github.com/avelkov/draftforge/internal/server/services"
)

const defaultTemperature = 0.7

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "DraftForge API",
		"version": apiVersion,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleModelList(w http.ResponseWriter, r *http.Request) {
	list := s.registry.List()
	writeJSON(w, http.StatusOK, map[string]any{
		"models": list,
		"count":  len(list),
	})
}

type modelCostEntry struct {
	ModelID         string  `json:"model_id"`
	DisplayName     string  `json:"display_name"`
	Provider        string  `json:"provider"`
	CostPer2kTokens float64 `json:"cost_per_2k_tokens"`
	CostPer1kInput  float64 `json:"cost_per_1k_input"`
	CostPer1kOutput float64 `json:"cost_per_1k_output"`
}

func (s *Server) handleModelCosts(w http.ResponseWriter, r *http.Request) {
	list := s.registry.List()
	entries := make([]modelCostEntry, 0, len(list))
	for _, m := range list {
		entries = append(entries, modelCostEntry{
			ModelID:     m.ID,
			DisplayName: m.DisplayName,
			Provider:    m.Provider,
			// reference price for 1000 input + 1000 output tokens
			CostPer2kTokens: costs.Cost(m, 1000, 1000),
			CostPer1kInput:  m.CostPer1kInput,
			CostPer1kOutput: m.CostPer1kOutput,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"costs": entries})
}

type generateRequest struct {
	Prompt       string   `json:"prompt"`
	Model        string   `json:"model"`
	SystemPrompt string   `json:"system_prompt"`
	Temperature  *float64 `json:"temperature"`
	MaxTokens    int      `json:"max_tokens"`
}

func (r generateRequest) options() services.GenerateOptions {
	temp := defaultTemperature
	if r.Temperature != nil {
		temp = *r.Temperature
	}
	return services.GenerateOptions{
		SystemPrompt: r.SystemPrompt,
		Temperature:  temp,
		MaxTokens:    r.MaxTokens,
	}
}

type tokenCounts struct {
	Input  int `json:"input"`
	Output int `json:"output"`
	Total  int `json:"total"`
}

func (s *Server) handleModelGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := s.gen.Generate(r.Context(), req.Model, req.Prompt, req.options())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"content":  res.Content,
		"model":    res.Model,
		"provider": res.Provider,
		"tokens": tokenCounts{
			Input:  res.InputTokens,
			Output: res.OutputTokens,
			Total:  res.InputTokens + res.OutputTokens,
		},
		"estimated_cost": res.Cost,
		"finish_reason":  res.FinishReason,
	})
}

type testModelRequest struct {
	Model    string `json:"model"`
	Provider string `json:"provider"`
}

func (s *Server) handleModelTest(w http.ResponseWriter, r *http.Request) {
	var req testModelRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := s.gen.Probe(r.Context(), req.Provider, req.Model)
	if err != nil {
		writeError(w, err)
		return
	}

	status := "failed"
	if res.Accessible {
		status = "success"
	}
	body := map[string]any{
		"provider":   res.Provider,
		"status":     status,
		"accessible": res.Accessible,
	}
	if req.Model != "" {
		body["model"] = req.Model
	}
	writeJSON(w, http.StatusOK, body)
}
