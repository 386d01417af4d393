// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/okian/execdash/internal/domain/assistant"
	"github.com/okian/execdash/internal/domain/scenario"
	"github.com/okian/execdash/internal/domain/types"
)

// ScenarioDependencies evaluates the operating scenarios.
type ScenarioDependencies interface {
	Scenario(ctx context.Context, overrides scenario.Inputs) (scenario.Comparison, error)
	AskScenario(ctx context.Context, question string, cmp scenario.Comparison) (assistant.Answer, error)
}

// ScenarioHandler serves the do-nothing versus proposed comparison.
type ScenarioHandler struct {
	deps ScenarioDependencies
}

// NewScenarioHandler creates a new scenario handler.
func NewScenarioHandler(deps ScenarioDependencies) *ScenarioHandler {
	return &ScenarioHandler{deps: deps}
}

type scenarioResponse struct {
	Comparison scenario.Comparison `json:"comparison"`
	Text       string              `json:"text"`
	Answer     *types.AskResponse  `json:"answer,omitempty"`
}

// HandleScenario handles GET /scenario and POST /scenario requests.
// POST accepts assumption overrides and an optional question about the result.
func (h *ScenarioHandler) HandleScenario(w http.ResponseWriter, r *http.Request) {
	const op = "api.scenario"
	var req types.ScenarioRequest
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
	default:
		http.NotFound(w, r)
		return
	}

	cmp, err := h.deps.Scenario(r.Context(), scenario.Inputs(req.Overrides))
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	resp := scenarioResponse{Comparison: cmp, Text: cmp.Text()}
	if q := strings.TrimSpace(req.Question); q != "" {
		ans, err := h.deps.AskScenario(r.Context(), q, cmp)
		if err != nil {
			writeFailure(w, Wrap(op, err))
			return
		}
		resp.Answer = &types.AskResponse{Question: ans.Question, Answer: ans.Text, Mode: ans.Mode}
	}
	writeJSON(w, http.StatusOK, resp)
}
