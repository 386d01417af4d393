// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/execdash/internal/domain/assistant"
	"github.com/okian/execdash/internal/domain/types"
)

const formatHTML = "html"

// AssistantDependencies answers questions about the latest snapshot.
type AssistantDependencies interface {
	Ask(ctx context.Context, question string) (assistant.Answer, error)
	Digest(ctx context.Context) (string, error)
}

// AssistantHandler serves the natural-language assistant.
type AssistantHandler struct {
	deps AssistantDependencies
}

// NewAssistantHandler creates a new assistant handler.
func NewAssistantHandler(deps AssistantDependencies) *AssistantHandler {
	return &AssistantHandler{deps: deps}
}

// HandleAsk handles POST /ask requests. With ?format=html the answer is
// also rendered from markdown.
func (h *AssistantHandler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	const op = "api.ask"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req types.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, assistant.ErrEmptyQuestion))
		return
	}
	ans, err := h.deps.Ask(r.Context(), req.Question)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	resp := types.AskResponse{Question: ans.Question, Answer: ans.Text, Mode: ans.Mode}
	if r.URL.Query().Get("format") == formatHTML {
		if resp.HTML, err = assistant.HTML(ans.Text); err != nil {
			writeFailure(w, Wrap(op, err))
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleDigest handles GET /digest requests.
func (h *AssistantHandler) HandleDigest(w http.ResponseWriter, r *http.Request) {
	const op = "api.digest"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	digest, err := h.deps.Digest(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	resp := types.DigestResponse{Digest: digest}
	if r.URL.Query().Get("format") == formatHTML {
		if resp.HTML, err = assistant.HTML(digest); err != nil {
			writeFailure(w, Wrap(op, err))
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
