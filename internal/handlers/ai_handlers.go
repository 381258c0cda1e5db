package handlers

import (
	"errors"
	"net/http"

	"github.com/ahsanfayaz52/sharednotes/internal/ai"
	"github.com/ahsanfayaz52/sharednotes/internal/respond"
)

type AIRequest struct {
	Text   string `json:"text"`
	Action string `json:"action"`
}

func AIToolsHandler(assistant ai.Assistant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AIRequest
		if err := decodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}

		var (
			result any
			err    error
		)
		switch req.Action {
		case "summarize":
			result, err = assistant.Summarize(r.Context(), req.Text)
		case "keywords":
			result, err = assistant.Keywords(r.Context(), req.Text)
		default:
			badRequest(w, "Unknown action")
			return
		}

		if errors.Is(err, ai.ErrEmptyText) {
			badRequest(w, "Text is required")
			return
		}
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, map[string]any{"action": req.Action, "result": result})
	}
}
