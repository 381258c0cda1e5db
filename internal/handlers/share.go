package handlers

import (
	"net/http"

	"github.com/ahsanfayaz52/sharednotes/internal/auth"
	"github.com/ahsanfayaz52/sharednotes/internal/respond"
	"github.com/ahsanfayaz52/sharednotes/internal/sharing"
)

func ShareNoteHandler(shareSvc *sharing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := noteID(r)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		var in sharing.ShareInput
		if err := decodeJSON(r, &in); err != nil {
			respond.Error(w, r, err)
			return
		}

		share, err := shareSvc.Share(r.Context(), auth.ActorFromContext(r.Context()), id, in)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, share)
	}
}

func ListSharesHandler(shareSvc *sharing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := noteID(r)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		shares, err := shareSvc.List(r.Context(), auth.ActorFromContext(r.Context()), id)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, shares)
	}
}
