package handlers

import (
	"net/http"

	"github.com/ahsanfayaz52/sharednotes/internal/auth"
	"github.com/ahsanfayaz52/sharednotes/internal/models"
	"github.com/ahsanfayaz52/sharednotes/internal/notes"
	"github.com/ahsanfayaz52/sharednotes/internal/respond"
)

func ListNotesHandler(noteSvc *notes.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		records, err := noteSvc.List(r.Context(), auth.ActorFromContext(r.Context()), notes.ListQuery{
			Search: query.Get("q"),
			Tag:    query.Get("tag"),
		})
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		out := make([]models.NoteResponse, 0, len(records))
		for i := range records {
			out = append(out, records[i].Response())
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

func CreateNoteHandler(noteSvc *notes.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in notes.CreateInput
		if err := decodeJSON(r, &in); err != nil {
			respond.Error(w, r, err)
			return
		}

		rec, err := noteSvc.Create(r.Context(), auth.ActorFromContext(r.Context()), in)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusCreated, rec.Response())
	}
}

func GetNoteHandler(noteSvc *notes.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := noteID(r)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		rec, err := noteSvc.Get(r.Context(), auth.ActorFromContext(r.Context()), id)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, rec.Response())
	}
}

func UpdateNoteHandler(noteSvc *notes.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := noteID(r)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		var in notes.UpdateInput
		if err := decodeJSON(r, &in); err != nil {
			respond.Error(w, r, err)
			return
		}

		rec, err := noteSvc.Update(r.Context(), auth.ActorFromContext(r.Context()), id, in)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, rec.Response())
	}
}

func DeleteNoteHandler(noteSvc *notes.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := noteID(r)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		if err := noteSvc.Delete(r.Context(), auth.ActorFromContext(r.Context()), id); err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, map[string]string{"message": "Note deleted"})
	}
}

func TagsHandler(noteSvc *notes.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := noteSvc.Tags(r.Context(), auth.ActorFromContext(r.Context()))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, tags)
	}
}
