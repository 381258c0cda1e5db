package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ahsanfayaz52/sharednotes/internal/errs"
	"github.com/ahsanfayaz52/sharednotes/internal/respond"
)

func badRequest(w http.ResponseWriter, msg string) {
	respond.JSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

// noteID reads the {id} path variable. Ids that do not parse cannot name a
// note, so they are reported as not found.
func noteID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, errs.NotFound("Note")
	}
	return id, nil
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.Validation("Invalid request body")
	}
	return nil
}
