package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/forgo/gildr/internal/model"
)

// maxBodyBytes caps request bodies; the largest is a roster update
const maxBodyBytes = 1 << 20

var errTrailingData = errors.New("request body holds more than one JSON value")

// WriteJSON sends data as application/json with status. A nil data sends
// only the status line and headers.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError sends a problem response
func WriteError(w http.ResponseWriter, p *model.ProblemDetails) {
	p.WriteJSON(w)
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// DecodeJSON reads exactly one JSON value into v. Unknown fields, trailing
// values and bodies over maxBodyBytes are errors.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes+1))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errTrailingData
	}
	return nil
}

// pathID parses the {id} path segment, answering 400 itself when the
// segment is not a UUID
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		WriteError(w, model.NewBadRequestError("id must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}
