// Package httputil renders JSON responses and the shared error envelope.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "eventreg/pkg/domain-errors"
)

type errorResponse struct {
	Error       string   `json:"error"`
	Description string   `json:"error_description,omitempty"`
	Reason      string   `json:"reason,omitempty"`
	Fields      []string `json:"fields,omitempty"`
}

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates err into the JSON error envelope. Internal errors never
// expose their message.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	resp := errorResponse{Error: string(code)}
	if code != dErrors.CodeInternal {
		var de *dErrors.Error
		if errors.As(err, &de) {
			resp.Description = de.Message
			resp.Reason = de.Reason
			resp.Fields = de.Fields
		}
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), resp)
}
