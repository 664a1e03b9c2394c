package api

import (
	"encoding/json"
	"net/http"
)

// WriteJSON encodes v as JSON with the given status. Encoding failures are
// swallowed: headers are already out by then and the connection is done.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
