package httpapi

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// respondJSON writes v as an application/json response. Encoding goes
// directly to the response writer.
func respondJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) error {
	return respondJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
