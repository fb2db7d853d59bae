package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/voicedraft/voicedraft/internal/fault"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeFailure maps the failure taxonomy onto HTTP statuses. The kind and
// vendor message travel to the caller unchanged; nothing is downgraded to a
// placeholder value.
func writeFailure(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	kindName := "internal"

	if kind, ok := fault.KindOf(err); ok {
		kindName = kind.String()
		switch kind {
		case fault.KindInvalidInput, fault.KindConfiguration:
			status = http.StatusBadRequest
		case fault.KindFetch, fault.KindProvider, fault.KindUnexpectedResponse:
			status = http.StatusBadGateway
		case fault.KindTimeout:
			status = http.StatusGatewayTimeout
		}
	}

	writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"kind":  kindName,
	})
}
