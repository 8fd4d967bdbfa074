// Package httpapi reúne as respostas JSON compartilhadas pelos handlers chi.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mateusmacedo/go-transit/pkg/application"
)

// RequestTimeout limita cada chamada de serviço feita por um handler.
const RequestTimeout = 10 * time.Second

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteJSON(ctx context.Context, w http.ResponseWriter, logger application.AppLogger, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		application.LogError(ctx, logger, "failed to encode response", err, map[string]interface{}{
			"status": status,
		})
	}
}

func WriteError(ctx context.Context, w http.ResponseWriter, logger application.AppLogger, status int, code string, err error) {
	WriteJSON(ctx, w, logger, status, ErrorBody{Code: code, Message: err.Error()})
}

// DecodeBody lê o corpo inteiro como JSON bruto.
func DecodeBody(r *http.Request) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}
