package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	zapAdapter "github.com/mateusmacedo/go-transit/pkg/infrastructure/zaplogger/adapter"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), rec, zapAdapter.NewZapAppLoggerFrom(zap.NewNop()),
		http.StatusUnprocessableEntity, "no_applicable_discount", errors.New("no discount"))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"code":"no_applicable_discount","message":"no discount"}`, rec.Body.String())
}

func TestDecodeBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a": 1}`))
	raw, err := DecodeBody(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(raw))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	_, err = DecodeBody(req)
	assert.Error(t, err)
}
