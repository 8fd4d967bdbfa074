package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mateusmacedo/go-transit/internal/config"
	zapAdapter "github.com/mateusmacedo/go-transit/pkg/infrastructure/zaplogger/adapter"
)

func testConfig(dir string) *config.Config {
	return &config.Config{
		Data: config.DataConfig{
			Driver:         config.DataDriverFile,
			Dir:            dir,
			PersonsFile:    "personnes.json",
			TitlesFile:     "titres.json",
			ComplaintsFile: "reclamations.json",
		},
		Pricing: config.PricingConfig{TicketPrice: 50, CardBasePrice: 5000},
		Events:  config.EventsConfig{Driver: config.EventsDriverMemory},
		HTTP:    config.HTTPConfig{ListenAddr: ":0"},
		Logging: config.LoggingConfig{Level: "error", Encoding: "json"},
	}
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func TestApplication_ServesSlicesAndMetrics(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	logger := zapAdapter.NewZapAppLoggerFrom(zap.NewNop())

	app, err := newApplication(ctx, testConfig(dir), logger)
	require.NoError(t, err)
	router := newRouter(app)

	birthYear := time.Now().Year() - 20
	rec := serve(router, http.MethodPost, "/persons", fmt.Sprintf(
		`{"type":"Rider","data":{"name":"Lea","familyName":"Moreau","birthDate":"%d-06-01","hasHandicap":false}}`, birthYear))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = serve(router, http.MethodPost, "/titles/cards", `{"personId":"`+created.Data.ID+`","payment":"CARTE"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"JUNIOR"`)
	assert.Contains(t, rec.Body.String(), `"prix":3500`)

	rec = serve(router, http.MethodPost, "/complaints",
		`{"personId":"`+created.Data.ID+`","description":"card reader broken","type":"TECHNIQUE"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = serve(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `transit_domain_events_total{event="PersonSaved"} 1`)
	assert.Contains(t, body, `transit_domain_events_total{event="TitleIssued"} 1`)
	assert.Contains(t, body, `transit_domain_events_total{event="ComplaintFiled"} 1`)
	assert.Contains(t, body, `route="/titles/cards",status="201"`)

	require.NoError(t, app.Close())
}

func TestListCommand_PrintsStoredCollections(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg = testConfig(dir)

	app, err := newApplication(ctx, cfg, zapAdapter.NewZapAppLoggerFrom(zap.NewNop()))
	require.NoError(t, err)
	router := newRouter(app)
	rec := serve(router, http.MethodPost, "/persons",
		`{"type":"Employee","data":{"name":"Rui","familyName":"Costa","birthDate":"1970-03-04","hasHandicap":false,"matricule":"M-7","fonction":"CHAUFFEUR"}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NoError(t, app.Close())

	tests := []struct {
		arg  string
		want string
	}{
		{"persons", "Rui Costa"},
		{"titles", "No titles found."},
		{"complaints", "No complaints found."},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			var out bytes.Buffer
			cmd := listCmd()
			cmd.SetOut(&out)
			cmd.SetArgs([]string{tt.arg})
			cmd.SetContext(ctx)

			require.NoError(t, cmd.Execute())
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestListCommand_RejectsUnknownCollection(t *testing.T) {
	cfg = testConfig(t.TempDir())

	cmd := listCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"routes"})
	assert.Error(t, cmd.Execute())
}
