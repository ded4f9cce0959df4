package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"fjacquet/revol-ver/internal/harparser"
	"fjacquet/revol-ver/internal/logging"
	"fjacquet/revol-ver/internal/models"
	"fjacquet/revol-ver/internal/revolutapi"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTrace = `{"log":{"entries":[{"request":{
	"url":"https://app.revolut.com/api/retail/user/current/transactions/last?count=20&internalPocketId=pocket-123",
	"headers":[{"name":"cookie","value":"session=abc"},{"name":"x-device-id","value":"device-1"}],
	"queryString":[{"name":"internalPocketId","value":"pocket-123"}]}}]}}`

// TestWebSource_EndToEnd runs the real extractor and API client against a fake server.
func TestWebSource_EndToEnd(t *testing.T) {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/api/retail/user/current/transactions/last", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("cookie") != "session=abc" || r.URL.Query().Get("internalPocketId") != "pocket-123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"unauthorized"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]models.RawTransaction{
			record("leg-feb", inFebruary),
			record("leg-jan", time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)),
		})
	})
	server := httptest.NewServer(router)
	defer server.Close()

	tracePath := filepath.Join(t.TempDir(), models.TraceFileName)
	require.NoError(t, os.WriteFile(tracePath, []byte(testTrace), 0600))

	logger := logging.NewMockLogger()
	client := revolutapi.NewClient(revolutapi.Options{BaseURL: server.URL, Location: time.UTC}, logger)
	src := NewWebSource(harparser.NewExtractor(logger), client, tracePath, feb2024, 2, logger)

	result, err := newTestPipeline(logger).Run(context.Background(), src, nil, feb2024)
	require.NoError(t, err)
	assert.Equal(t, []string{"leg-feb"}, result.AcceptedLegIDs())
	assert.Equal(t, []string{"leg-jan"}, result.OutOfPeriod)
}

func TestWebSource_AllModeOverlappingPages(t *testing.T) {
	var (
		mu      sync.Mutex
		cutoffs []string
	)
	router := chi.NewRouter()
	router.Get("/api/retail/user/current/transactions/last", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		cutoffs = append(cutoffs, r.URL.Query().Get("to"))
		mu.Unlock()
		// A quiet account: every cutoff returns the same latest records.
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]models.RawTransaction{
			record("leg-feb", inFebruary),
			record("leg-jan", time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)),
		})
	})
	server := httptest.NewServer(router)
	defer server.Close()

	tracePath := filepath.Join(t.TempDir(), models.TraceFileName)
	require.NoError(t, os.WriteFile(tracePath, []byte(testTrace), 0600))

	logger := logging.NewMockLogger()
	client := revolutapi.NewClient(revolutapi.Options{BaseURL: server.URL, Location: time.UTC}, logger)
	src := NewWebSource(harparser.NewExtractor(logger), client, tracePath, models.AllPeriod(), 1, logger)
	src.now = func() time.Time { return time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC) }

	result, err := newTestPipeline(logger).Run(context.Background(), src, nil, models.AllPeriod())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, cutoffs, 12)
	assert.Len(t, cutoffs, len(uniqueStrings(cutoffs)), "each bucket is requested once")
	assert.Equal(t, []string{"leg-feb", "leg-jan"}, result.AcceptedLegIDs())
	assert.Equal(t, 2*len(cutoffs), result.Stats.Total)
	assert.Equal(t, result.Stats.Total-2, result.Stats.Duplicates)
	assert.Empty(t, result.Invalid)
}

func uniqueStrings(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
