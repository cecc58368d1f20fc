package destination_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/travelrec/internal/destination"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func datasetHandler(t *testing.T, doc any) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	}
}

func nestedJSON() map[string]any {
	return map[string]any{
		"countries": []map[string]any{
			{
				"name": "Japan",
				"cities": []map[string]any{
					{"name": "Tokyo, Japan", "imageUrl": "tokyo.jpg", "description": "Neon"},
				},
			},
		},
		"temples": []map[string]any{{"name": "Angkor Wat, Cambodia"}},
		"beaches": []map[string]any{{"name": "Copacabana Beach, Brazil"}},
	}
}

type stubSource struct {
	name string
	doc  *destination.Document
	err  error
}

func (s *stubSource) Name() string { return s.name }
func (s *stubSource) Fetch(_ context.Context) (*destination.Document, error) {
	return s.doc, s.err
}

func TestHTTPSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(datasetHandler(t, nestedJSON()))
	defer srv.Close()

	doc, err := destination.NewHTTPSource(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Countries, 1)
	assert.Equal(t, "tokyo.jpg", doc.Countries[0].Cities[0].ImageURL)
	assert.Len(t, doc.Temples, 1)
	assert.Len(t, doc.Beaches, 1)
}

func TestHTTPSource_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := destination.NewHTTPSource(srv.URL).Fetch(context.Background())
	require.Error(t, err)
}

func TestHTTPSource_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := destination.NewHTTPSource(srv.URL).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding")
}

func TestFileSource_Fetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "travel.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"cities":[{"city":"Toronto","country":"Canada"}]}`), 0o644))

	src := destination.NewFileSource(path)
	assert.Equal(t, path, src.Name())

	doc, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Cities, 1)
	assert.Equal(t, "Toronto", doc.Cities[0].City)
}

func TestFileSource_Missing(t *testing.T) {
	_, err := destination.NewFileSource("/nonexistent/travel.json").Fetch(context.Background())
	require.Error(t, err)
}

func TestLoader_Success(t *testing.T) {
	srv := httptest.NewServer(datasetHandler(t, nestedJSON()))
	defer srv.Close()

	l := destination.NewLoader(discardLogger(), destination.NewHTTPSource(srv.URL))
	records, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, destination.KindCity, records[0].Kind)
	assert.Equal(t, destination.KindTemple, records[1].Kind)
	assert.Equal(t, destination.KindBeach, records[2].Kind)
	assert.Equal(t, "America/Sao_Paulo", records[2].Timezone)
}

func TestLoader_PreservesSourceOrder(t *testing.T) {
	slow := &slowSource{
		stubSource: stubSource{name: "slow", doc: &destination.Document{
			Temples: []destination.Place{{Name: "Angkor Wat, Cambodia"}},
		}},
		delay: 50 * time.Millisecond,
	}
	fast := &stubSource{name: "fast", doc: &destination.Document{
		Cities: []destination.FlatCity{{City: "Sydney", Country: "Australia"}},
	}}

	records, err := destination.NewLoader(discardLogger(), slow, fast).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Angkor Wat, Cambodia", records[0].Name)
	assert.Equal(t, 1, records[0].ID)
	assert.Equal(t, "Sydney", records[1].City)
	assert.Equal(t, 2, records[1].ID)
}

func TestLoader_AnySourceFailureIsUnavailable(t *testing.T) {
	ok := &stubSource{name: "ok", doc: &destination.Document{}}
	bad := &stubSource{name: "bad", err: errors.New("connection refused")}

	records, err := destination.NewLoader(discardLogger(), ok, bad).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, destination.ErrDataUnavailable))
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestLoader_NilDocument(t *testing.T) {
	_, err := destination.NewLoader(discardLogger(), &stubSource{name: "nil"}).Load(context.Background())
	require.ErrorIs(t, err, destination.ErrDataUnavailable)
}

func TestLoader_NoSources(t *testing.T) {
	_, err := destination.NewLoader(discardLogger()).Load(context.Background())
	require.ErrorIs(t, err, destination.ErrDataUnavailable)
}

type slowSource struct {
	stubSource
	delay time.Duration
}

func (s *slowSource) Fetch(ctx context.Context) (*destination.Document, error) {
	select {
	case <-time.After(s.delay):
		return s.doc, s.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
