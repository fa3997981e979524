package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wearly/tryonbot/internal/domain"
)

func writeTestImages(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	person := filepath.Join(dir, "person.jpg")
	garment := filepath.Join(dir, "garment.jpg")
	require.NoError(t, os.WriteFile(person, []byte("person-bytes"), 0o600))
	require.NoError(t, os.WriteFile(garment, []byte("garment-bytes"), 0o600))
	return person, garment
}

func decodeData(t *testing.T, r *http.Request) []any {
	t.Helper()
	var req struct {
		Data []any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
	return req.Data
}

func TestTryOn_CanonicalShape(t *testing.T) {
	t.Parallel()

	person, garment := writeTestImages(t)

	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		data := decodeData(t, r)
		require.Len(t, data, 4)
		assert.True(t, strings.HasPrefix(data[0].(string), "data:image/jpeg;base64,"))
		assert.True(t, strings.HasPrefix(data[1].(string), "data:image/jpeg;base64,"))
		json.NewEncoder(w).Encode(map[string]any{"data": []any{"https://space.example/file/r.png"}})
	}))
	defer srv.Close()

	svc := NewTryOnService(srv.URL)
	result, err := svc.TryOn(context.Background(), person, garment)

	require.NoError(t, err)
	assert.Equal(t, "https://space.example/file/r.png", result)
	assert.Equal(t, []string{"/run/predict"}, paths)
}

func TestTryOn_FallsBackToSimplifiedShapeOnce(t *testing.T) {
	t.Parallel()

	person, garment := writeTestImages(t)

	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/run/predict" {
			http.Error(w, "unknown endpoint", http.StatusNotFound)
			return
		}
		data := decodeData(t, r)
		require.Len(t, data, 2)
		json.NewEncoder(w).Encode(map[string]any{"data": []any{map[string]any{"url": "https://space.example/r.jpg"}}})
	}))
	defer srv.Close()

	svc := NewTryOnService(srv.URL)
	result, err := svc.TryOn(context.Background(), person, garment)

	require.NoError(t, err)
	assert.Equal(t, "https://space.example/r.jpg", result)
	assert.Equal(t, []string{"/run/predict", "/api/predict"}, paths)
}

func TestTryOn_BothShapesFail(t *testing.T) {
	t.Parallel()

	person, garment := writeTestImages(t)

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewTryOnService(srv.URL)
	_, err := svc.TryOn(context.Background(), person, garment)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInference)
	// One attempt per shape, nothing more.
	assert.Equal(t, 2, calls)
}

func TestTryOn_MultiElementResponseTakesFirst(t *testing.T) {
	t.Parallel()

	person, garment := writeTestImages(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []any{"/tmp/result.jpg", 42, "extra"}})
	}))
	defer srv.Close()

	svc := NewTryOnService(srv.URL)
	result, err := svc.TryOn(context.Background(), person, garment)

	require.NoError(t, err)
	assert.Equal(t, "/tmp/result.jpg", result)
}

func TestTryOn_MissingInputIsInferenceError(t *testing.T) {
	t.Parallel()

	svc := NewTryOnService("http://127.0.0.1:0")
	_, err := svc.TryOn(context.Background(), "/does/not/exist.jpg", "/also/missing.jpg")

	assert.ErrorIs(t, err, domain.ErrInference)
}

func TestExtractResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain string", raw: `"/tmp/r.jpg"`, want: "/tmp/r.jpg"},
		{name: "file object url", raw: `{"url":"https://x/r.png","path":"/p"}`, want: "https://x/r.png"},
		{name: "file object path", raw: `{"path":"/tmp/out.png"}`, want: "/tmp/out.png"},
		{name: "file object name", raw: `{"name":"out.png"}`, want: "out.png"},
		{name: "nested array", raw: `[{"url":"https://x/a.png"},{"url":"https://x/b.png"}]`, want: "https://x/a.png"},
		{name: "number", raw: `42`, wantErr: true},
		{name: "empty object", raw: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractResult(json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
