package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/wearly/tryonbot/internal/config"
	"github.com/wearly/tryonbot/internal/domain"
)

// TryOnService calls the hosted try-on inference space. The space has
// exposed more than one request format over its lifetime, so two fixed
// shapes are tried in order, one attempt each, before giving up.
type TryOnService struct {
	baseURL    string
	httpClient *http.Client
}

func NewTryOnService(baseURL string) *TryOnService {
	return &TryOnService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: config.InferenceTimeout},
	}
}

// requestShape is one known request format of the inference space.
type requestShape struct {
	name string
	path string
	data func(person, garment string) []any
}

var requestShapes = []requestShape{
	{
		name: "canonical",
		path: "/run/predict",
		data: func(person, garment string) []any {
			// person, garment, seed, randomize seed
			return []any{person, garment, 0, true}
		},
	},
	{
		name: "simplified",
		path: "/api/predict",
		data: func(person, garment string) []any {
			return []any{person, garment}
		},
	},
}

// TryOn composites the garment onto the person and returns a reference to
// the result image. Both inputs must be local JPEG paths.
func (s *TryOnService) TryOn(ctx context.Context, personPath, garmentPath string) (string, error) {
	person, err := encodeImageDataURI(personPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInference, err)
	}
	garment, err := encodeImageDataURI(garmentPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInference, err)
	}

	var lastErr error
	for _, shape := range requestShapes {
		result, err := s.attempt(ctx, shape, person, garment)
		if err == nil {
			return result, nil
		}
		slog.Warn("try-on request shape failed", "shape", shape.name, "error", err)
		lastErr = err
	}
	return "", fmt.Errorf("%w: %v", domain.ErrInference, lastErr)
}

func (s *TryOnService) attempt(ctx context.Context, shape requestShape, person, garment string) (string, error) {
	payload, err := json.Marshal(map[string]any{"data": shape.data(person, garment)})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+shape.path, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("inference request: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var out struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(out.Data) == 0 {
		return "", fmt.Errorf("response has no data")
	}

	// A multi-element response is allowed; the first element is canonical.
	return extractResult(out.Data[0])
}

// extractResult pulls an image reference out of one response element, which
// may be a plain string, a file object, or a nested array of either.
func extractResult(raw json.RawMessage) (string, error) {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil && str != "" {
		return str, nil
	}

	var file struct {
		URL  string `json:"url"`
		Path string `json:"path"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &file); err == nil {
		switch {
		case file.URL != "":
			return file.URL, nil
		case file.Path != "":
			return file.Path, nil
		case file.Name != "":
			return file.Name, nil
		}
	}

	var nested []json.RawMessage
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 {
		return extractResult(nested[0])
	}

	return "", fmt.Errorf("unrecognized result shape: %s", string(raw))
}

func encodeImageDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data), nil
}
