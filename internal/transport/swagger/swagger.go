package swagger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	httpSwagger "github.com/swaggo/http-swagger"
)

// LoadDocument reads the OpenAPI document and checks it is well formed.
func LoadDocument(ctx context.Context, path string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document %s: %w", path, err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document %s: %w", path, err)
	}
	return doc, nil
}

// SpecHandler serves the loaded document as JSON.
func SpecHandler(doc *openapi3.T) http.Handler {
	body, err := json.Marshal(doc)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err != nil {
			http.Error(w, "openapi document unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	})
}

// Handler serves Swagger UI over the document published at specURL.
func Handler(specURL string) http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL(specURL),
	)
}
