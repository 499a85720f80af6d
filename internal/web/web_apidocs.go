package web

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gin-gonic/gin"
	"github.com/go-while/go-pugtodo/internal/config"
)

//go:embed openapi.yaml
var apiDocsYAML []byte

// LoadAPIDocs loads and validates the embedded OpenAPI document
func LoadAPIDocs(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(apiDocsYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	if config.AppVersion != "" && config.AppVersion != "-unset-" {
		doc.Info.Version = config.AppVersion
	}
	return doc, nil
}

// apiDocsHandler serves the OpenAPI document as JSON
func (s *WebServer) apiDocsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.apiDocs)
}
