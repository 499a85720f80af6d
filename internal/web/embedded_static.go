package web

import (
	"bytes"
	"crypto/md5"
	"embed"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tdewolff/minify/v2"
)

//go:embed static/*
var EmbeddedStaticFS embed.FS

// staticAsset is an embedded file prepared for serving
type staticAsset struct {
	content     []byte
	contentType string
	version     string
}

// staticAssets holds the embedded static files, minified where possible
type staticAssets struct {
	files map[string]*staticAsset
}

// loadStaticAssets reads every embedded static file, minifies css and js
// and computes a short content hash used to bust browser caches.
func loadStaticAssets(m *minify.M) (*staticAssets, error) {
	assets := &staticAssets{files: make(map[string]*staticAsset)}
	err := fs.WalkDir(EmbeddedStaticFS, "static", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		content, err := fs.ReadFile(EmbeddedStaticFS, p)
		if err != nil {
			return err
		}
		contentType := getContentType(p)
		if strings.HasPrefix(contentType, "text/css") || strings.HasPrefix(contentType, "application/javascript") {
			var buf bytes.Buffer
			mediatype := strings.SplitN(contentType, ";", 2)[0]
			if merr := m.Minify(mediatype, &buf, bytes.NewReader(content)); merr != nil {
				log.Printf("[WEB]: Warning: failed to minify %s: %v", p, merr)
			} else {
				content = buf.Bytes()
			}
		}
		sum := md5.Sum(content)
		name := strings.TrimPrefix(p, "static/")
		assets.files[name] = &staticAsset{
			content:     content,
			contentType: contentType,
			version:     hex.EncodeToString(sum[:])[:8],
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk embedded static files: %w", err)
	}
	return assets, nil
}

// URL returns the versioned URL of a static file, or the plain path if it is unknown
func (a *staticAssets) URL(name string) string {
	if asset, ok := a.files[name]; ok {
		return "/static/" + name + "?v=" + asset.version
	}
	return "/static/" + name
}

// Handler returns a Gin handler for serving embedded static files under prefix
func (a *staticAssets) Handler(prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimPrefix(path.Clean(strings.TrimPrefix(c.Request.URL.Path, prefix)), "/")
		asset, ok := a.files[name]
		if !ok {
			// Static directory has no index file, return 404
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		c.Header("Cache-Control", "public, max-age=3600") // browser caches an hour
		c.Header("ETag", `"`+asset.version+`"`)
		if c.GetHeader("If-None-Match") == `"`+asset.version+`"` {
			c.Status(http.StatusNotModified)
			return
		}
		c.Data(http.StatusOK, asset.contentType, asset.content)
	}
}

// getContentType returns the appropriate MIME type for common file extensions
func getContentType(filePath string) string {
	switch path.Ext(filePath) {
	case ".ico":
		return "image/x-icon"
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return "application/javascript; charset=utf-8"
	case ".png":
		return "image/png"
	case ".svg":
		return "image/svg+xml"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
