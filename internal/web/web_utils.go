package web

import (
	"bytes"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-while/go-pugtodo/internal/config"
	"github.com/go-while/go-pugtodo/internal/models"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
)

// TemplateData represents common template data
type TemplateData struct {
	Title       string
	AppVersion  string
	CurrentTime string
	StyleURL    string
}

// ListPageData represents data for the item list page
type ListPageData struct {
	TemplateData
	Items     []*models.Item
	MaxLength int
}

// UpdatePageData represents data for the edit page. Item is nil when ItemID matched nothing.
type UpdatePageData struct {
	TemplateData
	ItemID    string
	Item      *models.Item
	MaxLength int
}

// ErrorPageData represents data for the error page
type ErrorPageData struct {
	TemplateData
	StatusCode int
	Error      string
}

// getBaseTemplateData creates a TemplateData struct with common information
func (s *WebServer) getBaseTemplateData(title string) TemplateData {
	return TemplateData{
		Title:       title,
		AppVersion:  config.AppVersion,
		CurrentTime: time.Now().Format("2006-01-02 15:04:05"),
		StyleURL:    s.static.URL("style.css"),
	}
}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.Add("text/html", &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	return m
}

// renderTemplate renders page inside the base layout with the given status code
func (s *WebServer) renderTemplate(c *gin.Context, status int, page string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.Execute(&buf, page, data); err != nil {
		log.Printf("[WEB]: Error rendering template %s: %v", page, err)
		c.String(http.StatusInternalServerError, "Template error")
		return
	}
	body := buf.Bytes()
	if s.minifier != nil {
		var out bytes.Buffer
		if err := s.minifier.Minify("text/html", &out, bytes.NewReader(body)); err != nil {
			log.Printf("[WEB]: Warning: failed to minify %s: %v", page, err)
		} else {
			body = out.Bytes()
		}
	}
	c.Data(status, "text/html; charset=utf-8", body)
}

// statusForError maps an error kind to the HTTP status returned to the client
func statusForError(err error) int {
	switch models.KindOf(err) {
	case models.KindInvalidInput, models.KindInvalidID:
		return http.StatusBadRequest
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// renderError answers a failed request with the status of its error kind,
// as JSON {"message": ...} for JSON clients and as the error page otherwise.
func (s *WebServer) renderError(c *gin.Context, err error) {
	status := statusForError(err)
	message := models.Message(err)
	log.Printf("[WEB]: %s %s: %d %v", c.Request.Method, c.Request.URL.Path, status, err)

	if wantsJSON(c) {
		c.JSON(status, gin.H{"message": message})
		return
	}
	data := ErrorPageData{
		TemplateData: s.getBaseTemplateData(http.StatusText(status)),
		StatusCode:   status,
		Error:        message,
	}
	s.renderTemplate(c, status, "error.html", data)
}

// wantsJSON reports whether the client sent or prefers JSON
func wantsJSON(c *gin.Context) bool {
	if strings.Contains(c.ContentType(), "json") {
		return true
	}
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}
