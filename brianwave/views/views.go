// brianwave/views/views.go
package views

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/joshua-sigston/brianwave/brianwave/services/identity"
	"github.com/joshua-sigston/brianwave/brianwave/sources/psql/models"
	"github.com/joshua-sigston/brianwave/brianwave/utils/logging"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var files embed.FS

var pages = template.Must(template.ParseFS(files, "templates/*.html"))

type PageData struct {
	Title   string
	User    *identity.User
	Error   string
	Success string
	Notes   []models.Note
	Note    *models.Note
}

// RenderString renders a page to a string so handlers can cache the result.
func RenderString(name string, data PageData) (string, error) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func Render(w http.ResponseWriter, name string, data PageData) {
	html, err := RenderString(name, data)
	if err != nil {
		logging.ErrorLogger.Error("template render failed", zap.String("page", name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	WriteHTML(w, html)
}

func WriteHTML(w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}
