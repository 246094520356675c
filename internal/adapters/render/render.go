// Package render writes a conversation out as a standalone HTML story page.
package render

import (
	"bytes"
	_ "embed"
	"html/template"
	"os"

	"conversationalist/internal/domain"
)

//go:embed story.html.tmpl
var storyTemplate string

// HTMLRenderer renders conversations with the embedded story template.
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer parses the embedded template.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.New("story").Parse(storyTemplate)
	if err != nil {
		return nil, err
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

// Render writes the story page to path and returns that path. The page is
// rendered fully in memory first so a template failure leaves no partial
// file behind.
func (r *HTMLRenderer) Render(conv *domain.Conversation, path string) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, conv); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
