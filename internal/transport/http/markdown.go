package http

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// markdownRenderer converts the page's Markdown paragraphs to HTML. Results
// are cached per source string since the page copy is fixed.
type markdownRenderer struct {
	md    goldmark.Markdown
	cache sync.Map
}

func newMarkdownRenderer() *markdownRenderer {
	return &markdownRenderer{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM, extension.Typographer)),
	}
}

// render returns src as HTML. goldmark drops raw HTML from the source
// unless the unsafe renderer option is set.
func (m *markdownRenderer) render(src string) (template.HTML, error) {
	if src == "" {
		return "", nil
	}
	if cached, ok := m.cache.Load(src); ok {
		return cached.(template.HTML), nil
	}

	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	out := template.HTML(buf.String())
	m.cache.Store(src, out)
	return out, nil
}
