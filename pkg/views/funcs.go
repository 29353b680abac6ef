package views

import (
	"bytes"
	"html/template"
	"time"

	"github.com/yuin/goldmark"

	"github.com/doodlesbykumbi/petition-in-go/pkg/registration"
)

// DateFormat is dd.MM.yyyy
const DateFormat = "02.01.2006"

// Raw HTML in comments is dropped by goldmark's default renderer
var markdownRenderer = goldmark.New()

func funcs() template.FuncMap {
	return template.FuncMap{
		"formatDate": formatDate,
		"markdown":   markdown,
		"isInvalid":  registration.IsInvalid,
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateFormat)
}

func markdown(source string) template.HTML {
	if source == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(buf.String())
}
