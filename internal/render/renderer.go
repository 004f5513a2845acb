package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"
)

// AlertTemplateName is the template used for DingTalk alert bodies.
const AlertTemplateName = "alert-dingtalk.md.tmpl"

const timeLayout = "2006-01-02 15:04:05"

//go:embed templates/*.tmpl
var embedded embed.FS

// Renderer executes named templates parsed once at construction.
type Renderer struct {
	t      *template.Template
	logger *zap.Logger
}

// NewDefault parses the templates embedded in the binary.
func NewDefault(logger *zap.Logger) (*Renderer, error) {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded templates: %w", err)
	}
	return New(sub, logger)
}

// NewFromDir parses templates from dir, which must provide every template the
// dispatcher renders.
func NewFromDir(dir string, logger *zap.Logger) (*Renderer, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("template dir is required")
	}
	return New(os.DirFS(dir), logger)
}

func New(fsys fs.FS, logger *zap.Logger) (*Renderer, error) {
	if fsys == nil {
		return nil, errors.New("template fs is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	t, err := template.New("root").Option("missingkey=error").Funcs(funcs()).ParseFS(fsys, "*.tmpl")
	if err != nil {
		logger.Error("template parsing failed", zap.Error(err))
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	if t.Lookup(AlertTemplateName) == nil {
		return nil, fmt.Errorf("template %q not found", AlertTemplateName)
	}

	return &Renderer{t: t, logger: logger}, nil
}

func (r *Renderer) Render(name string, data any) (string, error) {
	if r == nil || r.t == nil {
		return "", errors.New("renderer is not initialized")
	}

	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, name, data); err != nil {
		r.logger.Error("template execution failed",
			zap.String("template", name),
			zap.Error(err),
		)
		return "", err
	}

	return strings.TrimSpace(buf.String()), nil
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"datetime": func(t time.Time) string { return t.Format(timeLayout) },
		"oneline":  OneLine,
		"clean":    clean,
		"trim":     strings.TrimSpace,
	}
}

// OneLine drops control characters and folds line breaks and runs of
// whitespace into single spaces.
func OneLine(s string) string {
	return strings.Join(strings.Fields(clean(s)), " ")
}

// clean drops control characters other than newlines and tabs.
func clean(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
