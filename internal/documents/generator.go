package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"strings"
	"unicode"

	"golang.org/x/sync/semaphore"

	"github.com/hugh/ritum/pkg/crypto"
)

// maxConcurrentRenders bounds how many Chromium instances run at once.
const maxConcurrentRenders = 2

type Request struct {
	TemplateID  string      `json:"templateId"`
	ClientData  ClientData  `json:"clientData"`
	CaseDetails CaseDetails `json:"caseDetails"`
}

type Result struct {
	URL      string `json:"documentUrl"`
	FileName string `json:"fileName"`
}

type Generator struct {
	templates fs.FS
	renderer  Renderer
	store     Store
	sem       *semaphore.Weighted
	logger    *slog.Logger
}

func NewGenerator(templates fs.FS, renderer Renderer, store Store, logger *slog.Logger) *Generator {
	return &Generator{
		templates: templates,
		renderer:  renderer,
		store:     store,
		sem:       semaphore.NewWeighted(maxConcurrentRenders),
		logger:    logger,
	}
}

// Generate fills the requested template for lawyer and stores the result
// under a unique file name.
func (g *Generator) Generate(ctx context.Context, req Request, lawyer LawyerData) (*Result, error) {
	tmpl, ok := lookup(req.TemplateID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, req.TemplateID)
	}

	src, err := fs.ReadFile(g.templates, tmpl.file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, tmpl.file)
		}
		return nil, fmt.Errorf("reading template: %w", err)
	}

	t, err := template.New(tmpl.file).Option("missingkey=zero").Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", tmpl.file, err)
	}

	data, err := BuildContext(req.ClientData, lawyer, req.CaseDetails)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("filling template %s: %w", tmpl.file, err)
	}

	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	out, err := g.renderer.Render(ctx, buf.Bytes())
	g.sem.Release(1)
	if err != nil {
		return nil, err
	}

	name, err := fileName(req.TemplateID, req.ClientData.FullName, g.renderer.Extension())
	if err != nil {
		return nil, err
	}

	url, err := g.store.Save(ctx, name, out, g.renderer.ContentType())
	if err != nil {
		return nil, err
	}

	g.logger.Info("document generated", "template", req.TemplateID, "file", name, "size", len(out))
	return &Result{URL: url, FileName: name}, nil
}

// fileName builds "<template>_<client name>_<random>.<ext>". Whitespace in
// the client name becomes underscores and anything outside letters, digits,
// '-' and '_' is dropped.
func fileName(templateID, clientName, ext string) (string, error) {
	suffix, err := crypto.RandomHex(4)
	if err != nil {
		return "", fmt.Errorf("generating file name: %w", err)
	}

	var b strings.Builder
	for _, r := range strings.Join(strings.Fields(clientName), "_") {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" {
		name = "cliente"
	}

	return fmt.Sprintf("%s_%s_%s.%s", templateID, name, suffix, ext), nil
}
