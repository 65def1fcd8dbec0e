package documents

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugh/ritum/internal/database/models"
	"github.com/hugh/ritum/pkg/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleRequest(templateID string) Request {
	return Request{
		TemplateID: templateID,
		ClientData: ClientData{
			FullName:      "Maria da Silva",
			CPF:           "529.982.247-25",
			Nationality:   "brasileira",
			MaritalStatus: "casada",
			Profession:    "engenheira",
			Address: &models.Address{
				Street: "Rua das Flores",
				Number: "100",
				City:   "São Paulo",
				State:  "SP",
			},
		},
		CaseDetails: CaseDetails{ProcessNumber: "1000550-94.2023.8.26.0100", CourtName: "TJSP"},
	}
}

var sampleLawyer = LawyerData{Name: "Dr. João Silva", OABNumber: "123456", OABState: "SP"}

func TestTemplates(t *testing.T) {
	list := Templates()
	require.Len(t, list, 3)
	assert.Equal(t, "PROCURACAO_AD_JUDICIA", list[0].ID)
	assert.Equal(t, "Contrato de Honorários", list[1].Name)

	list[0].ID = "mutated"
	assert.Equal(t, "PROCURACAO_AD_JUDICIA", Templates()[0].ID)

	for _, tmpl := range Templates() {
		_, err := DefaultTemplates().Open(tmpl.file)
		assert.NoError(t, err, tmpl.file)
	}
}

func TestBuildContext(t *testing.T) {
	req := sampleRequest("PROCURACAO_AD_JUDICIA")
	ctx, err := BuildContext(req.ClientData, sampleLawyer, req.CaseDetails)
	require.NoError(t, err)

	assert.Equal(t, "Maria da Silva", ctx["client_fullName"])
	assert.Equal(t, "casada", ctx["client_maritalStatus"])
	assert.Equal(t, "São Paulo", ctx["client_address_city"])
	assert.Equal(t, "Dr. João Silva", ctx["lawyer_name"])
	assert.Equal(t, "123456", ctx["lawyer_oab_number"])
	assert.Equal(t, "123456/SP", ctx["lawyer_oab"])
	assert.Equal(t, "TJSP", ctx["case_courtName"])
	assert.NotContains(t, ctx, "client_email")
}

func TestFileName(t *testing.T) {
	re := regexp.MustCompile(`^CONTRATO_HONORARIOS_José_da_Silva_[0-9a-f]{8}\.pdf$`)

	name, err := fileName("CONTRATO_HONORARIOS", "  José da\tSilva ", "pdf")
	require.NoError(t, err)
	assert.Regexp(t, re, name)

	other, err := fileName("CONTRATO_HONORARIOS", "José da Silva", "pdf")
	require.NoError(t, err)
	assert.NotEqual(t, name, other)

	name, err = fileName("X", "../../etc/passwd", "html")
	require.NoError(t, err)
	assert.NotContains(t, name, "/")
	assert.True(t, strings.HasPrefix(name, "X_etcpasswd_"))

	name, err = fileName("X", "", "html")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "X_cliente_"))
}

func TestGenerator_Generate(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)
	gen := NewGenerator(DefaultTemplates(), HTMLRenderer{}, store, discardLogger())

	res, err := gen.Generate(context.Background(), sampleRequest("PROCURACAO_AD_JUDICIA"), sampleLawyer)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.FileName, "PROCURACAO_AD_JUDICIA_Maria_da_Silva_"))
	assert.True(t, strings.HasSuffix(res.FileName, ".html"))
	assert.Equal(t, PublicPrefix+"/"+res.FileName, res.URL)

	body, err := os.ReadFile(filepath.Join(dir, res.FileName))
	require.NoError(t, err)
	content := string(body)
	assert.Contains(t, content, "Maria da Silva")
	assert.Contains(t, content, "123456/SP")
	assert.Contains(t, content, "1000550-94.2023.8.26.0100")
	assert.NotContains(t, content, "<no value>")
}

func TestGenerator_EscapesInput(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	gen := NewGenerator(DefaultTemplates(), HTMLRenderer{}, store, discardLogger())

	req := sampleRequest("DECLARACAO_HIPOSSUFICIENCIA")
	req.ClientData.Profession = "<script>alert(1)</script>"

	res, err := gen.Generate(context.Background(), req, sampleLawyer)
	require.NoError(t, err)

	body, err := os.ReadFile(filepath.Join(store.Dir(), res.FileName))
	require.NoError(t, err)
	assert.NotContains(t, string(body), "<script>")
}

func TestGenerator_TemplateNotFound(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	t.Run("unknown id", func(t *testing.T) {
		gen := NewGenerator(DefaultTemplates(), HTMLRenderer{}, store, discardLogger())
		_, err := gen.Generate(context.Background(), sampleRequest("TESTAMENTO"), sampleLawyer)
		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})

	t.Run("missing file", func(t *testing.T) {
		fsys := fstest.MapFS{"contrato_honorarios.html": {Data: []byte("<p>{{.client_fullName}}</p>")}}
		gen := NewGenerator(fsys, HTMLRenderer{}, store, discardLogger())

		_, err := gen.Generate(context.Background(), sampleRequest("PROCURACAO_AD_JUDICIA"), sampleLawyer)
		assert.ErrorIs(t, err, ErrTemplateNotFound)

		_, err = gen.Generate(context.Background(), sampleRequest("CONTRATO_HONORARIOS"), sampleLawyer)
		assert.NoError(t, err)
	})
}

type failingRenderer struct{ HTMLRenderer }

func (failingRenderer) Render(context.Context, []byte) ([]byte, error) {
	return nil, ErrRendererUnavailable
}

func TestGenerator_RendererError(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)
	gen := NewGenerator(DefaultTemplates(), failingRenderer{}, store, discardLogger())

	_, err = gen.Generate(context.Background(), sampleRequest("PROCURACAO_AD_JUDICIA"), sampleLawyer)
	assert.True(t, errors.Is(err, ErrRendererUnavailable))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewRenderer(t *testing.T) {
	assert.Equal(t, "html", NewRenderer("html").Extension())
	r := NewRenderer("pdf")
	assert.Equal(t, "pdf", r.Extension())
	assert.Equal(t, "application/pdf", r.ContentType())
}

func TestCleanupDir(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	old := filepath.Join(dir, "old.pdf")
	fresh := filepath.Join(dir, "fresh.pdf")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(fresh, []byte("y"), 0o644))
	require.NoError(t, os.Chtimes(old, now.Add(-40*24*time.Hour), now.Add(-40*24*time.Hour)))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	removed, err := CleanupDir(dir, 30*24*time.Hour, now, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
	assert.DirExists(t, filepath.Join(dir, "nested"))

	removed, err = CleanupDir(filepath.Join(dir, "missing"), time.Hour, now, discardLogger())
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestS3Store_Save(t *testing.T) {
	var (
		mu        sync.Mutex
		gotPath   string
		gotType   string
		gotBody   string
		gotMethod string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotMethod, gotPath, gotType, gotBody = r.Method, r.URL.Path, r.Header.Get("Content-Type"), string(body)
		mu.Unlock()
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store, err := NewS3Store(context.Background(), config.DocumentsConfig{
		S3Bucket:    "ritum-docs",
		S3Region:    "us-east-1",
		S3Endpoint:  srv.URL,
		S3AccessKey: "test",
		S3SecretKey: "test",
	})
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "doc.pdf", []byte("%PDF-1.4 body"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/ritum-docs/doc.pdf", url)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/ritum-docs/doc.pdf", gotPath)
	assert.Equal(t, "application/pdf", gotType)
	assert.Contains(t, gotBody, "%PDF-1.4 body")
}

func TestNewStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	store, err := NewStore(context.Background(), config.DocumentsConfig{Storage: "local", Dir: dir})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)
	assert.DirExists(t, dir)

	_, err = NewStore(context.Background(), config.DocumentsConfig{Storage: "ftp"})
	assert.Error(t, err)
}
