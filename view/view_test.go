package view

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diewo77/marina-admin/i18n"
)

func writeTemplates(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"layout.html":        `<html lang="{{lang}}">{{template "content" .}}</html>`,
		"partials/note.html": `{{define "note"}}<p>{{.}}</p>{{end}}`,
		"page.html":          `{{define "content"}}{{t "cancel"}} {{money .Cents}} {{template "note" "hi"}}{{end}}`,
	}
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRenderStatus(t *testing.T) {
	ResetForTests()
	SetBaseDir(writeTemplates(t))
	t.Cleanup(ResetForTests)

	for _, lang := range []string{"fr", "en"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(i18n.WithLang(req.Context(), lang))
		rec := httptest.NewRecorder()
		if err := RenderStatus(rec, req, http.StatusUnprocessableEntity, "page.html", map[string]any{"Cents": int64(12345)}); err != nil {
			t.Fatalf("render: %v", err)
		}
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("content type = %q", ct)
		}
		body := rec.Body.String()
		for _, want := range []string{`lang="` + lang + `"`, i18n.T(lang, "cancel"), "123.45 €", "<p>hi</p>"} {
			if !strings.Contains(body, want) {
				t.Errorf("%s body %q missing %q", lang, body, want)
			}
		}
	}
}

func TestRenderMissingTemplate(t *testing.T) {
	ResetForTests()
	SetBaseDir(t.TempDir())
	t.Cleanup(ResetForTests)

	rec := httptest.NewRecorder()
	if err := Render(rec, httptest.NewRequest(http.MethodGet, "/", nil), "nope/missing.html", nil); err == nil {
		t.Fatal("expected error for missing template")
	}
}

func TestDictFunc(t *testing.T) {
	dict := Funcs(httptest.NewRequest(http.MethodGet, "/", nil))["dict"].(func(...any) map[string]any)
	m := dict("Field", "status", "Errors", map[string]string{})
	if m["Field"] != "status" || len(m) != 2 {
		t.Errorf("dict = %v", m)
	}
	if dict("odd") != nil {
		t.Error("odd argument count should yield nil")
	}
}
