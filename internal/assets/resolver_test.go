package assets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewAssetResolver(t *testing.T) {
	t.Parallel()

	r, err := NewAssetResolver("")
	if err != nil {
		t.Fatalf("NewAssetResolver(\"\") error = %v", err)
	}
	if r.HasCustomLoader() {
		t.Error("HasCustomLoader() = true without a custom path")
	}

	r, err = NewAssetResolver(t.TempDir())
	if err != nil {
		t.Fatalf("NewAssetResolver(dir) error = %v", err)
	}
	if !r.HasCustomLoader() {
		t.Error("HasCustomLoader() = false with a custom path")
	}

	if _, err := NewAssetResolver(filepath.Join(t.TempDir(), "nope")); !errors.Is(err, ErrInvalidBasePath) {
		t.Errorf("NewAssetResolver(missing) error = %v, want ErrInvalidBasePath", err)
	}
}

func TestAssetResolver_CustomFirstWithFallback(t *testing.T) {
	t.Parallel()

	r, err := NewAssetResolver(newAssetDir(t, "", DefaultTemplateName))
	if err != nil {
		t.Fatal(err)
	}

	tmpl, err := r.LoadTemplate(DefaultTemplateName)
	if err != nil {
		t.Fatalf("LoadTemplate() error = %v", err)
	}
	if !strings.Contains(tmpl, "custom "+DefaultTemplateName) {
		t.Errorf("LoadTemplate() did not prefer the custom template: %q", tmpl)
	}

	style, err := r.LoadStyle(PrintStyleName)
	if err != nil {
		t.Fatalf("LoadStyle() error = %v", err)
	}
	embedded, _ := LoadStyle(PrintStyleName)
	if style != embedded {
		t.Error("LoadStyle() did not fall back to the embedded print style")
	}
}

func TestAssetResolver_ValidationErrorsNotFallenBack(t *testing.T) {
	t.Parallel()

	r, err := NewAssetResolver(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.LoadStyle("../print"); !errors.Is(err, ErrInvalidAssetName) {
		t.Errorf("LoadStyle() error = %v, want ErrInvalidAssetName", err)
	}
}

func TestAssetResolver_Resolve(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cssPath := filepath.Join(dir, "extra.css")
	if err := os.WriteFile(cssPath, []byte("body{margin:0}"), 0o644); err != nil {
		t.Fatal(err)
	}
	htmlPath := filepath.Join(dir, "page.html")
	if err := os.WriteFile(htmlPath, []byte("{{.Body}}"), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := NewAssetResolver("")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		resolve func(string) (string, error)
		input   string
		want    string
		wantErr error
	}{
		{name: "empty style", resolve: r.ResolveStyle, input: "", want: ""},
		{name: "style path", resolve: r.ResolveStyle, input: cssPath, want: "body{margin:0}"},
		{name: "missing style path", resolve: r.ResolveStyle, input: filepath.Join(dir, "no.css"), wantErr: ErrStyleNotFound},
		{name: "template path", resolve: r.ResolveTemplate, input: htmlPath, want: "{{.Body}}"},
		{name: "missing template path", resolve: r.ResolveTemplate, input: filepath.Join(dir, "no.html"), wantErr: ErrTemplateNotFound},
		{name: "unknown template name", resolve: r.ResolveTemplate, input: "light", wantErr: ErrTemplateNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.resolve(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("resolve(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr == nil && got != tt.want {
				t.Errorf("resolve(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	def, err := r.ResolveTemplate("")
	if err != nil || !strings.Contains(def, "{{.Background}}") {
		t.Errorf("ResolveTemplate(\"\") = (%d bytes, %v), want the default skeleton", len(def), err)
	}
}

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	if !isNotFoundError(ErrStyleNotFound) || !isNotFoundError(ErrTemplateNotFound) {
		t.Error("isNotFoundError() = false for not-found sentinels")
	}
	if isNotFoundError(ErrInvalidAssetName) || isNotFoundError(ErrAssetRead) {
		t.Error("isNotFoundError() = true for other errors")
	}
}
