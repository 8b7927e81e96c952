package main

// Notes:
// - Scripts are checked for content, not executed: the flags and values
//   they offer must match the real FlagSets.

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-mdtheme"
)

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell Shell
		want  []string
	}{
		{ShellBash, []string{
			"complete -o filenames -o bashdefault -F _mdtheme mdtheme",
			"md-to-pdf)",
			"--engine) COMPREPLY=($(compgen -W \"rod chromedp wkhtmltopdf\"",
			"--asset-path) COMPREPLY=($(compgen -d",
			"!*.@(md|markdown)",
			"!*.@(html|htm)",
		}},
		{ShellZsh, []string{
			"#compdef mdtheme",
			"compdef _mdtheme mdtheme",
			"'(-o --output)'{-o,--output}",
			"'--engine[",
			":engine:(rod chromedp wkhtmltopdf)'",
			"_files -g \"*.md *.markdown\"",
		}},
		{ShellFish, []string{
			"complete -c mdtheme -f",
			"complete -c mdtheme -n __fish_use_subcommand -a md-to-pdf",
			"-l engine -x -a 'rod chromedp wkhtmltopdf'",
			"-l output -s o -r -F",
			"(__fish_complete_suffix .md)",
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.shell), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("%s script missing %q", tt.shell, want)
				}
			}
		})
	}
}

func TestGenerateCompletion_Unsupported(t *testing.T) {
	t.Parallel()

	err := GenerateCompletion(&bytes.Buffer{}, "tcsh")
	if !errors.Is(err, ErrUnsupportedShell) {
		t.Errorf("error = %v, want %v", err, ErrUnsupportedShell)
	}
}

func TestGetCommands_FlagsFollowFlagSets(t *testing.T) {
	t.Parallel()

	flagsOf := func(name string) map[string]flagDef {
		for _, cmd := range getCommands() {
			if cmd.Name == name {
				m := make(map[string]flagDef)
				for _, f := range cmd.Flags {
					m[f.Long] = f
				}
				return m
			}
		}
		t.Fatalf("command %s not registered", name)
		return nil
	}

	pdf := flagsOf(string(mdtheme.CommandMarkdownToPDF))
	html := flagsOf(string(mdtheme.CommandMarkdownToHTML))

	if _, ok := html["engine"]; ok {
		t.Error("md-to-html offers --engine")
	}
	if f := pdf["engine"]; f.Type != flagEnum || len(f.Values) != len(mdtheme.Engines()) {
		t.Errorf("--engine = %+v, want enum of engines", f)
	}
	if f := pdf["no-images"]; f.Type != flagBool {
		t.Errorf("--no-images type = %v, want bool", f.Type)
	}
	if f := html["config"]; f.Type != flagFile || f.Short != "c" {
		t.Errorf("--config = %+v, want file flag with -c", f)
	}
	if f := html["code-style"]; f.Type != flagEnum || f.Values[0] != "none" {
		t.Errorf("--code-style = %+v, want enum starting with none", f)
	}
}

func TestZshEscape(t *testing.T) {
	t.Parallel()

	got := zshEscape("page size: A4 [default]'s")
	want := `page size\: A4 \[default\]'\''s`
	if got != want {
		t.Errorf("zshEscape() = %q, want %q", got, want)
	}
}

func TestRunCompletion_NoArgs(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv(nil)
	if err := runCompletion(nil, env); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout.String(), "Usage: mdtheme completion <shell>") {
		t.Errorf("stdout = %q", stdout)
	}
}
