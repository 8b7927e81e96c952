package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mdtheme"
	"github.com/alnah/go-mdtheme/internal/htmltree"
	"github.com/alnah/go-mdtheme/internal/pipeline"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota
	flagBool
	flagEnum // predefined values
	flagFile // file, optionally filtered by extension
	flagDir
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long  string
	Short string
	Type  flagType
	Desc  string
	// Values holds enum values, or file extensions for flagFile.
	Values []string
}

// commandDef describes a command for completion.
type commandDef struct {
	Name  string
	Desc  string
	Flags []flagDef
	// Args lists fixed positional values; InputExts filters positional files.
	Args      []string
	InputExts []string
}

type completionMeta struct {
	Values []string
	Exts   []string
	IsFile bool
	IsDir  bool
}

// flagCompletionMeta holds completion hints. Names, types and descriptions
// come from the FlagSet.
func flagCompletionMeta() map[string]completionMeta {
	return map[string]completionMeta{
		"page-size":   {Values: mdtheme.PageSizes()},
		"engine":      {Values: mdtheme.Engines()},
		"html-parser": {Values: htmltree.Backends()},
		"code-style":  {Values: append([]string{pipeline.NoCodeStyle}, pipeline.CodeStyles()...)},

		"config":      {IsFile: true, Exts: []string{"yaml", "yml"}},
		"style":       {IsFile: true, Exts: []string{"css"}},
		"template":    {IsFile: true, Exts: []string{"html"}},
		"output":      {IsFile: true},
		"browser-bin": {IsFile: true},

		"asset-path": {IsDir: true},
	}
}

// extractFlagsFromFlagSet builds flag definitions from a FlagSet.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	meta := flagCompletionMeta()
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{Long: f.Name, Short: f.Shorthand, Desc: f.Usage}
		if f.Value.Type() == "bool" {
			fd.Type = flagBool
		}
		if m, ok := meta[f.Name]; ok {
			switch {
			case len(m.Values) > 0:
				fd.Type, fd.Values = flagEnum, m.Values
			case m.IsFile:
				fd.Type, fd.Values = flagFile, m.Exts
			case m.IsDir:
				fd.Type = flagDir
			}
		}
		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry. Conversion flags are read from
// the same FlagSets the commands parse.
func getCommands() []commandDef {
	var cmds []commandDef
	for _, cmd := range mdtheme.Commands() {
		exts := []string{"md", "markdown"}
		if cmd == mdtheme.CommandHTMLToPDF {
			exts = []string{"html", "htm"}
		}
		cmds = append(cmds, commandDef{
			Name:      string(cmd),
			Desc:      commandSummaries[cmd],
			Flags:     extractFlagsFromFlagSet(newConvertFlagSet(cmd, &convertFlags{})),
			InputExts: exts,
		})
	}

	topics := []string{"code-styles", "page-sizes", "engines", "env"}
	helpArgs := []string{"doctor", "completion", "version", "help"}
	for _, cmd := range mdtheme.Commands() {
		helpArgs = append(helpArgs, string(cmd))
	}

	return append(cmds,
		commandDef{
			Name:  "doctor",
			Desc:  "Check PDF engines and the environment",
			Flags: []flagDef{{Long: "json", Type: flagBool, Desc: "print the report as JSON"}},
		},
		commandDef{
			Name: "completion",
			Desc: "Generate shell completion script",
			Args: []string{string(ShellBash), string(ShellZsh), string(ShellFish)},
		},
		commandDef{Name: "version", Desc: "Show version information"},
		commandDef{Name: "help", Desc: "Show help for a command or topic", Args: append(helpArgs, topics...)},
	)
}

// GenerateCompletion writes the completion script for shell to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdtheme completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(mdtheme completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (after compinit):")
	fmt.Fprintln(w, "    eval \"$(mdtheme completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    mdtheme completion fish > ~/.config/fish/completions/mdtheme.fish")
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func generateBash(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# bash completion for mdtheme\n")
	b.WriteString("_mdtheme() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ $COMP_CWORD -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"$cmd\" in\n")

	for _, cmd := range cmds {
		fmt.Fprintf(&b, "    %s)\n", cmd.Name)
		if valued := bashValueCases(cmd.Flags); valued != "" {
			b.WriteString("        case \"$prev\" in\n")
			b.WriteString(valued)
			b.WriteString("        esac\n")
		}
		if len(cmd.Flags) > 0 {
			b.WriteString("        if [[ \"$cur\" == -* ]]; then\n")
			fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(flagWords(cmd.Flags), " "))
			b.WriteString("            return\n")
			b.WriteString("        fi\n")
		}
		switch {
		case len(cmd.Args) > 0:
			fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(cmd.Args, " "))
		case len(cmd.InputExts) > 0:
			fmt.Fprintf(&b, "        COMPREPLY=($(compgen -f -X '%s' -- \"$cur\"))\n", bashExtFilter(cmd.InputExts))
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n")
	b.WriteString("complete -o filenames -o bashdefault -F _mdtheme mdtheme\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func bashValueCases(flags []flagDef) string {
	var b strings.Builder
	for _, f := range flags {
		if f.Type == flagBool || f.Type == flagString {
			continue
		}
		pattern := "--" + f.Long
		if f.Short != "" {
			pattern += "|-" + f.Short
		}
		var reply string
		switch f.Type {
		case flagEnum:
			reply = fmt.Sprintf("$(compgen -W %q -- \"$cur\")", strings.Join(f.Values, " "))
		case flagDir:
			reply = "$(compgen -d -- \"$cur\")"
		case flagFile:
			if len(f.Values) > 0 {
				reply = fmt.Sprintf("$(compgen -f -X '%s' -- \"$cur\")", bashExtFilter(f.Values))
			} else {
				reply = "$(compgen -f -- \"$cur\")"
			}
		}
		fmt.Fprintf(&b, "        %s) COMPREPLY=(%s); return ;;\n", pattern, reply)
	}
	return b.String()
}

// bashExtFilter returns a compgen -X pattern excluding files without one
// of exts. Requires extglob, which bash-completion enables.
func bashExtFilter(exts []string) string {
	return "!*.@(" + strings.Join(exts, "|") + ")"
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

func generateZsh(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("#compdef mdtheme\n\n")
	b.WriteString("_mdtheme() {\n")
	b.WriteString("  local -a commands\n")
	b.WriteString("  commands=(\n")
	for _, cmd := range cmds {
		fmt.Fprintf(&b, "    '%s:%s'\n", cmd.Name, zshEscape(cmd.Desc))
	}
	b.WriteString("  )\n\n")
	b.WriteString("  if (( CURRENT == 2 )); then\n")
	b.WriteString("    _describe 'command' commands\n")
	b.WriteString("    return\n")
	b.WriteString("  fi\n\n")
	b.WriteString("  case $words[2] in\n")

	for _, cmd := range cmds {
		fmt.Fprintf(&b, "  %s)\n", cmd.Name)
		b.WriteString("    _arguments -s \\\n")
		for _, f := range cmd.Flags {
			fmt.Fprintf(&b, "      %s \\\n", zshFlagSpec(f))
		}
		switch {
		case len(cmd.Args) > 0:
			fmt.Fprintf(&b, "      '1:argument:(%s)'\n", strings.Join(cmd.Args, " "))
		case len(cmd.InputExts) > 0:
			fmt.Fprintf(&b, "      '1:input file:_files -g \"%s\"'\n", zshGlob(cmd.InputExts))
		default:
			b.WriteString("      '*::'\n")
		}
		b.WriteString("    ;;\n")
	}

	b.WriteString("  esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _mdtheme mdtheme\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func zshFlagSpec(f flagDef) string {
	desc := zshEscape(f.Desc)
	var action string
	switch f.Type {
	case flagBool:
	case flagEnum:
		action = fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
	case flagDir:
		action = fmt.Sprintf(":%s:_files -/", f.Long)
	case flagFile:
		if len(f.Values) > 0 {
			action = fmt.Sprintf(":%s:_files -g \"%s\"", f.Long, zshGlob(f.Values))
		} else {
			action = fmt.Sprintf(":%s:_files", f.Long)
		}
	default:
		action = fmt.Sprintf(":%s:", f.Long)
	}

	if f.Short != "" {
		return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
	}
	return fmt.Sprintf("'--%s[%s]%s'", f.Long, desc, action)
}

func zshGlob(exts []string) string {
	globs := make([]string, len(exts))
	for i, ext := range exts {
		globs[i] = "*." + ext
	}
	return strings.Join(globs, " ")
}

// zshEscape makes s safe inside a single-quoted _arguments description.
func zshEscape(s string) string {
	return strings.NewReplacer(
		"'", "'\\''",
		"[", "\\[",
		"]", "\\]",
		":", "\\:",
	).Replace(s)
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

func generateFish(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# fish completion for mdtheme\n")
	b.WriteString("complete -c mdtheme -f\n\n")
	for _, cmd := range cmds {
		fmt.Fprintf(&b, "complete -c mdtheme -n __fish_use_subcommand -a %s -d %s\n", cmd.Name, fishQuote(cmd.Desc))
	}

	for _, cmd := range cmds {
		cond := fmt.Sprintf("'__fish_seen_subcommand_from %s'", cmd.Name)
		b.WriteString("\n")
		for _, f := range cmd.Flags {
			line := fmt.Sprintf("complete -c mdtheme -n %s -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagBool:
			case flagEnum:
				line += " -x -a " + fishQuote(strings.Join(f.Values, " "))
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			case flagFile:
				if len(f.Values) > 0 {
					line += " -x -a " + fishSuffixes(f.Values)
				} else {
					line += " -r -F"
				}
			default:
				line += " -x"
			}
			line += " -d " + fishQuote(f.Desc)
			b.WriteString(line + "\n")
		}
		switch {
		case len(cmd.Args) > 0:
			fmt.Fprintf(&b, "complete -c mdtheme -n %s -a %s\n", cond, fishQuote(strings.Join(cmd.Args, " ")))
		case len(cmd.InputExts) > 0:
			fmt.Fprintf(&b, "complete -c mdtheme -n %s -a %s\n", cond, fishSuffixes(cmd.InputExts))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func fishSuffixes(exts []string) string {
	parts := make([]string, len(exts))
	for i, ext := range exts {
		parts[i] = "(__fish_complete_suffix ." + ext + ")"
	}
	return "'" + strings.Join(parts, " ") + "'"
}

func fishQuote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(s) + "'"
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

func flagWords(flags []flagDef) []string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return words
}
