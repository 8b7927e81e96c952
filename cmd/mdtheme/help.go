package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-mdtheme"
	"github.com/alnah/go-mdtheme/internal/pipeline"
)

// commandSummaries holds the one-line description of each conversion command.
var commandSummaries = map[mdtheme.Command]string{
	mdtheme.CommandMarkdownToPDF:  "Convert a Markdown file to a dark-themed PDF",
	mdtheme.CommandMarkdownToHTML: "Convert a Markdown file to a dark-themed HTML page",
	mdtheme.CommandHTMLToPDF:      "Print an HTML file to PDF",
}

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdtheme <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range mdtheme.Commands() {
		fmt.Fprintf(w, "  %-12s %s\n", cmd, commandSummaries[cmd])
	}
	fmt.Fprintln(w, "  doctor       Check PDF engines and the environment")
	fmt.Fprintln(w, "  completion   Generate shell completion script")
	fmt.Fprintln(w, "  version      Show version information")
	fmt.Fprintln(w, "  help         Show help for a command or topic")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Topics: code-styles, page-sizes, engines, env")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdtheme help <command>' for details on a specific command.")
}

// printCommandUsage prints usage for a conversion command. The flag list
// is rendered from the command's FlagSet.
func printCommandUsage(w io.Writer, cmd mdtheme.Command) {
	input := "input.md"
	if cmd == mdtheme.CommandHTMLToPDF {
		input = "input.html"
	}
	fmt.Fprintf(w, "Usage: mdtheme %s <%s> [flags]\n", cmd, input)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s.\n", commandSummaries[cmd])
	if cmd != mdtheme.CommandHTMLToPDF {
		fmt.Fprintln(w, "Local images are copied under the output directory unless --no-images is set.")
	} else {
		fmt.Fprintln(w, "Only --style is applied on top of the page; theme colors need a Markdown input.")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fs := newConvertFlagSet(cmd, &convertFlags{})
	fmt.Fprint(w, fs.FlagUsages())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Precedence: flags > MDTHEME_* environment > config file > defaults.")
}

func printEnvUsage(w io.Writer) {
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  MDTHEME_CONFIG        config file name or path")
	fmt.Fprintln(w, "  MDTHEME_ENGINE        PDF engine")
	fmt.Fprintln(w, "  MDTHEME_TIMEOUT       PDF rendering timeout (e.g. 1m)")
	fmt.Fprintln(w, "  MDTHEME_PAGE_SIZE     page size")
	fmt.Fprintln(w, "  MDTHEME_MARGIN        page margin")
	fmt.Fprintln(w, "  MDTHEME_TEMPLATE      page template name or path")
	fmt.Fprintln(w, "  MDTHEME_CODE_STYLE    code highlighting style")
	fmt.Fprintln(w, "  MDTHEME_BROWSER_BIN   Chrome/Chromium or wkhtmltopdf executable")
	fmt.Fprintln(w, "  MDTHEME_NO_IMAGES     skip image copying (true/false)")
	fmt.Fprintln(w, "  MDTHEME_NO_SANDBOX    disable the Chrome sandbox (true/false)")
}

// runHelp prints help for a command or topic.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	if cmd, err := mdtheme.ParseCommand(args[0]); err == nil {
		printCommandUsage(env.Stdout, cmd)
		return
	}

	switch args[0] {
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: mdtheme doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Report which PDF engines can run, the detected environment")
		fmt.Fprintln(env.Stdout, "(container, CI, sandbox) and whether the temp directory is writable.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdtheme version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdtheme help [command|topic]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command or topic.")
	case "code-styles":
		printList(env.Stdout, "Code styles (plus \"none\"):", pipeline.CodeStyles())
	case "page-sizes":
		printList(env.Stdout, "Page sizes:", mdtheme.PageSizes())
	case "engines":
		printList(env.Stdout, "PDF engines:", mdtheme.Engines())
	case "env":
		printEnvUsage(env.Stdout)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command or topic: %s\n", args[0])
		printUsage(env.Stderr)
	}
}

func printList(w io.Writer, title string, items []string) {
	fmt.Fprintln(w, title)
	fmt.Fprintf(w, "  %s\n", strings.Join(items, "\n  "))
}
