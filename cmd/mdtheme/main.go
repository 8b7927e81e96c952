package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-mdtheme"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Error ignored: maxprocs.Set only fails on an invalid GOMAXPROCS, in
	// which case the runtime default applies.
	if slices.Contains(os.Args, "-v") || slices.Contains(os.Args, "--verbose") {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches the command in args[1] and returns the exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	name, rest := args[1], args[2:]
	var err error
	switch name {
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "mdtheme %s\n", Version)
		return ExitSuccess
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		err = runCompletion(rest, env)
	default:
		cmd, perr := mdtheme.ParseCommand(name)
		if perr != nil {
			fmt.Fprintf(env.Stderr, "Unknown command: %s\n\n", name)
			printUsage(env.Stderr)
			return ExitUsage
		}
		ctx, stop := notifyContext(context.Background())
		defer stop()
		err = runConvert(ctx, cmd, rest, env)
	}

	if err != nil {
		fmt.Fprintln(env.Stderr, "error:", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}
