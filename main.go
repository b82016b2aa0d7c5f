package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the podctl command line and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(stdin, stdout, stderr)
	cmd.SetArgs(expandNameLists(args))
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// nameListFlags accept several space separated names after a single flag.
var nameListFlags = map[string]bool{"--include": true, "--exclude": true}

// expandNameLists rewrites "--include a b" into "--include a --include b" so
// the slice flags see every name. Values joined with commas still work.
func expandNameLists(args []string) []string {
	expanded := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		expanded = append(expanded, arg)
		if arg == "--" {
			return append(expanded, args[i+1:]...)
		}
		if !nameListFlags[arg] || i+1 >= len(args) || strings.HasPrefix(args[i+1], "-") {
			continue
		}
		i++
		expanded = append(expanded, args[i])
		for i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
			expanded = append(expanded, arg, args[i])
		}
	}
	return expanded
}
