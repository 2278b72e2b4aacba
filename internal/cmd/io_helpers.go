package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/statflow/devkit/internal/iocontext"
	"github.com/statflow/devkit/internal/output"
)

func stdoutFromContext(ctx context.Context) io.Writer {
	return iocontext.StdoutOrDefault(ctx, os.Stdout)
}

func stderrFromContext(ctx context.Context) io.Writer {
	return iocontext.StderrOrDefault(ctx, os.Stderr)
}

func printerForContext(ctx context.Context) *output.Printer {
	return output.NewPrinter(stdoutFromContext(ctx), output.FormatFromContext(ctx))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// confirm asks the user to confirm a destructive action. --yes skips the
// prompt; without it a non-interactive stdin counts as a refusal.
func confirm(ctx context.Context, prompt string) bool {
	if AssumeYesFromContext(ctx) {
		return true
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}

	_, _ = fmt.Fprintf(stderrFromContext(ctx), "%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
