package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"time"
)

// Installer shells out to the host application's package installer for
// each package of the constellation, in pinned order. The packages are
// interdependent, so a failure aborts the remainder.
type Installer struct {
	// Command is the installer executable, with any fixed arguments.
	Command string
	Args    []string
	// Stdout and Stderr receive the installer's output; nil discards it.
	Stdout io.Writer
	Stderr io.Writer

	state *State
	now   func() time.Time
}

// NewInstaller creates an Installer recording into state.
func NewInstaller(command string, args []string, state *State) *Installer {
	return &Installer{Command: command, Args: args, state: state, now: time.Now}
}

// Install installs the packages sequentially and records completion on
// success.
func (i *Installer) Install(ctx context.Context, packages []string) error {
	if i.Command == "" {
		return fmt.Errorf("no package installer command configured")
	}

	for _, pkg := range packages {
		args := append(append([]string(nil), i.Args...), pkg)
		cmd := exec.CommandContext(ctx, i.Command, args...)
		cmd.Stdout = i.Stdout
		cmd.Stderr = i.Stderr

		slog.Info("installing package", "package", pkg)
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("install package %s: %w", pkg, err)
		}
	}

	i.state.MarkInstalled(i.now())
	if err := i.state.Save(); err != nil {
		return fmt.Errorf("record installation: %w", err)
	}
	return nil
}
