package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/musicnft/internal/application/orchestrator"
	"github.com/altuslabsxyz/musicnft/internal/output"
)

// errReported marks an error that has already been shown to the user.
var errReported = errors.New("command failed")

// hintError attaches a recovery hint to a CLI-level error.
type hintError struct {
	err  error
	hint string
}

func (e *hintError) Error() string        { return e.err.Error() }
func (e *hintError) Unwrap() error        { return e.err }
func (e *hintError) RecoveryHint() string { return e.hint }

func withHint(err error, hint string) error {
	return &hintError{err: err, hint: hint}
}

// handleCommandError prints err and its recovery hint to stderr and returns
// errReported so the process exits with status 1 without printing twice.
func handleCommandError(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, errReported) {
		return err
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "Error: %v\n", err)

	if hint := orchestrator.RecoveryHint(err); hint != "" {
		fmt.Fprintf(w, "\nHint: %s\n", hint)
	}

	return errReported
}

// wrapInteractiveError treats a cancelled prompt as a clean exit.
func wrapInteractiveError(cmd *cobra.Command, err error, context string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, output.ErrCancelled) {
		output.Info("Operation cancelled.")
		return nil
	}
	if context != "" {
		err = fmt.Errorf("%s: %w", context, err)
	}
	return handleCommandError(cmd, err)
}
