package output

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// ErrNotInteractive is returned when a prompt is requested without a terminal.
var ErrNotInteractive = errors.New("interactive input requires a terminal")

// ErrCancelled is returned when the user interrupts a prompt.
var ErrCancelled = errors.New("operation cancelled")

// IsInteractive reports whether stdin and stdout are attached to a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// StringPromptDefault asks for a non-empty string, pre-filled with defaultValue.
func StringPromptDefault(label, defaultValue string) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   defaultValue,
		AllowEdit: true,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return fmt.Errorf("%s cannot be empty", strings.ToLower(label))
			}
			return nil
		},
	}

	result, err := prompt.Run()
	if err != nil {
		return "", translatePromptError(err)
	}
	return strings.TrimSpace(result), nil
}

// UintPromptDefault asks for a positive integer, pre-filled with defaultValue.
func UintPromptDefault(label string, defaultValue uint64) (uint64, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   strconv.FormatUint(defaultValue, 10),
		AllowEdit: true,
		Validate: func(input string) error {
			v, err := strconv.ParseUint(strings.TrimSpace(input), 10, 64)
			if err != nil || v == 0 {
				return fmt.Errorf("must be a positive integer")
			}
			return nil
		},
	}

	result, err := prompt.Run()
	if err != nil {
		return 0, translatePromptError(err)
	}
	return strconv.ParseUint(strings.TrimSpace(result), 10, 64)
}

// ConfirmPrompt asks a yes/no question. A declined confirmation is not an error.
func ConfirmPrompt(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	_, err := prompt.Run()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, promptui.ErrAbort) {
		return false, nil
	}
	return false, translatePromptError(err)
}

func translatePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return ErrCancelled
	}
	return fmt.Errorf("prompt failed: %w", err)
}
