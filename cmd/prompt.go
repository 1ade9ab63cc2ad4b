package cmd

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// interactive reports whether the command reads from a terminal, so prompts
// only fire for a human operator.
func interactive(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// promptChoice asks the operator to pick one of the choices, defaulting on an
// empty answer.
func promptChoice(cmd *cobra.Command, question string, choices []string, fallback string) (string, error) {
	prompt := fmt.Sprintf("%s [%s] (%s): ", question, strings.Join(choices, "/"), fallback)
	answer, err := promptLine(cmd, prompt)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return fallback, nil
	}
	answer = strings.ToLower(answer)
	if !slices.Contains(choices, answer) {
		return "", fmt.Errorf("%q is not one of %s", answer, strings.Join(choices, ", "))
	}
	return answer, nil
}

// promptText asks a free-form question, defaulting on an empty answer.
func promptText(cmd *cobra.Command, question, fallback string) (string, error) {
	answer, err := promptLine(cmd, fmt.Sprintf("%s (%s): ", question, fallback))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return fallback, nil
	}
	return answer, nil
}

func promptLine(cmd *cobra.Command, prompt string) (string, error) {
	if _, err := fmt.Fprint(cmd.OutOrStdout(), prompt); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
