package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"codeberg.org/snonux/doctrans/internal/translation"
)

// ResolveAPIKey returns the configured API key, asking for it on the
// terminal when none is configured.
func ResolveAPIKey(flags *Flags) (string, error) {
	if key := GetAPIKey(flags); key != "" {
		return key, nil
	}
	return PromptAPIKey(os.Stdin, os.Stderr)
}

// PromptAPIKey reads the API key from in without echo. It fails with
// translation.ErrMissingAPIKey when in is not a terminal or the answer is
// empty.
func PromptAPIKey(in *os.File, out io.Writer) (string, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return "", translation.ErrMissingAPIKey
	}

	fmt.Fprintln(out, "API key not found in flags, environment or config.")
	fmt.Fprint(out, "Please enter your Google Gemini API key: ")
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}

	key := strings.TrimSpace(string(secret))
	if key == "" {
		return "", translation.ErrMissingAPIKey
	}
	return key, nil
}
