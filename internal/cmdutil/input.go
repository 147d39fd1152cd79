// Package cmdutil holds shared input helpers for the CLI commands.
package cmdutil

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ResolveJSONInput resolves JSON input from inline, @file, or stdin.
func ResolveJSONInput(raw string, file string) (string, error) {
	if raw != "" && file != "" {
		return "", fmt.Errorf("use only one of inline JSON or --file")
	}

	if file != "" {
		return ReadInputSource(file)
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "-" {
		return ReadInputSource("-")
	}
	if strings.HasPrefix(trimmed, "@") {
		return ReadInputSource(trimmed[1:])
	}

	return raw, nil
}

// ReadInputSource reads input from a file path or stdin when path is "-".
func ReadInputSource(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("input file path is required")
	}
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %q: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// ReadPassword prompts for a password on stderr and reads it from stdin
// without echo when stdin is a terminal. Piped input falls back to a
// plain line read so scripted logins work.
func ReadPassword(prompt io.Writer, in *os.File) (string, error) {
	fmt.Fprint(prompt, "Password: ")
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		data, err := term.ReadPassword(fd)
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(data), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
