package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

func promptText(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", strings.ToLower(label))
			}
			return nil
		},
	}

	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}
	return strings.TrimSpace(value), nil
}

// readPassword reads a password without echo, giving up when ctx is done
func readPassword(ctx context.Context, w io.Writer) (string, error) {
	type result struct {
		password []byte
		err      error
	}

	fmt.Fprint(w, "Password: ")
	done := make(chan result, 1)
	go func() {
		p, err := term.ReadPassword(int(os.Stdin.Fd()))
		done <- result{p, err}
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(w)
		return "", ctx.Err()
	case r := <-done:
		fmt.Fprintln(w)
		if r.err != nil {
			return "", fmt.Errorf("failed to read password: %w", r.err)
		}
		return string(r.password), nil
	}
}

// confirm asks a yes/no question; anything but yes is a refusal
func confirm(label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	return err == nil
}

// option is one entry of an interactive selection
type option struct {
	Label string
	Value string
}

func selectOption(label string, options []option) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("nothing to select for %s", strings.ToLower(label))
	}

	prompt := promptui.Select{
		Label: label,
		Items: options,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "> {{ .Label | cyan }}",
			Inactive: "  {{ .Label }}",
			Selected: "{{ .Label | green }}",
		},
		Size: 10,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}
	return options[index].Value, nil
}
