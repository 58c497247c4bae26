package request

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/cloudlift/cloudlift/internal/errors"
	"golang.org/x/term"
)

// IsInteractive reports whether both stdin and stdout are terminals, which
// is the precondition for prompting.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// sourceAnswers holds what the interactive form collected.
type sourceAnswers struct {
	Path         string
	RemoteFolder string
}

// promptForSource asks for the path to upload and the destination folder.
// The path is classified later by a filesystem probe, so the form only
// validates existence.
func promptForSource(defaultFolder string) (sourceAnswers, error) {
	answers := sourceAnswers{RemoteFolder: defaultFolder}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What do you want to upload?").
				Description("Path to a file or a directory").
				Placeholder("~/projects/report.pdf").
				Value(&answers.Path).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return fmt.Errorf("a path is required")
					}
					if _, err := os.Stat(expandHome(s)); err != nil {
						return fmt.Errorf("%s doesn't exist", s)
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Remote folder").
				Description("Destination folder on the remote").
				Placeholder(defaultFolder).
				Value(&answers.RemoteFolder),
		),
	)

	if err := form.Run(); err != nil {
		return sourceAnswers{}, errors.WrapWithCode(err, errors.ErrInput,
			"Couldn't read your input",
			"Pass --file or --dir instead of prompting.")
	}

	answers.Path = expandHome(strings.TrimSpace(answers.Path))
	answers.RemoteFolder = strings.TrimSpace(answers.RemoteFolder)
	return answers, nil
}

// expandHome replaces a leading ~/ with the user's home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + strings.TrimPrefix(path, "~")
		}
	}
	return path
}
