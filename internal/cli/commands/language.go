package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/cli/userconfig"
)

// NewLanguageCmd creates the language command. It only touches local
// preferences, so it never needs the backend.
func NewLanguageCmd(out io.Writer) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "language [code]",
		Short: "Show or set the language recipes are generated in",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case reset:
				return runLanguageReset(out)
			case len(args) == 0:
				return runLanguageShow(out)
			default:
				return runLanguageSet(out, args[0])
			}
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Go back to the backend default")
	return cmd
}

func runLanguageShow(out io.Writer) error {
	lang, err := userconfig.GetLanguage()
	if err != nil {
		return err
	}
	if lang == "" {
		fmt.Fprintln(out, "No language set; the backend default is used.")
		return nil
	}
	fmt.Fprintf(out, "%s (%s)\n", lang, userconfig.LanguageName(lang))
	return nil
}

func runLanguageSet(out io.Writer, code string) error {
	lang, err := userconfig.SetLanguage(code)
	if errors.Is(err, userconfig.ErrInvalidLanguage) {
		return fmt.Errorf("%w (try en, fr or pt-BR)", err)
	}
	if err != nil {
		return fmt.Errorf("failed to save language: %w", err)
	}
	fmt.Fprintf(out, "✓ Recipes will be generated in %s (%s)\n", userconfig.LanguageName(lang), lang)
	return nil
}

func runLanguageReset(out io.Writer) error {
	if err := userconfig.ClearLanguage(); err != nil {
		return fmt.Errorf("failed to save language: %w", err)
	}
	fmt.Fprintln(out, "✓ Language reset to the backend default")
	return nil
}
