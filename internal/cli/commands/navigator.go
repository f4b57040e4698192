package commands

import (
	"fmt"
	"io"
	"net/url"
)

// TerminalNavigator tells the user where to sign in again. A terminal has no
// location to redirect, so navigation is a printed, resolvable URL.
type TerminalNavigator struct {
	w       io.Writer
	siteURL string
}

// NewTerminalNavigator resolves relative login URLs against siteURL
func NewTerminalNavigator(w io.Writer, siteURL string) *TerminalNavigator {
	return &TerminalNavigator{w: w, siteURL: siteURL}
}

// Navigate prints the absolute login URL
func (n *TerminalNavigator) Navigate(loginURL string) error {
	target, err := n.resolve(loginURL)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(n.w, "Your session has ended. Sign in again at %s\nor run 'recipes login'.\n", target)
	return err
}

func (n *TerminalNavigator) resolve(loginURL string) (string, error) {
	ref, err := url.Parse(loginURL)
	if err != nil {
		return "", fmt.Errorf("invalid login URL %q: %w", loginURL, err)
	}
	if ref.IsAbs() || n.siteURL == "" {
		return ref.String(), nil
	}

	base, err := url.Parse(n.siteURL)
	if err != nil {
		return "", fmt.Errorf("invalid site URL %q: %w", n.siteURL, err)
	}
	return base.ResolveReference(ref).String(), nil
}
