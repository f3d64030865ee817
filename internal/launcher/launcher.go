// Package launcher opens article links in the system browser.
package launcher

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pders01/nyhet/internal/config"
	"github.com/pders01/nyhet/internal/debuglog"
	"github.com/pders01/nyhet/internal/validation"
)

type Launcher struct {
	opener    string
	validator *validation.LinkValidator
	start     func(*exec.Cmd) error
}

func NewLauncher(cfg *config.Config) *Launcher {
	opener := findCommand(cfg.Browser.Openers()...)
	if opener == "" {
		opener = cfg.Browser.DefaultOpener
	}
	if opener == "" {
		opener = fallbackOpener(runtime.GOOS)
	}

	return &Launcher{
		opener:    opener,
		validator: validation.NewLinkValidator(),
		start:     startDetached,
	}
}

// Opener returns the command used to open links.
func (l *Launcher) Opener() string {
	return l.opener
}

// Command builds the process that would open link, after validating it.
func (l *Launcher) Command(link string) (*exec.Cmd, error) {
	if err := l.validator.Validate(link); err != nil {
		return nil, fmt.Errorf("refusing to open link: %w", err)
	}
	if l.opener == "" {
		return nil, fmt.Errorf("no application found to open URL")
	}

	// rundll32 needs the protocol handler entry point ahead of the URL
	if strings.EqualFold(strings.TrimSuffix(filepath.Base(l.opener), ".exe"), "rundll32") {
		return exec.Command(l.opener, "url.dll,FileProtocolHandler", link), nil
	}
	return exec.Command(l.opener, link), nil
}

// Open starts the opener for link without waiting for it to exit.
func (l *Launcher) Open(link string) error {
	cmd, err := l.Command(link)
	if err != nil {
		return err
	}
	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", l.opener, err)
	}
	debuglog.Debugf("Opened %s with %s", link, l.opener)
	return nil
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func fallbackOpener(goos string) string {
	switch goos {
	case "darwin":
		return "open"
	case "windows":
		return "rundll32"
	default:
		return "xdg-open"
	}
}

func findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := exec.LookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}
