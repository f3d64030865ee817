package launcher

import (
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/nyhet/internal/config"
	"github.com/pders01/nyhet/internal/validation"
)

func testLauncher(opener string, start func(*exec.Cmd) error) *Launcher {
	return &Launcher{
		opener:    opener,
		validator: validation.NewLinkValidator(),
		start:     start,
	}
}

func TestNewLauncher_AlwaysHasOpener(t *testing.T) {
	cfg := config.TestConfig()
	cfg.Browser.Darwin = []string{"definitely-not-installed-opener"}
	cfg.Browser.Linux = []string{"definitely-not-installed-opener"}
	cfg.Browser.Windows = []string{"definitely-not-installed-opener"}
	cfg.Browser.DefaultOpener = ""

	l := NewLauncher(cfg)
	assert.NotEmpty(t, l.Opener())
}

func TestNewLauncher_UsesDefaultOpener(t *testing.T) {
	cfg := config.TestConfig()
	cfg.Browser.Darwin = nil
	cfg.Browser.Linux = nil
	cfg.Browser.Windows = nil
	cfg.Browser.DefaultOpener = "my-browser"

	assert.Equal(t, "my-browser", NewLauncher(cfg).Opener())
}

func TestFindCommand(t *testing.T) {
	assert.Empty(t, findCommand())
	assert.Empty(t, findCommand("definitely-not-installed-opener"))
}

func TestFallbackOpener(t *testing.T) {
	assert.Equal(t, "open", fallbackOpener("darwin"))
	assert.Equal(t, "rundll32", fallbackOpener("windows"))
	assert.Equal(t, "xdg-open", fallbackOpener("linux"))
	assert.Equal(t, "xdg-open", fallbackOpener("freebsd"))
}

func TestCommand(t *testing.T) {
	l := testLauncher("xdg-open", nil)
	cmd, err := l.Command("https://www.svt.se/nyheter/a")
	require.NoError(t, err)
	assert.Equal(t, []string{"xdg-open", "https://www.svt.se/nyheter/a"}, cmd.Args)

	l = testLauncher("rundll32", nil)
	cmd, err = l.Command("https://www.svt.se/nyheter/a")
	require.NoError(t, err)
	assert.Equal(t, []string{"rundll32", "url.dll,FileProtocolHandler", "https://www.svt.se/nyheter/a"}, cmd.Args)
}

func TestCommand_RejectsUnsafeLinks(t *testing.T) {
	l := testLauncher("xdg-open", nil)
	for _, link := range []string{"", "file:///etc/passwd", "javascript:alert(1)", "https://x.test/\"; rm -rf /"} {
		_, err := l.Command(link)
		assert.Error(t, err, link)
	}
}

func TestOpen(t *testing.T) {
	var started *exec.Cmd
	l := testLauncher("xdg-open", func(cmd *exec.Cmd) error {
		started = cmd
		return nil
	})

	require.NoError(t, l.Open("https://omni.se/a"))
	require.NotNil(t, started)
	assert.Equal(t, "https://omni.se/a", started.Args[len(started.Args)-1])
}

func TestOpen_StartFailure(t *testing.T) {
	l := testLauncher("xdg-open", func(*exec.Cmd) error { return errors.New("exec format error") })
	err := l.Open("https://omni.se/a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start xdg-open")
}
