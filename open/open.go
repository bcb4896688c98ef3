// Package open launches files with the user's editor or the system's default handler.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/swapfs/swapfs/constant"
)

// EnvEditor names the editor preferred by Edit.
const EnvEditor = "EDITOR"

// Run opens path with the default system handler and waits for it.
func Run(path string) error {
	cmd, ok := command(path)
	if !ok {
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
	return cmd.Run()
}

// RunWith opens path with app and waits for it. An empty app means Run.
func RunWith(path, app string) error {
	if app == "" {
		return Run(path)
	}

	cmd, ok := commandWith(path, app)
	if !ok {
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
	return cmd.Run()
}

// Edit opens path in $EDITOR attached to the terminal, falling back to
// the default handler when no editor is set.
func Edit(path string) error {
	editor, ok := os.LookupEnv(EnvEditor)
	if !ok || editor == "" {
		return Run(path)
	}

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func command(path string) (*exec.Cmd, bool) {
	switch runtime.GOOS {
	case constant.Windows:
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", path), true
	case constant.Darwin:
		return exec.Command("open", path), true
	case constant.Linux:
		return exec.Command("xdg-open", path), true
	case constant.Android:
		return exec.Command("termux-open", path), true
	default:
		return nil, false
	}
}

func commandWith(path, app string) (*exec.Cmd, bool) {
	switch runtime.GOOS {
	case constant.Windows:
		return exec.Command("cmd", "/C", "start", "", app, path), true
	case constant.Darwin:
		return exec.Command("open", "-a", app, path), true
	case constant.Linux, constant.Android:
		return exec.Command(app, path), true
	default:
		return nil, false
	}
}
