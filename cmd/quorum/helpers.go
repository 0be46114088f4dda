package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/averin/quorum/internal/config"
	"github.com/averin/quorum/internal/registry"
	"github.com/averin/quorum/internal/render"
)

// loadSetup reads the config file and builds the provider registry.
func loadSetup() (*config.File, *registry.Registry, error) {
	path := config.Path()
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("no config file at %s, run 'quorum init' first", path)
	}
	if err != nil {
		return nil, nil, err
	}
	return cfg, registry.FromConfig(cfg), nil
}

func newRenderer() *render.Renderer {
	return render.New(pretty)
}

// readContentArg resolves a command's subject text: the argument when
// given, otherwise piped stdin. An interactive terminal with no
// argument is an error rather than a silent block on stdin.
func readContentArg(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("no input: pass an argument or pipe content on stdin")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("no input: pass an argument or pipe content on stdin")
	}
	return string(data), nil
}

// saveOutput writes rendered output to a file for --save.
func saveOutput(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("save output: %w", err)
	}
	return nil
}

// keyPreview shows the first characters of a secret, enough to tell
// keys apart without printing them.
func keyPreview(key string) string {
	if key == "" {
		return "(none)"
	}
	if len(key) <= 10 {
		return key[:1] + "..."
	}
	return key[:10] + "..."
}

func timeoutFromSeconds(s int) time.Duration {
	return time.Duration(s) * time.Second
}
