// Package editor runs the user's $VISUAL/$EDITOR on a file.
package editor

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// PreferredEditor finds a suitable editor from env or common defaults.
func PreferredEditor() (string, error) {
	if v := os.Getenv("VISUAL"); v != "" {
		return v, nil
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e, nil
	}
	for _, cand := range []string{"nvim", "vim", "vi", "nano"} {
		if p, err := exec.LookPath(cand); err == nil {
			return p, nil
		}
	}
	return "", errors.New("no editor found; set $EDITOR or $VISUAL")
}

// Command builds the editor invocation for path. $VISUAL/$EDITOR may carry
// flags, so they run through a shell wrapper.
func Command(ctx context.Context, path string) (*exec.Cmd, error) {
	ed := os.Getenv("VISUAL")
	if ed == "" {
		ed = os.Getenv("EDITOR")
	}
	if strings.TrimSpace(ed) != "" {
		cmd := exec.CommandContext(ctx, "sh", "-c", "$EDITORCMD \"$FILEPATH\"")
		cmd.Env = append(os.Environ(), "EDITORCMD="+ed, "FILEPATH="+path)
		return cmd, nil
	}
	prog, err := PreferredEditor()
	if err != nil {
		return nil, err
	}
	return exec.CommandContext(ctx, prog, path), nil
}

func writeFile0600(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, fs.FileMode(0o600))
}

// Edit opens path in the editor. A missing file is first created with
// initial. It returns the final bytes and whether they differ from what
// the file held before.
func Edit(ctx context.Context, path string, initial []byte) (final []byte, changed bool, err error) {
	before, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := writeFile0600(path, initial); err != nil {
			return nil, false, err
		}
		before = initial
	case err != nil:
		return nil, false, err
	}

	cmd, err := Command(ctx, path)
	if err != nil {
		return nil, false, err
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, false, err
	}
	out, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return out, !bytes.Equal(out, before), nil
}
