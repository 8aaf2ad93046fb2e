package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/aymanbagabas/go-osc52/v2"

	"github.com/piwi3910/RollCut/internal/model"
)

// DefaultPrintCommand is used when no print command is configured.
const DefaultPrintCommand = "lpr"

// Print writes the text plan to a temporary file and hands it to command,
// which may carry its own arguments (e.g. "lpr -P workshop").
func Print(ctx context.Context, plan model.Plan, command string) error {
	args := strings.Fields(command)
	if len(args) == 0 {
		args = []string{DefaultPrintCommand}
	}

	tmp, err := os.CreateTemp("", "rollcut-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create print file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(Text(plan)); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write print file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write print file: %w", err)
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], tmp.Name())...)
	if out, err := cmd.CombinedOutput(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("print command %q not found: %w", args[0], err)
		}
		return fmt.Errorf("print command failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// CopyToClipboard writes text to the terminal clipboard using an OSC 52
// escape sequence. Inside tmux or screen the sequence is wrapped accordingly.
func CopyToClipboard(w io.Writer, text string) error {
	seq := osc52.New(text)
	switch {
	case os.Getenv("TMUX") != "":
		seq = seq.Tmux()
	case strings.HasPrefix(os.Getenv("TERM"), "screen"):
		seq = seq.Screen()
	}
	if _, err := seq.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write clipboard sequence: %w", err)
	}
	return nil
}
