// Package claudehook reads the JSON Claude Code pipes to statusline commands.
package claudehook

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"time"
)

// ReadTimeout bounds how long Read waits for stdin to reach EOF.
const ReadTimeout = 100 * time.Millisecond

const maxHookBytes = 1 << 20

type Model struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type Workspace struct {
	CurrentDir string `json:"current_dir"`
	ProjectDir string `json:"project_dir"`
}

// Data is the subset of hook fields this tool logs. Unknown fields are
// ignored.
type Data struct {
	HookEventName  string     `json:"hook_event_name,omitempty"`
	SessionID      string     `json:"session_id,omitempty"`
	TranscriptPath string     `json:"transcript_path,omitempty"`
	Cwd            string     `json:"cwd,omitempty"`
	Model          *Model     `json:"model,omitempty"`
	Workspace      *Workspace `json:"workspace,omitempty"`
	Version        string     `json:"version,omitempty"`
}

// Read drains r when it is not a terminal and parses it as hook JSON. It
// returns nil on a terminal, on timeout, on empty input and on bad JSON.
// A reader that never reaches EOF is left to its goroutine.
func Read(r io.Reader, isTerminal bool, timeout time.Duration, logger *slog.Logger) *Data {
	if isTerminal {
		logger.Debug("stdin is a terminal, no hook data")
		return nil
	}

	type result struct {
		data []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		b, err := io.ReadAll(io.LimitReader(r, maxHookBytes))
		ch <- result{b, err}
	}()

	var res result
	select {
	case res = <-ch:
	case <-time.After(timeout):
		logger.Debug("no hook data before timeout", "timeout", timeout)
		return nil
	}
	if res.err != nil {
		logger.Debug("reading hook data", "err", res.err)
		return nil
	}
	if strings.TrimSpace(string(res.data)) == "" {
		logger.Debug("no hook data received")
		return nil
	}

	var d Data
	if err := json.Unmarshal(res.data, &d); err != nil {
		logger.Debug("parsing hook data", "err", err)
		return nil
	}
	logger.Debug("hook data received", "event", d.HookEventName, "session_id", d.SessionID)
	return &d
}
