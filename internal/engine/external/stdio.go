package external

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/huepick/internal/engine"
	"github.com/jmylchreest/huepick/internal/security"
	"github.com/jmylchreest/huepick/pkg/plugin"
)

const (
	// maxLineSize bounds a single JSON event line.
	maxLineSize = 4 * 1024 * 1024

	// maxStderrSize bounds the engine stderr kept for error messages.
	maxStderrSize = 64 * 1024
)

// --- JSON-stdio ---

func (e *Engine) runJSON(ctx context.Context, req plugin.Request, sink engine.Sink) error {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	cmd := exec.CommandContext(ctx, e.path)
	cmd.Stdin = bytes.NewReader(reqJSON)

	stderr := security.NewLimitedBuffer(maxStderrSize)
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open engine output: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}

	res, readErr := readEvents(ctx, stdout, sink, e.logger)
	if readErr != nil {
		_ = cmd.Process.Kill()
	}
	waitErr := cmd.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	if readErr != nil {
		return fmt.Errorf("failed to read engine output: %w", readErr)
	}
	if waitErr != nil {
		if res.reported {
			return nil
		}
		return fmt.Errorf("engine execution failed: %w\nStderr: %s", waitErr, strings.TrimSpace(stderr.String()))
	}
	if !res.final && !res.reported {
		return plugin.ErrNoFinal
	}
	return nil
}

// streamResult summarises a JSON event stream.
type streamResult struct {
	// final is set once a final data event has been forwarded.
	final bool

	// reported is set once an error event has been forwarded.
	reported bool

	// skipped counts lines that were not valid events.
	skipped int
}

// readEvents decodes one event per line from r and forwards it to sink.
// Blank lines are ignored; malformed lines and data after the final event
// are logged and skipped. Reading stops at EOF or when sink fails.
func readEvents(ctx context.Context, r io.Reader, sink engine.Sink, logger hclog.Logger) (streamResult, error) {
	var res streamResult

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}

		data, errEvent, err := engine.DecodeEvent(raw)
		if err != nil {
			res.skipped++
			logger.Warn("skipping engine output", "line", line, "error", err)
			continue
		}

		if errEvent != nil {
			res.reported = true
			if err := sink.Error(ctx, errEvent.Msg); err != nil {
				return res, err
			}
			continue
		}

		if res.final {
			logger.Warn("ignoring data after final event", "line", line)
			continue
		}
		if err := sink.Data(ctx, *data); err != nil {
			return res, err
		}
		res.final = data.Final
	}

	if err := scanner.Err(); err != nil {
		return res, err
	}
	return res, nil
}
