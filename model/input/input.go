// Package input gets the text to parse, either from a reader (stdin) or by
// running the command on this machine.
package input

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"cmdjson/model/parseerr"
)

// errInvalidUTF8 is returned for input that is not text.
var errInvalidUTF8 = errors.New("input is not valid UTF-8")

// ReadAll reads r to the end. The whole input is held in memory and must be
// valid UTF-8.
func ReadAll(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err == nil && !utf8.Valid(b) {
		err = errInvalidUTF8
	}
	if err != nil {
		return "", errors.WithStack(&parseerr.IOError{Source: "stdin", Err: err})
	}
	return string(b), nil
}

// Run executes name with args and returns its stdout. A zero timeout means
// only ctx bounds the run.
func Run(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	source := strings.Join(append([]string{name}, args...), " ")
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = errors.Wrap(err, msg)
		}
		return "", errors.WithStack(&parseerr.IOError{Source: source, Err: err})
	}
	if !utf8.Valid(stdout.Bytes()) {
		return "", errors.WithStack(&parseerr.IOError{Source: source, Err: errInvalidUTF8})
	}
	return stdout.String(), nil
}
