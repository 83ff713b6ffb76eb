// Package prompt implements the human handoff points of a run.
//
// Acknowledgments are read from the controlling terminal, never from the
// stream a shopping list or product list was read from.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
)

// Prompter blocks until a human acknowledges message
type Prompter interface {
	Acknowledge(ctx context.Context, message string) error
}

// Terminal prompts on out and waits for a line on in
type Terminal struct {
	out  io.Writer
	open func() (io.ReadCloser, error)
}

// NewTTY prompts on stderr and reads from /dev/tty, falling back to stdin
// where no controlling terminal device exists.
func NewTTY() *Terminal {
	return &Terminal{out: os.Stderr, open: openTTY}
}

// NewTerminal prompts on out and reads acknowledgments from in
func NewTerminal(out io.Writer, in io.Reader) *Terminal {
	return &Terminal{out: out, open: func() (io.ReadCloser, error) {
		return io.NopCloser(in), nil
	}}
}

func openTTY() (io.ReadCloser, error) {
	if runtime.GOOS == "windows" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open("/dev/tty")
}

// Acknowledge prints message and blocks until a line is entered
func (t *Terminal) Acknowledge(ctx context.Context, message string) error {
	fmt.Fprintf(t.out, "\n%s\n", message)

	in, err := t.open()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	defer in.Close()

	done := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(in).ReadString('\n')
		if err == io.EOF {
			err = nil
		}
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
