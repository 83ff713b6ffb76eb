package prompt

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestTerminal_Acknowledge(t *testing.T) {
	defer goleak.VerifyNone(t)
	var out bytes.Buffer
	term := NewTerminal(&out, strings.NewReader("\n"))

	require.NoError(t, term.Acknowledge(context.Background(), "Press Enter to continue..."))
	assert.Contains(t, out.String(), "Press Enter to continue...")
}

func TestTerminal_AcknowledgeEOF(t *testing.T) {
	defer goleak.VerifyNone(t)
	term := NewTerminal(io.Discard, strings.NewReader(""))

	assert.NoError(t, term.Acknowledge(context.Background(), "done?"))
}

func TestTerminal_AcknowledgeCancelled(t *testing.T) {
	// Closing the writer releases the pending read before the leak check
	defer goleak.VerifyNone(t)
	reader, writer := io.Pipe()
	defer writer.Close()
	term := NewTerminal(io.Discard, reader)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, term.Acknowledge(ctx, "waiting"), context.Canceled)
}
