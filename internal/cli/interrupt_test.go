package cli

import (
	"bytes"
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterruptHandlerCancelsContext(t *testing.T) {
	var buf bytes.Buffer
	h := NewInterruptHandler(&buf)

	ctx := h.HandleInterrupts(context.Background())
	assert.False(t, h.WasInterrupted())

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context was not canceled after SIGTERM")
	}

	assert.True(t, h.WasInterrupted())
	assert.Contains(t, buf.String(), "Interrupted")
}

func TestInterruptHandlerDefaultWriter(t *testing.T) {
	h := NewInterruptHandler(nil)
	assert.NotNil(t, h.writer)
}
