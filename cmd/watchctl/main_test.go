package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The watch loop tears down through the command context, so the context
// handed to ExecuteContext must reach it. A pre-canceled context has to stop
// the command immediately instead of leaving it looping forever.
func TestWatchStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := rootCmd()
	cmd.SetArgs([]string{
		"watch",
		"--start", "2025-12-25",
		"--end", "2025-12-25",
		"--server", "http://127.0.0.1:1",
		"--interval", "1h",
	})

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop on canceled context")
	}
}
