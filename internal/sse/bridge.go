package sse

import (
	"context"

	"github.com/myshelfapp/myshelf-server/internal/status"
)

// RunStatusBridge forwards status tracker changes to SSE clients until the
// context is canceled. Run it in its own goroutine next to Manager.Start.
func RunStatusBridge(ctx context.Context, tracker *status.Tracker, manager *Manager) {
	snapshots, cancel := tracker.Subscribe()
	defer cancel()

	for {
		select {
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			manager.Emit(NewStatusEvent(snap))
		case <-ctx.Done():
			return
		}
	}
}
