//go:build unix

package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WatchResume sweeps expired cache entries each time the process is resumed
// (SIGCONT) until ctx is done.
func (a *App) WatchResume(ctx context.Context) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGCONT)
	go func() {
		defer signal.Stop(sigs)
		a.forwardResume(ctx, sigs)
	}()
}
