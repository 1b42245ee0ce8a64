//go:build !unix

package app

import "context"

// WatchResume is a no-op on platforms without SIGCONT.
func (a *App) WatchResume(ctx context.Context) {}
