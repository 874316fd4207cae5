package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskmanager/internal/logging"
)

const notifyTimeout = 30 * time.Second

// notifier runs fire-and-forget side effects detached from the request.
// Failures are logged and never returned to the caller.
type notifier struct {
	logger logging.Logger
	wg     sync.WaitGroup
}

func (n *notifier) Go(ctx context.Context, what string, fn func(ctx context.Context) error) {
	bg := context.WithoutCancel(ctx)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(bg, notifyTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			n.logger.Error(ctx, "background task failed", "task", what, "error", err)
		}
	}()
}

// Wait blocks until every pending background task has finished.
func (n *notifier) Wait() {
	n.wg.Wait()
}
