package runtime

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/stockroom-app/variantd/pkg/provider"
	"github.com/stockroom-app/variantd/pkg/service"
)

// Start initializes the provider once and serves its gate until ctx is
// done. Providers that implement provider.IWatcher are watched alongside;
// a watcher failure is logged and does not stop the service.
func Start(ctx context.Context, server service.IService, p provider.IProvider) error {
	if err := p.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize provider: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	if w, ok := p.(provider.IWatcher); ok {
		g.Go(func() error {
			if err := w.Watch(ctx); err != nil {
				log.WithError(err).Warn("variant source watcher stopped")
			}
			return nil
		})
	}
	g.Go(func() error {
		// the watcher has nothing to report once serving stops
		defer cancel()
		return server.Serve(ctx, p)
	})
	return g.Wait()
}
