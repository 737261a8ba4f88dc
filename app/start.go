package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Run starts the modules, the message router and the HTTP server, and blocks
// until ctx is cancelled or one of them fails.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Logger

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go app.RoundModule.Run(ctx, &wg)
	go app.ShootModule.Run(ctx, &wg)

	routerErr := make(chan error, 1)
	go func() {
		routerErr <- app.Router.Run(app.routerCtx)
	}()
	select {
	case <-app.Router.Running():
	case err := <-routerErr:
		cancel()
		wg.Wait()
		return fmt.Errorf("message router stopped: %w", err)
	}

	httpErr := make(chan error, 1)
	go func() {
		httpErr <- app.HTTP.Run(ctx)
	}()

	logger.InfoContext(ctx, "Application running", "http_addr", app.Config.HTTP.Addr)

	var runErr error
	select {
	case <-ctx.Done():
		runErr = <-httpErr
	case err := <-httpErr:
		if err != nil {
			runErr = fmt.Errorf("http server stopped: %w", err)
		}
	case err := <-routerErr:
		if err != nil {
			runErr = fmt.Errorf("message router stopped: %w", err)
		}
		cancel()
		<-httpErr
	}

	cancel()
	app.routerCancel()
	wg.Wait()
	return runErr
}

// Close releases modules, the bus and the database. It is safe to call on a
// partially initialized App.
func (app *App) Close() error {
	var errs []error
	if app.routerCancel != nil {
		app.routerCancel()
	}
	if app.ShootModule != nil {
		if err := app.ShootModule.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if app.RoundModule != nil {
		if err := app.RoundModule.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing event bus: %w", err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing database: %w", err))
		}
	}
	return errors.Join(errs...)
}
