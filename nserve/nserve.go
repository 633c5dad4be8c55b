package nserve

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// Callback is invoked when the Hook it is registered for is invoked.
// Callbacks may register more callbacks, for example a Start callback
// can register the Stop callback that undoes it.
type Callback func(ctx context.Context, app *App) error

// App provides hooks to start and stop the parts of a server.
type App struct {
	lock    sync.Mutex // held when adding hooks
	runLock sync.Mutex // held when running hooks
	hooks   map[hookId][]Callback
	ctx     context.Context
}

// NewApp creates an App whose context is derived from ctx.  The
// context is cancelled by the Shutdown hook.
func NewApp(ctx context.Context) *App {
	ctx, cancel := context.WithCancel(ctx)
	app := &App{
		hooks: make(map[hookId][]Callback),
		ctx:   ctx,
	}
	app.On(Shutdown, func(context.Context, *App) error {
		cancel()
		return nil
	})
	return app
}

// Context is cancelled when the App shuts down
func (app *App) Context() context.Context { return app.ctx }

// On registers callbacks to be invoked on hook invocation.
func (app *App) On(h *Hook, callbacks ...Callback) {
	app.lock.Lock()
	defer app.lock.Unlock()
	app.hooks[h.Id] = append(app.hooks[h.Id], callbacks...)
}

// Do invokes the callbacks for a hook.  Errors are combined with the
// hook's error combiner.  When there is an error, the hooks listed
// by OnError are invoked too.
func (app *App) Do(h *Hook) error {
	app.runLock.Lock()
	defer app.runLock.Unlock()
	return app.do(h)
}

func (app *App) do(h *Hook) error {
	order, continuePast, ec, onError := h.settings()
	if ec == nil {
		ec = func(err, _ error) error { return err }
	}
	ecw := func(e1, e2 error) error {
		if e1 == nil {
			return e2
		}
		if e2 == nil {
			return e1
		}
		return ec(e1, e2)
	}
	app.lock.Lock()
	callbacks := make([]Callback, len(app.hooks[h.Id]))
	copy(callbacks, app.hooks[h.Id])
	app.lock.Unlock()
	var err error
	run := func(cb Callback) {
		err = ecw(err, app.call(h, cb))
	}
	if order == ForwardOrder {
		for _, cb := range callbacks {
			run(cb)
			if err != nil && !continuePast {
				break
			}
		}
	} else {
		for i := len(callbacks) - 1; i >= 0; i-- {
			run(callbacks[i])
			if err != nil && !continuePast {
				break
			}
		}
	}
	if err != nil {
		for _, oe := range onError {
			err = ecw(err, app.do(oe))
		}
	}
	return err
}

func (app *App) call(h *Hook, cb Callback) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic in %s: %v", h, r)
		}
	}()
	return cb(app.ctx, app)
}
