package hotpatch

import (
	"fmt"
	"log/slog"
)

// Engine ties the patch store and a hooking backend to the module's
// load/unload boundary. Activate runs the whole hook installation as one
// transaction; Deactivate removes the hooks and reverts every patch the
// store still tracks.
type Engine struct {
	store   *Store
	backend Backend
	log     *slog.Logger

	active bool
	hooks  []Attachment
}

// NewEngine returns an inactive engine. A nil logger discards everything.
func NewEngine(store *Store, backend Backend, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{store: store, backend: backend, log: logger}
}

// Store exposes the byte-patch store for collaborators that patch memory
// directly rather than through hooks.
func (e *Engine) Store() *Store { return e.store }

// Activate installs the requested hooks in a single transaction. One
// transaction runs per activation: a Begin or Commit failure, or any attach
// failure, leaves every hook uninstalled and the engine inactive, and the
// error is the caller's signal to refuse the load.
func (e *Engine) Activate(hooks ...Attachment) error {
	if e.active {
		return fmt.Errorf("%w: already active", ErrInvalidState)
	}

	tx, err := Begin(e.backend)
	if err != nil {
		e.log.Error("hook transaction refused", "err", err)
		return err
	}
	// Roll back on any early return. A successful commit makes this a
	// no-op refusal.
	defer tx.Abort()

	for _, h := range hooks {
		if err := tx.Attach(h.Original, h.Replacement); err != nil {
			e.log.Error("attach failed, aborting transaction",
				"original", fmt.Sprintf("%#x", uintptr(h.Original)), "err", err)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		e.log.Error("commit failed, hooks reverted", "err", err)
		return err
	}

	e.hooks = tx.Staged()
	e.active = true
	e.log.Info("hooks installed", "count", len(e.hooks))
	return nil
}

// Deactivate unhooks everything Activate installed, then reverts every
// remaining patch. Safe to call on an inactive engine.
func (e *Engine) Deactivate() {
	for _, h := range e.hooks {
		e.store.Revert(h.Original)
	}
	e.store.RevertAll()

	e.hooks = nil
	e.active = false
	e.log.Info("module deactivated")
}

// Active reports whether hooks are currently installed.
func (e *Engine) Active() bool { return e.active }
