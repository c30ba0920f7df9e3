package multisig

import "log/slog"

// Engine is the entry point for every multisig operation. It holds no
// state of its own beyond its collaborators: all durable state lives in
// the Manager-backed store.
type Engine struct {
	store   *Manager
	emitter Emitter
	log     *slog.Logger
}

// NewEngine constructs an Engine over store. emitter and log may be nil;
// nil falls back to NoopEmitter and slog.Default() respectively.
func NewEngine(store *Manager, emitter Emitter, log *slog.Logger) *Engine {
	if emitter == nil {
		emitter = NoopEmitter{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{store: store, emitter: emitter, log: log}
}

// GetMultisig returns the current configuration record at addr, so callers
// can inspect the live owner set without reaching into the store directly.
func (e *Engine) GetMultisig(addr Pubkey) (*Multisig, error) {
	return e.store.GetMultisig(addr)
}

// SetEmitter replaces the engine's event sink.
func (e *Engine) SetEmitter(emitter Emitter) {
	if emitter == nil {
		emitter = NoopEmitter{}
	}
	e.emitter = emitter
}

func (e *Engine) emit(ev Event) {
	e.emitter.Emit(ev)
}
