package multisig

// Event is a structured record of a state transition the engine made: one
// small interface, no framework. Event is intentionally minimal: hosts
// that want a richer audit trail can type-switch on the concrete event
// structs below.
type Event interface {
	EventType() string
}

// Emitter broadcasts events to downstream subscribers (an indexer, an RPC
// stream, a log sink). The engine never depends on a concrete sink.
type Emitter interface {
	Emit(Event)
}

// NoopEmitter discards every event. It is the default when a caller does
// not wire an Emitter.
type NoopEmitter struct{}

// Emit implements Emitter.
func (NoopEmitter) Emit(Event) {}

// ConfigCreated is emitted by CreateMultisig.
type ConfigCreated struct {
	Multisig  Pubkey
	Owners    []Pubkey
	Threshold uint64
}

func (ConfigCreated) EventType() string { return "multisig.config_created" }

// ConfigChanged is emitted by ChangeThreshold, SetOwners, and
// SetOwnersAndChangeThreshold.
type ConfigChanged struct {
	Multisig      Pubkey
	Owners        []Pubkey
	Threshold     uint64
	OwnerSetSeqno uint64
}

func (ConfigChanged) EventType() string { return "multisig.config_changed" }

// Proposed is emitted by Propose.
type Proposed struct {
	Multisig    Pubkey
	Transaction Pubkey
	Proposer    Pubkey
}

func (Proposed) EventType() string { return "multisig.proposed" }

// Approved is emitted by Approve, including on idempotent no-op approvals.
type Approved struct {
	Transaction Pubkey
	Approver    Pubkey
	Count       uint64
	Threshold   uint64
}

func (Approved) EventType() string { return "multisig.approved" }

// Cancelled is emitted by Cancel.
type Cancelled struct {
	Transaction Pubkey
	Executor    Pubkey
	Refundee    Pubkey
}

func (Cancelled) EventType() string { return "multisig.cancelled" }

// Executed is emitted by Execute on success.
type Executed struct {
	Transaction      Pubkey
	Executor         Pubkey
	Refundee         Pubkey
	InstructionCount int
}

func (Executed) EventType() string { return "multisig.executed" }
