package multisig

import "errors"

// Sentinel errors for the multisig engine. No numeric codes are assigned
// since this rendition is not bound to a host that enumerates error codes.
var (
	// ErrInvalidThreshold is raised when threshold is 0 or exceeds len(owners).
	ErrInvalidThreshold = errors.New("multisig: invalid threshold")
	// ErrInvalidNonce is raised when a nonce fails to derive a valid
	// program-signing identity for the multisig address.
	ErrInvalidNonce = errors.New("multisig: invalid nonce")
	// ErrNotEnoughOwners is raised when an owner-set update would leave the
	// multisig with zero owners.
	ErrNotEnoughOwners = errors.New("multisig: not enough owners")
	// ErrInvalidOwner is raised when a caller claims owner privilege but is
	// not present in the current owner set.
	ErrInvalidOwner = errors.New("multisig: invalid owner")
	// ErrInvalidExecutor is raised when cancel/execute is attempted by a
	// caller who is not a current owner.
	ErrInvalidExecutor = errors.New("multisig: invalid executor")
	// ErrMissingInstructions is raised when propose is called with an empty
	// instruction list.
	ErrMissingInstructions = errors.New("multisig: missing instructions")
	// ErrNotEnoughSigners is raised when execute is attempted below quorum.
	ErrNotEnoughSigners = errors.New("multisig: not enough signers")
	// ErrAlreadyInUse models the host's "account already initialized"
	// failure for one-shot proposal creation.
	ErrAlreadyInUse = errors.New("multisig: storage slot already in use")
	// ErrAccountNotInitialized models the host's fenced-off error for any
	// operation against a closed or never-created record.
	ErrAccountNotInitialized = errors.New("multisig: account not initialized")
	// ErrEpochMismatch models the host's raw-constraint failure when a
	// Transaction's owner_set_seqno no longer matches its Multisig's.
	ErrEpochMismatch = errors.New("multisig: owner set epoch mismatch")
	// ErrWrongSigningIdentity models the host's seeds-constraint failure
	// when a configuration mutator is invoked by anything other than the
	// multisig's own program-signing identity.
	ErrWrongSigningIdentity = errors.New("multisig: caller is not the signing identity")
	// ErrInstructionFailed wraps a downstream instruction failure during
	// Execute; the dispatcher leaves the proposal record untouched, while
	// undoing the effects of instructions that already ran earlier in the
	// batch is left to the host's outer transaction.
	ErrInstructionFailed = errors.New("multisig: inner instruction failed")
)
