// Package multisig implements an m-of-n authorization engine: a program
// that holds a delegated signing capability and releases it only once a
// configurable quorum of named owners has approved a proposed batch of
// downstream instructions.
//
// The package groups five conceptual components behind one state machine:
// the Quorum Model (pure predicates, quorum.go), the Configuration Store
// (the Multisig record, config_store.go), the Proposal Store (the
// Transaction record, proposal_store.go), the Authority Gate
// (authority.go), and the Execution Dispatcher (dispatcher.go). They share
// one package because almost every invariant in the data model spans at
// least two of them.
package multisig

import (
	"fmt"

	"multisigengine/crypto"
)

// Pubkey is a raw 20-byte public key, matching the host's account
// addressing scheme. Owners, program ids, and the derived signing identity
// are all represented this way so records remain RLP-encodable without
// pulling bech32 formatting into the hot path.
type Pubkey [20]byte

// Address renders p as a human-readable address under prefix, for logging
// and diagnostics only.
func (p Pubkey) Address(prefix crypto.AddressPrefix) crypto.Address {
	return crypto.MustNewAddress(prefix, p[:])
}

func (p Pubkey) String() string {
	return p.Address(crypto.NHBPrefix).String()
}

// ToPubkey narrows a crypto.Address to the raw key representation records
// are persisted with.
func ToPubkey(addr crypto.Address) (Pubkey, error) {
	b := addr.Bytes()
	if len(b) != 20 {
		return Pubkey{}, fmt.Errorf("multisig: address must be 20 bytes, got %d", len(b))
	}
	var p Pubkey
	copy(p[:], b)
	return p, nil
}

// AccountMeta describes one account referenced by an inner instruction,
// mirroring the host's account metadata triple.
type AccountMeta struct {
	Pubkey     Pubkey
	IsSigner   bool
	IsWritable bool
}

// Instruction is a unit of downstream work dispatched by Execute: a program
// id, the accounts it touches, and opaque instruction data. The engine
// never interprets Data; it is opaque payload the host's instruction
// invoker is responsible for decoding and applying.
type Instruction struct {
	ProgramID Pubkey
	Accounts  []AccountMeta
	Data      []byte
}

// Multisig is the configuration record (C2): an owner set, a threshold,
// and the nonce used to re-derive this multisig's program-signing
// identity. Owned exclusively by the Configuration Store.
type Multisig struct {
	// Address is the storage key this record lives at (the host account
	// the Configuration Store was asked to initialize).
	Address Pubkey
	// Owners is deliberately allowed to contain duplicates; see the
	// "duplicate public keys" open question in DESIGN.md. OwnerIndex
	// resolves the first match.
	Owners []Pubkey
	// Threshold is an unsigned count; loosely-typed clients may deliver
	// negative inputs as their two's-complement unsigned reading, so this
	// is read as raw magnitude rather than assumed non-negative upstream.
	Threshold uint64
	// Nonce is stored so the signing identity can be re-derived on every
	// call rather than trusted from caller input.
	Nonce byte
	// SigningIdentity is cached at creation time from Address and Nonce.
	SigningIdentity Pubkey
	// OwnerSetSeqno increments on every membership change (never on a
	// threshold-only change) and fences proposals made against a stale
	// owner set.
	OwnerSetSeqno uint64
}

// Snapshot returns a defensive deep copy: callers that want to inspect a
// live record without risking aliasing mutation of the stored value get
// their own copy.
func (m *Multisig) Snapshot() *Multisig {
	if m == nil {
		return nil
	}
	out := *m
	out.Owners = append([]Pubkey(nil), m.Owners...)
	return &out
}

// Transaction is the proposal record (C3): a staged batch of instructions
// awaiting quorum, with an owner-indexed approval bitmap and the epoch it
// was proposed against.
type Transaction struct {
	// Address is the storage key this record lives at.
	Address Pubkey
	// MultisigAddress references the parent Multisig by its storage key.
	MultisigAddress Pubkey
	Instructions    []Instruction
	// Signers is a bitmap of length len(Multisig.Owners) AT PROPOSAL TIME;
	// Signers[i] is true iff the owner at position i has approved.
	Signers []bool
	// DidExecute transitions false -> true at most once. Once a
	// Transaction executes or is cancelled it is closed (removed from the
	// store) in the same step, so DidExecute is mostly useful for the
	// brief window a caller may inspect an in-memory Snapshot mid-call.
	DidExecute bool
	// OwnerSetSeqno is the Multisig's OwnerSetSeqno snapshotted at
	// proposal time; execute/approve require it to still match.
	OwnerSetSeqno uint64
	// Refundee receives the freed rent-equivalent lamports when this
	// record is closed, whether by execute or by cancel.
	Refundee Pubkey
}

// Snapshot returns a defensive deep copy.
func (t *Transaction) Snapshot() *Transaction {
	if t == nil {
		return nil
	}
	out := *t
	out.Instructions = append([]Instruction(nil), t.Instructions...)
	for i, ins := range out.Instructions {
		out.Instructions[i].Accounts = append([]AccountMeta(nil), ins.Accounts...)
		out.Instructions[i].Data = append([]byte(nil), ins.Data...)
	}
	out.Signers = append([]bool(nil), t.Signers...)
	return &out
}
