package multisig

import (
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// signingIdentitySeed namespaces the derivation hash so it can never
// collide with any other use of Keccak256 over a (address, byte) pair
// elsewhere in the engine.
var signingIdentitySeed = []byte("multisigengine/multisig/signing-identity")

// DeriveSigningIdentity computes the deterministic program-signing
// identity for a multisig at multisigAddr using nonce, and reports whether
// that identity is valid. The engine does not implement a real
// program-derived-address algorithm — that curve check is the host's
// primitive to own; this rendition models "the host could not synthesize
// a valid signature for this nonce" as a parity bit of the derivation
// hash, giving CreateMultisig's InvalidNonce path something concrete to
// reject.
func DeriveSigningIdentity(multisigAddr Pubkey, nonce byte) (Pubkey, bool) {
	h := ethcrypto.Keccak256(signingIdentitySeed, multisigAddr[:], []byte{nonce})
	valid := h[0]&0x01 == 0
	var id Pubkey
	copy(id[:], h[:20])
	return id, valid
}

// FindSigningIdentity searches nonce candidates from 255 down to 0 (the
// conventional bump-seed search order) for the first one that derives a
// valid signing identity, matching the host's canonical PDA-finding
// convention. It is a convenience for callers constructing a new multisig
// who do not already know a valid nonce.
func FindSigningIdentity(multisigAddr Pubkey) (identity Pubkey, nonce byte, ok bool) {
	for n := 255; n >= 0; n-- {
		candidate, valid := DeriveSigningIdentity(multisigAddr, byte(n))
		if valid {
			return candidate, byte(n), true
		}
	}
	return Pubkey{}, 0, false
}

// RequireOwner enforces that caller is present in owners: the propose and
// approve authority check.
func RequireOwner(owners []Pubkey, caller Pubkey) error {
	if _, ok := OwnerIndex(owners, caller); !ok {
		return ErrInvalidOwner
	}
	return nil
}

// RequireExecutor enforces that caller is a CURRENT owner for cancel and
// execute, using whatever owner set is live right now rather than any
// proposal-time snapshot: cancel intentionally checks current owners so
// post-rotation owners can clean up stale proposals.
func RequireExecutor(owners []Pubkey, caller Pubkey) error {
	if _, ok := OwnerIndex(owners, caller); !ok {
		return ErrInvalidExecutor
	}
	return nil
}

// RequireSigningIdentity enforces that caller is the program-signing
// identity derived from ms's own address and nonce: configuration
// mutations may only be invoked under that identity, never by an owner
// directly. The identity is recomputed here rather than trusted from
// ms.SigningIdentity, so a corrupted cache can never widen authority.
func RequireSigningIdentity(ms *Multisig, caller Pubkey) error {
	identity, valid := DeriveSigningIdentity(ms.Address, ms.Nonce)
	if !valid || identity != caller {
		return ErrWrongSigningIdentity
	}
	return nil
}
