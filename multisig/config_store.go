package multisig

// CreateMultisig initializes a new Multisig record at addr with the given
// owners, threshold, and nonce. Callable by any caller — there is no
// authority check on creation.
//
// nonce must derive a valid program-signing identity for addr (see
// authority.go); callers who do not already know a valid nonce should use
// FindSigningIdentity to obtain one.
func (e *Engine) CreateMultisig(addr Pubkey, owners []Pubkey, threshold uint64, nonce byte) (*Multisig, error) {
	if err := ValidateThreshold(threshold, len(owners)); err != nil {
		return nil, err
	}
	identity, valid := DeriveSigningIdentity(addr, nonce)
	if !valid {
		return nil, ErrInvalidNonce
	}
	rec := &Multisig{
		Address:         addr,
		Owners:          append([]Pubkey(nil), owners...),
		Threshold:       threshold,
		Nonce:           nonce,
		SigningIdentity: identity,
		OwnerSetSeqno:   0,
	}
	if err := e.store.PutMultisig(rec); err != nil {
		return nil, err
	}
	e.log.Info("multisig created", "multisig", rec.Address.String(), "owners", len(owners), "threshold", threshold)
	e.emit(ConfigCreated{Multisig: rec.Address, Owners: append([]Pubkey(nil), owners...), Threshold: threshold})
	return rec.Snapshot(), nil
}

// ChangeThreshold updates a multisig's threshold in place. Callable only
// under the multisig's own program-signing identity. Does not bump
// OwnerSetSeqno: the owner set that may approve proposals is unchanged, so
// pre-existing approvals remain meaningful.
func (e *Engine) ChangeThreshold(multisigAddr Pubkey, caller Pubkey, newThreshold uint64) (*Multisig, error) {
	ms, err := e.store.GetMultisig(multisigAddr)
	if err != nil {
		return nil, err
	}
	if err := RequireSigningIdentity(ms, caller); err != nil {
		return nil, err
	}
	if err := ValidateThreshold(newThreshold, len(ms.Owners)); err != nil {
		return nil, err
	}
	ms.Threshold = newThreshold
	if err := e.store.PutMultisig(ms); err != nil {
		return nil, err
	}
	e.log.Info("multisig threshold changed", "multisig", ms.Address.String(), "threshold", newThreshold)
	e.emit(ConfigChanged{Multisig: ms.Address, Owners: append([]Pubkey(nil), ms.Owners...), Threshold: ms.Threshold, OwnerSetSeqno: ms.OwnerSetSeqno})
	return ms.Snapshot(), nil
}

// SetOwners replaces a multisig's owner set in place. Callable only under
// the multisig's own program-signing identity. Fails ErrNotEnoughOwners on
// an empty set. If the current threshold exceeds the new owner count, the
// threshold is clamped down to len(newOwners) rather than rejected — a
// deliberate design choice to avoid bricking the multisig. Always
// increments OwnerSetSeqno, invalidating every pending proposal's
// approvals.
func (e *Engine) SetOwners(multisigAddr Pubkey, caller Pubkey, newOwners []Pubkey) (*Multisig, error) {
	ms, err := e.store.GetMultisig(multisigAddr)
	if err != nil {
		return nil, err
	}
	if err := RequireSigningIdentity(ms, caller); err != nil {
		return nil, err
	}
	if len(newOwners) == 0 {
		return nil, ErrNotEnoughOwners
	}
	ms.Owners = append([]Pubkey(nil), newOwners...)
	if ms.Threshold > uint64(len(ms.Owners)) {
		ms.Threshold = uint64(len(ms.Owners))
	}
	ms.OwnerSetSeqno++
	if err := e.store.PutMultisig(ms); err != nil {
		return nil, err
	}
	e.log.Info("multisig owners changed", "multisig", ms.Address.String(), "owners", len(ms.Owners), "owner_set_seqno", ms.OwnerSetSeqno)
	e.emit(ConfigChanged{Multisig: ms.Address, Owners: append([]Pubkey(nil), ms.Owners...), Threshold: ms.Threshold, OwnerSetSeqno: ms.OwnerSetSeqno})
	return ms.Snapshot(), nil
}

// SetOwnersAndChangeThreshold atomically replaces both the owner set and
// the threshold. Unlike SetOwners, an out-of-range newThreshold is
// rejected rather than clamped: a caller supplying both values explicitly
// is assumed to mean exactly what it asked for. Always increments
// OwnerSetSeqno.
func (e *Engine) SetOwnersAndChangeThreshold(multisigAddr Pubkey, caller Pubkey, newOwners []Pubkey, newThreshold uint64) (*Multisig, error) {
	ms, err := e.store.GetMultisig(multisigAddr)
	if err != nil {
		return nil, err
	}
	if err := RequireSigningIdentity(ms, caller); err != nil {
		return nil, err
	}
	if len(newOwners) == 0 {
		return nil, ErrNotEnoughOwners
	}
	if err := ValidateThreshold(newThreshold, len(newOwners)); err != nil {
		return nil, err
	}
	ms.Owners = append([]Pubkey(nil), newOwners...)
	ms.Threshold = newThreshold
	ms.OwnerSetSeqno++
	if err := e.store.PutMultisig(ms); err != nil {
		return nil, err
	}
	e.log.Info("multisig owners and threshold changed", "multisig", ms.Address.String(), "owners", len(ms.Owners), "threshold", ms.Threshold, "owner_set_seqno", ms.OwnerSetSeqno)
	e.emit(ConfigChanged{Multisig: ms.Address, Owners: append([]Pubkey(nil), ms.Owners...), Threshold: ms.Threshold, OwnerSetSeqno: ms.OwnerSetSeqno})
	return ms.Snapshot(), nil
}
