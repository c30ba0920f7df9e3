package multisig

// Propose creates a new Transaction record at addr against the multisig at
// multisigAddr. Fails ErrInvalidOwner if proposer is not a current owner,
// ErrMissingInstructions if instructions is empty, and ErrAlreadyInUse if
// addr already holds a live proposal — a storage slot is one-shot. The
// proposer's own approval bit is set automatically. refundee defaults to
// proposer when the zero value is passed.
func (e *Engine) Propose(addr Pubkey, multisigAddr Pubkey, proposer Pubkey, instructions []Instruction, refundee Pubkey) (*Transaction, error) {
	ms, err := e.store.GetMultisig(multisigAddr)
	if err != nil {
		return nil, err
	}
	if err := RequireOwner(ms.Owners, proposer); err != nil {
		return nil, err
	}
	if len(instructions) == 0 {
		return nil, ErrMissingInstructions
	}
	if refundee == (Pubkey{}) {
		refundee = proposer
	}

	signers := make([]bool, len(ms.Owners))
	idx, _ := OwnerIndex(ms.Owners, proposer)
	signers[idx] = true

	rec := &Transaction{
		Address:         addr,
		MultisigAddress: multisigAddr,
		Instructions:    cloneInstructions(instructions),
		Signers:         signers,
		DidExecute:      false,
		OwnerSetSeqno:   ms.OwnerSetSeqno,
		Refundee:        refundee,
	}
	if err := e.store.CreateTransaction(rec); err != nil {
		return nil, err
	}
	e.log.Info("proposal created", "multisig", multisigAddr.String(), "transaction", addr.String(), "proposer", proposer.String())
	e.emit(Proposed{Multisig: multisigAddr, Transaction: addr, Proposer: proposer})
	return rec.Snapshot(), nil
}

// Approve records approver's approval on the proposal at addr. Fails
// ErrInvalidOwner if approver is not a current owner, and ErrEpochMismatch
// if the proposal's snapshotted owner-set epoch no longer matches the
// parent Multisig's (a membership change since proposal time invalidates
// it). Setting an already-true bit is a no-op success.
func (e *Engine) Approve(addr Pubkey, approver Pubkey) (*Transaction, error) {
	tx, err := e.store.GetTransaction(addr)
	if err != nil {
		return nil, err
	}
	ms, err := e.store.GetMultisig(tx.MultisigAddress)
	if err != nil {
		return nil, err
	}
	if err := RequireOwner(ms.Owners, approver); err != nil {
		return nil, err
	}
	if tx.OwnerSetSeqno != ms.OwnerSetSeqno {
		return nil, ErrEpochMismatch
	}
	idx, _ := OwnerIndex(ms.Owners, approver)
	if !tx.Signers[idx] {
		tx.Signers[idx] = true
		if err := e.store.PutTransaction(tx); err != nil {
			return nil, err
		}
	}
	count := CountApprovals(tx.Signers)
	e.log.Info("proposal approved", "transaction", addr.String(), "approver", approver.String(), "approvals", count, "threshold", ms.Threshold)
	e.emit(Approved{Transaction: addr, Approver: approver, Count: count, Threshold: ms.Threshold})
	return tx.Snapshot(), nil
}

// Cancel closes the proposal at addr without executing it. executor must
// be a CURRENT owner of the parent Multisig — deliberately the live owner
// set rather than the proposal's snapshot, so owners added after a
// rotation can clean up proposals stranded by that same rotation.
// refundee overrides the proposal's originally nominated refundee when
// non-zero; otherwise the original nomination is honored.
func (e *Engine) Cancel(addr Pubkey, executor Pubkey, refundeeOverride Pubkey) error {
	tx, err := e.store.GetTransaction(addr)
	if err != nil {
		return err
	}
	ms, err := e.store.GetMultisig(tx.MultisigAddress)
	if err != nil {
		return err
	}
	if err := RequireExecutor(ms.Owners, executor); err != nil {
		return err
	}
	refundee := tx.Refundee
	if refundeeOverride != (Pubkey{}) {
		refundee = refundeeOverride
	}
	if err := e.store.CloseTransaction(addr); err != nil {
		return err
	}
	e.log.Info("proposal cancelled", "transaction", addr.String(), "executor", executor.String(), "refundee", refundee.String())
	e.emit(Cancelled{Transaction: addr, Executor: executor, Refundee: refundee})
	return nil
}

func cloneInstructions(in []Instruction) []Instruction {
	out := make([]Instruction, len(in))
	for i, ins := range in {
		out[i] = Instruction{
			ProgramID: ins.ProgramID,
			Accounts:  append([]AccountMeta(nil), ins.Accounts...),
			Data:      append([]byte(nil), ins.Data...),
		}
	}
	return out
}
