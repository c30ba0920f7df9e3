package multisig

import "fmt"

// InstructionInvoker is the host's "invoke this inner instruction with this
// signer seed" primitive, an external collaborator. Execute calls Invoke
// once per instruction, in order, under the multisig's program-signing
// identity. A returned error aborts the whole batch: rolling back any
// already-applied downstream side effects is the host's own
// outer-transaction responsibility, since that rollback happens outside
// state this engine owns.
type InstructionInvoker interface {
	Invoke(signingIdentity Pubkey, ins Instruction) error
}

// Execute is the atomic batch executor. It verifies executor authority,
// epoch match, and quorum; dispatches every instruction in order under the
// multisig's signing identity; and on success marks the proposal executed
// and closes its storage in one step. If any instruction fails, Execute
// returns before touching the store at all, so the proposal remains live
// and unmodified.
func (e *Engine) Execute(addr Pubkey, executor Pubkey, refundeeOverride Pubkey, invoker InstructionInvoker) (*Transaction, error) {
	tx, err := e.store.GetTransaction(addr)
	if err != nil {
		return nil, err
	}
	ms, err := e.store.GetMultisig(tx.MultisigAddress)
	if err != nil {
		return nil, err
	}
	if err := RequireExecutor(ms.Owners, executor); err != nil {
		return nil, err
	}
	if tx.OwnerSetSeqno != ms.OwnerSetSeqno {
		return nil, ErrEpochMismatch
	}
	if !MeetsThreshold(tx.Signers, ms.Threshold) {
		return nil, ErrNotEnoughSigners
	}

	prepared := prepareInstructions(tx.Instructions, ms.SigningIdentity)
	joined := dedupeJoinedAccounts(prepared)

	for i, ins := range prepared {
		if err := invoker.Invoke(ms.SigningIdentity, ins); err != nil {
			return nil, fmt.Errorf("%w: instruction %d: %v", ErrInstructionFailed, i, err)
		}
	}

	refundee := tx.Refundee
	if refundeeOverride != (Pubkey{}) {
		refundee = refundeeOverride
	}
	if err := e.store.CloseTransaction(addr); err != nil {
		return nil, err
	}
	tx.DidExecute = true
	tx.Refundee = refundee

	e.log.Info("proposal executed", "transaction", addr.String(), "executor", executor.String(),
		"refundee", refundee.String(), "instructions", len(prepared), "unique_accounts", len(joined))
	e.emit(Executed{Transaction: addr, Executor: executor, Refundee: refundee, InstructionCount: len(prepared)})
	return tx.Snapshot(), nil
}

// prepareInstructions clones instructions, downgrading IsSigner to false
// for every account equal to signingIdentity: the host will synthesize
// that account's signature from the multisig's seeds, so the stored
// is_signer flag recorded at propose time must not be taken at face value.
func prepareInstructions(instructions []Instruction, signingIdentity Pubkey) []Instruction {
	out := make([]Instruction, len(instructions))
	for i, ins := range instructions {
		accounts := make([]AccountMeta, len(ins.Accounts))
		for j, acc := range ins.Accounts {
			accounts[j] = acc
			if acc.Pubkey == signingIdentity {
				accounts[j].IsSigner = false
			}
		}
		out[i] = Instruction{
			ProgramID: ins.ProgramID,
			Accounts:  accounts,
			Data:      append([]byte(nil), ins.Data...),
		}
	}
	return out
}

// dedupeJoinedAccounts flattens every instruction's account list into one,
// preserving first occurrence. The result is not used to
// alter dispatch — each instruction is still invoked with its own account
// list — Execute uses it only for the unique_accounts count in its log line.
func dedupeJoinedAccounts(instructions []Instruction) []AccountMeta {
	seen := make(map[Pubkey]bool)
	var out []AccountMeta
	for _, ins := range instructions {
		for _, acc := range ins.Accounts {
			if seen[acc.Pubkey] {
				continue
			}
			seen[acc.Pubkey] = true
			out = append(out, acc)
		}
	}
	return out
}
