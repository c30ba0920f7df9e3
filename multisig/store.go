package multisig

import (
	"errors"
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"multisigengine/storage"
)

// Manager persists Multisig and Transaction records in a host-provided
// key-value store, following core/state/manager.go's pattern: one
// byte-string prefix per record kind, RLP as the wire format, and
// Keccak256 used only to namespace keys (not to build a merkle trie — this
// engine's rent model is "delete the record", so there is no root to
// commit; see DESIGN.md).
type Manager struct {
	db storage.Database
}

// NewManager wraps db. db may be a storage.MemDB for tests or a
// storage.LevelDB for a real deployment; both satisfy storage.Database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

var (
	multisigPrefix    = []byte("multisig/config/")
	transactionPrefix = []byte("multisig/tx/")
)

func recordKey(prefix []byte, addr Pubkey) []byte {
	h := ethcrypto.Keccak256(addr[:])
	key := make([]byte, 0, len(prefix)+len(h))
	key = append(key, prefix...)
	key = append(key, h...)
	return key
}

// GetMultisig loads the Multisig stored at addr. A never-created address
// reports ErrAccountNotInitialized, the same class of error a closed
// Transaction reports: the host's account model makes "never existed" and
// "existed and was closed" indistinguishable from outside, and the error
// class here is shared for consistency with that (Multisig records are
// never closed, but the error class follows the convention anyway).
func (m *Manager) GetMultisig(addr Pubkey) (*Multisig, error) {
	raw, err := m.db.Get(recordKey(multisigPrefix, addr))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrAccountNotInitialized
		}
		return nil, err
	}
	var rec Multisig
	if err := rlp.DecodeBytes(raw, &rec); err != nil {
		return nil, fmt.Errorf("multisig: decode config record: %w", err)
	}
	return &rec, nil
}

// PutMultisig persists rec, overwriting any prior value at rec.Address.
// Configuration mutation is always an update-in-place (the record is never
// destroyed by the engine).
func (m *Manager) PutMultisig(rec *Multisig) error {
	raw, err := rlp.EncodeToBytes(rec)
	if err != nil {
		return fmt.Errorf("multisig: encode config record: %w", err)
	}
	return m.db.Put(recordKey(multisigPrefix, rec.Address), raw)
}

// HasTransaction reports whether a proposal is currently live at addr.
func (m *Manager) HasTransaction(addr Pubkey) (bool, error) {
	return m.db.Has(recordKey(transactionPrefix, addr))
}

// GetTransaction loads the Transaction stored at addr. A closed or
// never-created proposal reports ErrAccountNotInitialized.
func (m *Manager) GetTransaction(addr Pubkey) (*Transaction, error) {
	raw, err := m.db.Get(recordKey(transactionPrefix, addr))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrAccountNotInitialized
		}
		return nil, err
	}
	var rec Transaction
	if err := rlp.DecodeBytes(raw, &rec); err != nil {
		return nil, fmt.Errorf("multisig: decode transaction record: %w", err)
	}
	return &rec, nil
}

// CreateTransaction persists rec at rec.Address, failing ErrAlreadyInUse if
// the slot is already occupied by a live proposal: propose is one-shot per
// storage slot.
func (m *Manager) CreateTransaction(rec *Transaction) error {
	key := recordKey(transactionPrefix, rec.Address)
	exists, err := m.db.Has(key)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyInUse
	}
	raw, err := rlp.EncodeToBytes(rec)
	if err != nil {
		return fmt.Errorf("multisig: encode transaction record: %w", err)
	}
	return m.db.Put(key, raw)
}

// PutTransaction overwrites an already-live proposal (used by Approve to
// persist an updated signer bitmap). It does not enforce one-shot creation;
// callers must have already loaded the record via GetTransaction.
func (m *Manager) PutTransaction(rec *Transaction) error {
	raw, err := rlp.EncodeToBytes(rec)
	if err != nil {
		return fmt.Errorf("multisig: encode transaction record: %w", err)
	}
	return m.db.Put(recordKey(transactionPrefix, rec.Address), raw)
}

// CloseTransaction deletes the proposal record at addr, modeling the
// host's storage deallocation on execute/cancel: a terminated proposal is
// closed rather than left around with a tombstone flag.
func (m *Manager) CloseTransaction(addr Pubkey) error {
	return m.db.Delete(recordKey(transactionPrefix, addr))
}
