package multisig

// OwnerIndex returns the position of key in owners, first match wins.
// Duplicate keys are permitted but pointless: a duplicate can only ever
// contribute the one approval bit at its first occurrence (see DESIGN.md's
// "duplicate public keys" open question).
func OwnerIndex(owners []Pubkey, key Pubkey) (int, bool) {
	for i, o := range owners {
		if o == key {
			return i, true
		}
	}
	return 0, false
}

// CountApprovals returns the number of true bits in signers.
func CountApprovals(signers []bool) uint64 {
	var n uint64
	for _, s := range signers {
		if s {
			n++
		}
	}
	return n
}

// MeetsThreshold reports whether signers carries at least threshold
// approvals.
func MeetsThreshold(signers []bool, threshold uint64) bool {
	return CountApprovals(signers) >= threshold
}

// ValidateThreshold enforces 1 <= threshold <= nOwners. threshold is an
// unsigned 64-bit count; a client that sends a negative literal reaches
// this check as its two's-complement unsigned reading, which fails here in
// the common case since it will almost certainly exceed nOwners.
func ValidateThreshold(threshold uint64, nOwners int) error {
	if threshold == 0 {
		return ErrInvalidThreshold
	}
	if nOwners < 0 || threshold > uint64(nOwners) {
		return ErrInvalidThreshold
	}
	return nil
}
