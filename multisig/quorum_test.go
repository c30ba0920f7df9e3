package multisig

import "testing"

func mustKey(b byte) Pubkey {
	var p Pubkey
	p[19] = b
	return p
}

func TestOwnerIndexFirstMatchWins(t *testing.T) {
	a, b := mustKey(1), mustKey(2)
	owners := []Pubkey{a, b, a}
	idx, ok := OwnerIndex(owners, a)
	if !ok || idx != 0 {
		t.Fatalf("OwnerIndex(a) = (%d, %v), want (0, true)", idx, ok)
	}
	if _, ok := OwnerIndex(owners, mustKey(3)); ok {
		t.Fatal("OwnerIndex found a key that is not an owner")
	}
}

func TestCountApprovalsAndMeetsThreshold(t *testing.T) {
	signers := []bool{true, false, true, true}
	if got := CountApprovals(signers); got != 3 {
		t.Fatalf("CountApprovals = %d, want 3", got)
	}
	if !MeetsThreshold(signers, 3) {
		t.Fatal("MeetsThreshold(3) should hold with 3 approvals")
	}
	if MeetsThreshold(signers, 4) {
		t.Fatal("MeetsThreshold(4) should fail with 3 approvals")
	}
}

func TestValidateThreshold(t *testing.T) {
	cases := []struct {
		threshold uint64
		nOwners   int
		wantErr   bool
	}{
		{1, 3, false},
		{3, 3, false},
		{0, 3, true},
		{4, 3, true},
		{1, 0, true},
	}
	for _, c := range cases {
		err := ValidateThreshold(c.threshold, c.nOwners)
		if (err != nil) != c.wantErr {
			t.Fatalf("ValidateThreshold(%d, %d) err = %v, wantErr = %v", c.threshold, c.nOwners, err, c.wantErr)
		}
	}
}
