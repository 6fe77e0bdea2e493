package repository

import (
	"context"
	"strings"
	"testing"

	"hireflow/internal/domain/contract"

	"github.com/google/uuid"
)

// Each signature statement sets only its own flag and derives signed from the
// other party's flag in the same UPDATE.
func TestSignatureQueries_DeriveSignedFromOtherParty(t *testing.T) {
	cases := map[contract.Party]struct{ own, other string }{
		contract.PartyEmployer:  {"signed_by_employer = TRUE", "WHEN signed_by_candidate THEN 'signed'"},
		contract.PartyCandidate: {"signed_by_candidate = TRUE", "WHEN signed_by_employer THEN 'signed'"},
	}
	if len(signatureQueries) != len(cases) {
		t.Fatalf("expected %d signature queries, got %d", len(cases), len(signatureQueries))
	}
	for party, want := range cases {
		q, ok := signatureQueries[party]
		if !ok {
			t.Fatalf("no signature query for %s", party)
		}
		if !strings.Contains(q, want.own) || !strings.Contains(q, want.other) {
			t.Fatalf("%s query does not set its flag and derive status:\n%s", party, q)
		}
		if strings.Count(q, "= TRUE") != 1 {
			t.Fatalf("%s query sets more than one flag:\n%s", party, q)
		}
	}
}

func TestSetSignature_UnknownParty(t *testing.T) {
	r := NewPostgresContractRepository(nil)
	if _, err := r.SetSignature(context.Background(), uuid.New(), contract.Party("witness")); err == nil {
		t.Fatalf("expected error for unknown party")
	}
}
