package access

import (
	"testing"

	"hireflow/internal/domain/candidate"
	"hireflow/internal/domain/job"
	"hireflow/internal/domain/user"

	"github.com/google/uuid"
)

func fixture() (user.User, user.User, user.User, Parties) {
	employer := user.User{ID: uuid.New(), IsEmployer: true, IsActive: true}
	cand := user.User{ID: uuid.New(), IsActive: true}
	admin := user.User{ID: uuid.New(), IsAdmin: true, IsActive: true}
	p := Parties{
		Job:       job.Posting{ID: uuid.New(), EmployerID: employer.ID},
		Candidate: candidate.Candidate{ID: uuid.New(), UserID: cand.ID},
	}
	return employer, cand, admin, p
}

func TestIsEmployerOf(t *testing.T) {
	employer, cand, admin, p := fixture()

	if !IsEmployerOf(employer, p) {
		t.Fatalf("owning employer should pass")
	}
	if IsEmployerOf(cand, p) {
		t.Fatalf("candidate should not pass employer check")
	}
	if IsEmployerOf(admin, p) {
		t.Fatalf("admin does not own the job")
	}

	other := user.User{ID: uuid.New(), IsEmployer: true, IsActive: true}
	if IsEmployerOf(other, p) {
		t.Fatalf("another employer should not pass")
	}

	employer.IsActive = false
	if IsEmployerOf(employer, p) {
		t.Fatalf("inactive employer should not pass")
	}
}

func TestIsCandidateOwnerOf(t *testing.T) {
	employer, cand, _, p := fixture()

	if !IsCandidateOwnerOf(cand, p) {
		t.Fatalf("owning candidate should pass")
	}
	if IsCandidateOwnerOf(employer, p) {
		t.Fatalf("employer should not pass candidate check")
	}
}

func TestCanView(t *testing.T) {
	employer, cand, admin, p := fixture()
	stranger := user.User{ID: uuid.New(), IsActive: true}

	for _, u := range []user.User{employer, cand, admin} {
		if !CanView(u, p) {
			t.Fatalf("user %s should be able to view", u.ID)
		}
	}
	if CanView(stranger, p) {
		t.Fatalf("stranger should not view")
	}
}
