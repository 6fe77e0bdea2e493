// Package access holds the capability checks that gate workflow mutations.
// Applications and contracts are checked through the job and candidate
// profile they hang off, so callers resolve those first.
package access

import (
	"hireflow/internal/domain/candidate"
	"hireflow/internal/domain/job"
	"hireflow/internal/domain/user"
)

// Parties is the ownership context of an application or contract.
type Parties struct {
	Job       job.Posting
	Candidate candidate.Candidate
}

func IsActiveUser(u user.User) bool {
	return u.IsActive
}

func IsEmployerOf(u user.User, p Parties) bool {
	if !u.IsActive || !u.IsEmployer {
		return false
	}
	return p.Job.OwnedBy(u.ID)
}

func IsEmployerOfJob(u user.User, j job.Posting) bool {
	return IsEmployerOf(u, Parties{Job: j})
}

func IsCandidateOwnerOf(u user.User, p Parties) bool {
	if !u.IsActive {
		return false
	}
	return p.Candidate.OwnedBy(u.ID)
}

// CanView allows either party, or an admin, to read the target.
func CanView(u user.User, p Parties) bool {
	if !u.IsActive {
		return false
	}
	if u.IsAdmin {
		return true
	}
	return IsEmployerOf(u, p) || IsCandidateOwnerOf(u, p)
}
