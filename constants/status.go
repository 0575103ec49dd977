package constants

// JobStatus is the canonical status for rows in extraction_jobs.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusPending    JobStatus = "pending"    // created at upload, not yet picked up
	JobStatusProcessing JobStatus = "processing" // text extraction has begun
	JobStatusCompleted  JobStatus = "completed"  // terminal: raw text + fields persisted
	JobStatusFailed     JobStatus = "failed"     // terminal: error message persisted
)

// Terminal reports whether the status admits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// CandidateStatus is the hiring-funnel status on a candidate profile.
type CandidateStatus string

const (
	CandidatePending     CandidateStatus = "pending"
	CandidateInterviewed CandidateStatus = "interviewed"
	CandidateRejected    CandidateStatus = "rejected"
	CandidateHired       CandidateStatus = "hired"
)

// CandidateStatuses lists the accepted candidate statuses.
var CandidateStatuses = []CandidateStatus{
	CandidatePending, CandidateInterviewed, CandidateRejected, CandidateHired,
}

// ValidCandidateStatus reports whether s is one of the accepted statuses.
func ValidCandidateStatus(s string) bool {
	for _, c := range CandidateStatuses {
		if string(c) == s {
			return true
		}
	}
	return false
}
