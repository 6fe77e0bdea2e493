package match

// JobSummary is the job data handed to the text generator.
type JobSummary struct {
	Title        string
	Description  string
	Requirements []string
	Location     string
	SalaryMin    float64
	SalaryMax    float64
	Currency     string
}

// CandidateSummary is the candidate data handed to the text generator.
type CandidateSummary struct {
	FullName   string
	Email      string
	Bio        string
	Skills     []string
	Experience []string
	Education  []string
}

type Result struct {
	Score     int
	Rationale string
}

const (
	MinScore = 0
	MaxScore = 100
)

func (r Result) Valid() bool {
	return r.Score >= MinScore && r.Score <= MaxScore
}

// JobDescriptionRequest feeds AI job description generation.
type JobDescriptionRequest struct {
	Title        string
	Requirements []string
	CompanyInfo  string
}

// PostingReview is the generator's verdict on a job posting's wording.
// RevisedDescription is empty when the generator offers no rewrite.
type PostingReview struct {
	Compliant          bool
	Issues             []string
	RevisedDescription string
}
