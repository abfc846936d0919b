package processor

// Outcome classifies what happened to one source folder during a pass.
type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// Result records one folder's outcome with the stage and reason for anything
// that was not a clean append.
type Result struct {
	FolderID string
	Outcome  Outcome
	Stage    string
	Reason   string
}

// Report summarizes a whole pass: every folder's outcome plus the workbook
// state afterwards.
type Report struct {
	RunID        string
	WorkbookPath string
	RowCount     int
	Results      []Result
}

func (r *Report) count(outcome Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

// Processed returns the number of folders whose rows landed in the workbook.
func (r *Report) Processed() int { return r.count(OutcomeProcessed) }

// Skipped returns the number of duplicate folders left untouched.
func (r *Report) Skipped() int { return r.count(OutcomeSkipped) }

// Failed returns the number of folders that errored.
func (r *Report) Failed() int { return r.count(OutcomeFailed) }

// HasFailures reports whether any folder failed; the process exits nonzero
// when it does.
func (r *Report) HasFailures() bool { return r.Failed() > 0 }
