package lib

type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Result is what happened to one resource during a batch.
type Result struct {
	ResourceID string
	Action     string
	Outcome    Outcome
	Message    string
}

// Report collects per resource results in the order they were attempted.
type Report struct {
	Results []Result
}

func (r *Report) ok(id, action, msg string) {
	r.Results = append(r.Results, Result{ResourceID: id, Action: action, Outcome: OutcomeOK, Message: msg})
}

func (r *Report) skip(id, action, msg string) {
	r.Results = append(r.Results, Result{ResourceID: id, Action: action, Outcome: OutcomeSkipped, Message: msg})
}

func (r *Report) fail(id, action string, err error) {
	r.Results = append(r.Results, Result{ResourceID: id, Action: action, Outcome: OutcomeFailed, Message: ErrorText(err)})
}

func (r *Report) Failed() []Result {
	var res []Result
	for _, x := range r.Results {
		if x.Outcome == OutcomeFailed {
			res = append(res, x)
		}
	}
	return res
}

// Log writes every failed resource to the logger. The report lines on stdout
// already carry the same failures inline.
func (r *Report) Log() {
	if r == nil {
		return
	}
	for _, res := range r.Failed() {
		Logger.Println("failed:", res.Action, res.ResourceID, res.Message)
	}
}
