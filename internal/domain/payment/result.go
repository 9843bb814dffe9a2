package payment

type PrepareOutcome int

const (
	PrepareInvalid PrepareOutcome = iota
	PrepareContinue
	PrepareRedirect
)

// PrepareResult is the answer of the payment step.
type PrepareResult struct {
	outcome PrepareOutcome
	url     string
}

// Invalid keeps the visitor on the payment step. Messages explain why.
func Invalid() PrepareResult { return PrepareResult{outcome: PrepareInvalid} }

// Continue moves on to the confirmation step.
func Continue() PrepareResult { return PrepareResult{outcome: PrepareContinue} }

// RedirectTo sends the visitor to an external URL of the provider.
func RedirectTo(url string) PrepareResult {
	return PrepareResult{outcome: PrepareRedirect, url: url}
}

func (r PrepareResult) Outcome() PrepareOutcome { return r.outcome }
func (r PrepareResult) IsValid() bool           { return r.outcome != PrepareInvalid }

func (r PrepareResult) Redirect() (string, bool) {
	return r.url, r.outcome == PrepareRedirect
}

type PerformStatus int

const (
	PerformDeferred PerformStatus = iota
	PerformCompleted
	PerformDeclined
)

func (s PerformStatus) String() string {
	switch s {
	case PerformCompleted:
		return "completed"
	case PerformDeclined:
		return "declined"
	default:
		return "deferred"
	}
}

// PerformResult is the outcome of moving money.
type PerformResult struct {
	status PerformStatus
	url    string
	reason string
}

// Deferred leaves the order pending. A non-empty url is where the visitor
// completes the payment; without one the payment arrives out of band.
func Deferred(url string) PerformResult {
	return PerformResult{status: PerformDeferred, url: url}
}

// Completed reports that the order was marked paid.
func Completed() PerformResult {
	return PerformResult{status: PerformCompleted}
}

// Declined reports a refused payment. The order stays pending.
func Declined(reason string) PerformResult {
	return PerformResult{status: PerformDeclined, reason: reason}
}

func (r PerformResult) Status() PerformStatus { return r.status }
func (r PerformResult) URL() string           { return r.url }
func (r PerformResult) Reason() string        { return r.reason }
