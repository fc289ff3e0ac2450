package records

import "fmt"

// ErrorKind classifies a failed lookup. Exactly one kind applies per failure.
type ErrorKind int

const (
	// KindRateLimited means a registry throttled the query, explicitly (HTTP
	// 429) or heuristically (WHOIS error text). Retrying later may succeed.
	KindRateLimited ErrorKind = iota
	// KindNoData means no server answered, or the answer contained nothing
	// recognizable.
	KindNoData
	// KindUnexpected covers any other internal fault.
	KindUnexpected
)

func (k ErrorKind) String() string {
	switch k {
	case KindRateLimited:
		return "rate limited"
	case KindNoData:
		return "no data"
	default:
		return "unexpected"
	}
}

// LookupError is the typed failure returned alongside a nil record. It travels
// with the call that produced it; there is no shared last-error state.
type LookupError struct {
	Kind   ErrorKind
	Domain string
	Err    error
}

func (e *LookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lookup %s: %s: %v", e.Domain, e.Kind, e.Err)
	}
	return fmt.Sprintf("lookup %s: %s", e.Domain, e.Kind)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}
