//nolint:lll
package api

import (
	"fmt"
	"net/http"
)

// The custom Error type satisfies the error interface.
// Error() returns a human-readable description of the error.
//
// The non-2xx statuses below are part of the public contract and must not be
// changed: clients match on them. 4xx statuses are the client's fault, 5xx the
// server's. Some of them are unusual on purpose (417 for underage voters, 423
// for spent nullifiers, 424 for failed cryptographic checks, 425 for exhausted
// privacy budgets).
var (
	ErrResourceNotFound     = Error{HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("resource not found")}
	ErrMalformedBody        = Error{HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed JSON body")}
	ErrMissingField         = Error{HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("missing required field")}
	ErrMalformedParam       = Error{HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed parameter")}
	ErrInvalidTimestamp     = Error{HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid timestamp")}
	ErrInvalidInterval      = Error{HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid interval")}
	ErrInvalidEpsilon       = Error{HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("epsilon must be a positive number")}
	ErrInvalidDelta         = Error{HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("delta must lie in [0,1]")}
	ErrInvalidAlpha         = Error{HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("risk limit alpha must lie strictly in (0,1)")}
	ErrUnsupportedAuditType = Error{HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("unsupported audit type")}
	ErrAlreadyVoted         = Error{HTTPstatus: http.StatusForbidden, Err: fmt.Errorf("voter has already voted")}
	ErrDuplicateVoter       = Error{HTTPstatus: http.StatusConflict, Err: fmt.Errorf("voter already registered")}
	ErrDuplicateCandidate   = Error{HTTPstatus: http.StatusConflict, Err: fmt.Errorf("candidate already registered")}
	ErrDuplicateBallot      = Error{HTTPstatus: http.StatusConflict, Err: fmt.Errorf("ranked ballot already submitted for this voter")}
	ErrInvalidAge           = Error{HTTPstatus: http.StatusExpectationFailed, Err: fmt.Errorf("voter must be at least 18 years old")}
	ErrDuplicateNullifier   = Error{HTTPstatus: http.StatusLocked, Err: fmt.Errorf("nullifier already spent")}
	ErrInvalidBallotProof   = Error{HTTPstatus: http.StatusFailedDependency, Err: fmt.Errorf("invalid ballot proof")}
	ErrMalformedShare       = Error{HTTPstatus: http.StatusFailedDependency, Err: fmt.Errorf("malformed trustee share")}
	ErrInvalidShareProof    = Error{HTTPstatus: http.StatusFailedDependency, Err: fmt.Errorf("invalid trustee share proof")}
	ErrBudgetExceeded       = Error{HTTPstatus: http.StatusTooEarly, Err: fmt.Errorf("privacy budget exceeded")}

	ErrMarshalingServerJSONFailed = Error{HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("marshaling (server-side) JSON failed")}
	ErrGenericInternalServerError = Error{HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("internal server error")}
)
