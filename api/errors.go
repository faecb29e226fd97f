package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/agoravote/agora-node/log"
)

// Error is used by handler functions to wrap errors, specifying which HTTP
// status should be used. There is no structured error-code field: the response
// body carries only a human-readable message.
type Error struct {
	Err        error
	HTTPstatus int
}

// MarshalJSON returns a JSON body containing Err.Error(). Field HTTPstatus is
// ignored.
//
// Example output: {"message":"voter not found"}
func (e Error) MarshalJSON() ([]byte, error) {
	// This anon struct is needed to actually include the error string,
	// since it wouldn't be marshaled otherwise. (json.Marshal doesn't call Err.Error())
	return json.Marshal(
		struct {
			Message string `json:"message"`
		}{
			Message: e.Err.Error(),
		})
}

// Error returns the message contained inside the Error.
func (e Error) Error() string {
	return e.Err.Error()
}

// Write serializes the error as a JSON body and sends it with e.HTTPstatus.
func (e Error) Write(w http.ResponseWriter) {
	msg, err := json.Marshal(e)
	if err != nil {
		log.Warn(err)
		http.Error(w, "marshal failed", http.StatusInternalServerError)
		return
	}
	if log.Level() == log.LogLevelDebug {
		log.Debugw("api error response", "error", e.Error(), "httpStatus", e.HTTPstatus)
	}
	w.Header().Set("Content-Type", "application/json")
	http.Error(w, string(msg), e.HTTPstatus)
}

// Withf returns a copy of Error with the Sprintf formatted string appended at the end of e.Err
func (e Error) Withf(format string, args ...any) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, fmt.Sprintf(format, args...)),
		HTTPstatus: e.HTTPstatus,
	}
}

// With returns a copy of Error with the string appended at the end of e.Err
func (e Error) With(s string) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, s),
		HTTPstatus: e.HTTPstatus,
	}
}

// WithErr returns a copy of Error with err.Error() appended at the end of e.Err
func (e Error) WithErr(err error) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, err.Error()),
		HTTPstatus: e.HTTPstatus,
	}
}
