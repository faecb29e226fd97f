package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/agoravote/agora-node/log"
	stg "github.com/agoravote/agora-node/storage"
)

// httpWriteJSONStatus writes a JSON response with the given status code. The
// success codes of this API are non-standard on purpose (218, 222, ... 240)
// and are part of the public contract.
func httpWriteJSONStatus(w http.ResponseWriter, status int, data any) {
	jdata, err := json.Marshal(data)
	if err != nil {
		ErrMarshalingServerJSONFailed.WithErr(err).Write(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	n, err := w.Write(jdata)
	if err != nil {
		log.Warnw("failed to write http response", "error", err)
		return
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
		return
	}
	if !DisabledLogging && log.Level() == log.LogLevelDebug {
		log.Debugw("api response", "status", status, "bytes", n,
			"data", strings.ReplaceAll(string(jdata), "\"", ""))
	}
}

// httpWriteJSON helper function allows to write a JSON response with 200 OK.
func httpWriteJSON(w http.ResponseWriter, data any) {
	httpWriteJSONStatus(w, http.StatusOK, data)
}

// errorFromStorage maps the storage sentinel errors onto the API error
// taxonomy. Unrecognized errors degrade to the generic 500.
func errorFromStorage(err error) Error {
	switch {
	case errors.Is(err, stg.ErrNotFound):
		return ErrResourceNotFound
	case errors.Is(err, stg.ErrKeyAlreadyExists):
		return ErrDuplicateVoter // callers with a better match override this
	case errors.Is(err, stg.ErrUnderage):
		return ErrInvalidAge
	case errors.Is(err, stg.ErrAlreadyVoted):
		return ErrAlreadyVoted
	case errors.Is(err, stg.ErrDuplicateNullifier):
		return ErrDuplicateNullifier
	case errors.Is(err, stg.ErrInvalidProof):
		return ErrInvalidBallotProof
	case errors.Is(err, stg.ErrMalformedShare):
		return ErrMalformedShare
	case errors.Is(err, stg.ErrInvalidShareProof):
		return ErrInvalidShareProof
	case errors.Is(err, stg.ErrInvalidEpsilon):
		return ErrInvalidEpsilon
	case errors.Is(err, stg.ErrInvalidDelta):
		return ErrInvalidDelta
	case errors.Is(err, stg.ErrBudgetExceeded):
		return ErrBudgetExceeded.WithErr(err)
	case errors.Is(err, stg.ErrDuplicateBallot):
		return ErrDuplicateBallot
	case errors.Is(err, stg.ErrInvalidInterval):
		return ErrInvalidInterval
	case errors.Is(err, stg.ErrInvalidAlpha):
		return ErrInvalidAlpha
	case errors.Is(err, stg.ErrUnsupportedAudit):
		return ErrUnsupportedAuditType.WithErr(err)
	default:
		return ErrGenericInternalServerError.WithErr(err)
	}
}
