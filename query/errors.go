package query

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"timeless/pivot"
	"timeless/services"
)

var (
	errBadRequest  = errors.New("bad request")
	errForbidden   = errors.New("query contains forbidden operations")
	errUnavailable = errors.New("database connection not initialized")
)

// apiError is the JSON body of every error response.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// classify maps an error to its HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, pivot.ErrEmptyResult):
		return http.StatusUnprocessableEntity, "empty_result"
	case errors.Is(err, pivot.ErrInsufficientColumns):
		return http.StatusUnprocessableEntity, "insufficient_columns"
	case errors.Is(err, pivot.ErrNonNumeric):
		return http.StatusUnprocessableEntity, "non_numeric"
	case errors.Is(err, errBadRequest),
		errors.Is(err, services.ErrInvalidOptions),
		errors.Is(err, pivot.ErrUnknownKind):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, errForbidden):
		return http.StatusBadRequest, "forbidden_query"
	case errors.Is(err, errUnavailable),
		errors.Is(err, services.ErrSuggesterDisabled):
		return http.StatusServiceUnavailable, "unavailable"
	}
	return http.StatusBadGateway, "upstream_error"
}

// writeJSON encodes payload before sending the status, so a payload that
// cannot be encoded turns into a 500.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		logrus.WithError(err).Error("encoding response")
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(apiError{Code: "internal", Message: "response could not be encoded"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	entry := logger(r.Context()).WithFields(logrus.Fields{
		logrus.ErrorKey: err,
		"status":        status,
		"code":          code,
	})
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Info("request rejected")
	}
	writeJSON(w, status, apiError{Code: code, Message: err.Error()})
}
