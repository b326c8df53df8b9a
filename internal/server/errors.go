package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	herrors "github.com/matzehuels/housesketch/pkg/errors"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    herrors.Code `json:"code"`
	Message string       `json:"message"`
}

// statusFor maps an error to an HTTP status.
func statusFor(err error) int {
	code := herrors.GetCode(err)
	switch {
	case strings.HasPrefix(string(code), "INVALID_"):
		return http.StatusBadRequest
	case code == herrors.ErrCodeNotFound:
		return http.StatusNotFound
	case code == herrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case code == herrors.ErrCodeUnsupported, code == herrors.ErrCodeMissingCredentials:
		return http.StatusServiceUnavailable
	case code == herrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case code == herrors.ErrCodeProviderFailed, code == herrors.ErrCodeEmptyOutput,
		code == herrors.ErrCodeNetwork, code == herrors.ErrCodeUnauthorized, code == herrors.ErrCodeForbidden:
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled):
		return 499
	default:
		return http.StatusInternalServerError
	}
}

// publicError returns the code and message shown to clients. Internal
// errors are not echoed.
func publicError(err error) errorDetail {
	code := herrors.GetCode(err)
	if code == "" || code == herrors.ErrCodeInternal {
		return errorDetail{Code: herrors.ErrCodeInternal, Message: "internal error"}
	}
	return errorDetail{Code: code, Message: herrors.UserMessage(err)}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorBody{Error: publicError(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
