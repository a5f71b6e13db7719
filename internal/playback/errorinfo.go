package playback

import (
	"strings"

	"github.com/llehouerou/cadence/internal/engine"
)

// errCodePrefix is the fixed prefix the engine puts on every error
// code; normalization strips it.
const errCodePrefix = "ERROR_CODE_"

// ErrorInfo is the normalized form of an engine playback error exposed
// to observers.
type ErrorInfo struct {
	Code    string // normalized: lowercase, hyphen-separated
	Message string // optional human-readable detail
}

// NormalizeErrorCode maps a raw engine error code to its public form:
// the ERROR_CODE_ prefix is removed, the rest lowercased and
// underscores replaced with hyphens. Total function; unknown shapes
// pass through the same transform.
//
//	"ERROR_CODE_IO_BAD_HTTP_STATUS" -> "io-bad-http-status"
func NormalizeErrorCode(raw string) string {
	code := strings.TrimPrefix(raw, errCodePrefix)
	code = strings.ToLower(code)
	return strings.ReplaceAll(code, "_", "-")
}

// NewErrorInfo builds the public error info from an engine error.
func NewErrorInfo(err *engine.Error) ErrorInfo {
	if err == nil {
		return ErrorInfo{}
	}
	return ErrorInfo{
		Code:    NormalizeErrorCode(err.Code),
		Message: err.Message,
	}
}
