// Package handlers implements the HTTP endpoints of the order service.
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/turtacn/titleorder/internal/application/order"
	"github.com/turtacn/titleorder/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/titleorder/pkg/errors"
)

// maxBodyBytes caps request bodies when the router does not set a limit.
const maxBodyBytes = 1 << 20

var validate = validator.New()

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Detail  string            `json:"detail,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// writeAppError maps err onto its HTTP status and user-facing wording.
// Internal failures are masked and logged.
func writeAppError(w http.ResponseWriter, logger logging.Logger, err error) {
	code := errors.GetCode(err)
	if code == errors.CodeUnknown {
		code = errors.CodeInternal
	}
	status := errors.HTTPStatusForCode(code)

	resp := ErrorResponse{Code: code.String(), Message: errors.UserMessage(err)}
	if code == errors.CodeInternal {
		resp.Message = errors.DefaultMessageForCode(errors.CodeInternal)
	}
	var ae *errors.AppError
	if status < http.StatusInternalServerError && stderrors.As(err, &ae) {
		resp.Detail = ae.Detail
	}
	var ce *order.CriteriaError
	if stderrors.As(err, &ce) {
		resp.Fields = ce.Fields
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", logging.String("code", code.String()), logging.Err(err))
	}
	writeJSON(w, status, resp)
}

// decodeRequest reads a JSON body into dst and runs its validate tags.  An
// empty body is accepted when every field of dst is optional.
func decodeRequest(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && err != io.EOF {
		return errors.InvalidParam("malformed request body").WithCause(err)
	}
	if err := validate.Struct(dst); err != nil {
		return errors.InvalidParam("request body failed validation").WithDetail(describeValidation(err))
	}
	return nil
}

func describeValidation(err error) string {
	var ve validator.ValidationErrors
	if !stderrors.As(err, &ve) {
		return err.Error()
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, fe.Field()+" "+fe.Tag())
	}
	return strings.Join(parts, ", ")
}
