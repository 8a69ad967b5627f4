package bizerror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var ErrUnauthenticated = errors.New("unauthenticated")
var ErrForbidden = errors.New("forbidden")
var ErrInvalidPassword = errors.New("invalid password")

type BizError interface {
	Respond() *BizErrorDetail
}

type BizErrorDetail struct {
	Status  int
	Code    string
	Message string

	Data  interface{}
	Cause error
}

type ErrBadParam struct {
	Cause error
}

func (e *ErrBadParam) Unwrap() error {
	return e.Cause
}
func (e *ErrBadParam) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "common.bad_param"
}
func (e *ErrBadParam) Respond() *BizErrorDetail {
	message := "common.bad_param"
	if e.Cause != nil {
		message = e.Cause.Error()
	}
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "common.bad_param", Message: message, Data: nil}
}

// ErrUnresolvedVariables reports {{NAME}} tokens still present after
// substitution. Names are kept sorted so the message is stable.
type ErrUnresolvedVariables struct {
	Names []string
}

func (e *ErrUnresolvedVariables) Error() string {
	return fmt.Sprintf("unreplaced template variables found after substitution: %s. "+
		"Provide values for these in variableValues", strings.Join(e.Names, ", "))
}
func (e *ErrUnresolvedVariables) Respond() *BizErrorDetail {
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "template.unresolved_variables",
		Message: e.Error(), Data: e.Names}
}

// ErrInvalidConstraint is a closed-vocabulary or format violation. The message
// enumerates the allowed set for the offending field.
type ErrInvalidConstraint struct {
	Message string
}

func (e *ErrInvalidConstraint) Error() string {
	return e.Message
}
func (e *ErrInvalidConstraint) Respond() *BizErrorDetail {
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "constraint.invalid", Message: e.Message}
}

// ErrStorageFailure terminates an import after some constraints may already
// have been written. Writes are not transactional across constraints, so the
// already created identifiers are carried for the caller: retrying the import
// creates additional constraints instead of deduplicating.
type ErrStorageFailure struct {
	Cause                error
	CreatedConstraintIds []string
}

func (e *ErrStorageFailure) Unwrap() error {
	return e.Cause
}
func (e *ErrStorageFailure) Error() string {
	return fmt.Sprintf("storage failure after %d constraints were written (no rollback is performed, "+
		"a retry will create new constraints): %v", len(e.CreatedConstraintIds), e.Cause)
}
func (e *ErrStorageFailure) Respond() *BizErrorDetail {
	return &BizErrorDetail{Status: http.StatusInternalServerError, Code: "constraint.storage_failure",
		Message: e.Error(), Data: e.CreatedConstraintIds}
}
