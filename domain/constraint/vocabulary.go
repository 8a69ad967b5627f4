package constraint

import (
	"assethub/bizerror"
	"fmt"
	"regexp"
	"strings"
)

// Closed vocabularies for constraint records. Values outside these sets are
// rejected before anything is written.
var (
	AllowedObjectTypes     = []string{"asset", "database", "api", "web", "tag", "pipeline", "workflow", "metadataSchema"}
	AllowedOperators       = []string{"equals", "contains", "does_not_contain", "starts_with", "ends_with", "is_one_of", "is_not_one_of"}
	AllowedPermissions     = []string{"GET", "PUT", "POST", "DELETE"}
	AllowedPermissionTypes = []string{"allow", "deny"}
)

var (
	objectNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]{1,256}$`)
	userIdPattern     = regexp.MustCompile(`^[a-zA-Z0-9_\-\.\+@]{3,256}$`)
)

// Criterion values that match everything. They only pass validation when the
// caller explicitly allows a catch-all, an unintentional one is a common
// operator mistake.
var globalValueKeywords = map[string]bool{"*": true, ".*": true, "global": true}

func oneOf(allowed []string, v string) bool {
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}

func IsAllowedObjectType(v string) bool {
	return oneOf(AllowedObjectTypes, v)
}

func IsAllowedOperator(v string) bool {
	return oneOf(AllowedOperators, v)
}

func IsAllowedPermission(v string) bool {
	return oneOf(AllowedPermissions, v)
}

func IsAllowedPermissionType(v string) bool {
	return oneOf(AllowedPermissionTypes, v)
}

func ValidateObjectName(field, value string) error {
	if !objectNamePattern.MatchString(value) {
		return &bizerror.ErrInvalidConstraint{Message: fmt.Sprintf(
			"Invalid %s '%s'. Expect 1-256 characters of letters, digits, '_', '-' or '.'", field, value)}
	}
	return nil
}

func ValidateUserId(field, value string) error {
	if !userIdPattern.MatchString(value) {
		return &bizerror.ErrInvalidConstraint{Message: fmt.Sprintf(
			"Invalid %s '%s'. Expect 3-256 characters of letters, digits, '_', '-', '.', '+' or '@'", field, value)}
	}
	return nil
}

func ValidateDescription(field, value string) error {
	if len(value) < 1 || len(value) > 256 {
		return &bizerror.ErrInvalidConstraint{Message: fmt.Sprintf(
			"Invalid %s. Expect 1-256 characters", field)}
	}
	return nil
}

// ValidateRegexValue checks every string of a criterion value is a legal
// pattern. Catch-all keywords take the strict path gated by allowGlobal.
func ValidateRegexValue(field string, value CriterionValue, allowGlobal bool) error {
	for _, s := range value.Strings() {
		if globalValueKeywords[strings.ToLower(s)] {
			if !allowGlobal {
				return &bizerror.ErrInvalidConstraint{Message: fmt.Sprintf(
					"Invalid %s: catch-all value '%s' is not allowed here", field, s)}
			}
			continue
		}
		if _, err := regexp.Compile(s); err != nil {
			return &bizerror.ErrInvalidConstraint{Message: fmt.Sprintf(
				"Invalid %s: '%s' is not a legal pattern: %v", field, s, err)}
		}
	}
	return nil
}
