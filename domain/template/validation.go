package template

import (
	"assethub/bizerror"
	"assethub/domain/constraint"
	"errors"
	"fmt"
	"strings"
)

// ResolveDefaults returns the effective variable set: the supplied values plus
// defaults for declared variables that were not supplied. A required variable
// with no value and no default is an error. The supplied map is not mutated.
func ResolveDefaults(declared []VariableDefinition, supplied map[string]string) (map[string]string, error) {
	resolved := make(map[string]string, len(supplied))
	for name, value := range supplied {
		resolved[name] = value
	}

	for _, def := range declared {
		if _, ok := resolved[def.Name]; ok {
			continue
		}
		if def.Default != nil {
			resolved[def.Name] = *def.Default
			continue
		}
		if def.IsRequired() {
			message := fmt.Sprintf("required variable '%s' not provided in variableValues", def.Name)
			if def.Description != "" {
				message += fmt.Sprintf(". Description: %s", def.Description)
			}
			return nil, &bizerror.ErrBadParam{Cause: errors.New(message)}
		}
	}
	return resolved, nil
}

// ValidateImportRequest applies template-level checks against the resolved
// variable set. The first violated rule terminates validation.
func ValidateImportRequest(req *ImportRequest, resolved map[string]string) error {
	if req.VariableValues == nil {
		return &bizerror.ErrBadParam{Cause: errors.New("variableValues is required")}
	}
	if _, ok := req.VariableValues[RoleNameVariable]; !ok {
		return &bizerror.ErrBadParam{Cause: errors.New(
			"variableValues must include 'ROLE_NAME' (used as groupId for all constraints)")}
	}
	if err := constraint.ValidateObjectName(RoleNameVariable, resolved[RoleNameVariable]); err != nil {
		return err
	}

	if len(req.Constraints) == 0 {
		return &bizerror.ErrBadParam{Cause: errors.New("at least one constraint is required")}
	}

	for _, def := range req.Constraints {
		if !constraint.IsAllowedObjectType(def.ObjectType) {
			return &bizerror.ErrInvalidConstraint{Message: fmt.Sprintf(
				"Invalid objectType '%s'. Allowed values: %s",
				def.ObjectType, strings.Join(constraint.AllowedObjectTypes, ", "))}
		}
		if len(def.CriteriaAnd) == 0 && len(def.CriteriaOr) == 0 {
			return &bizerror.ErrInvalidConstraint{Message: fmt.Sprintf(
				"Constraint '%s' must have at least one criteriaAnd or criteriaOr", def.Name)}
		}

		for _, criterion := range append(append([]constraint.Criterion{}, def.CriteriaAnd...), def.CriteriaOr...) {
			if !constraint.IsAllowedOperator(criterion.Operator) {
				return &bizerror.ErrInvalidConstraint{Message: fmt.Sprintf(
					"Invalid operator '%s'. Allowed values: %s",
					criterion.Operator, strings.Join(constraint.AllowedOperators, ", "))}
			}
			if err := constraint.ValidateRegexValue("criteria value", criterion.Value, true); err != nil {
				return err
			}
		}

		for _, perm := range def.GroupPermissions {
			if !constraint.IsAllowedPermission(perm.Action) {
				return &bizerror.ErrInvalidConstraint{Message: fmt.Sprintf(
					"Invalid permission action '%s'. Allowed values: %s",
					perm.Action, strings.Join(constraint.AllowedPermissions, ", "))}
			}
			permType := perm.Type
			if permType == "" {
				permType = DefaultPermissionType
			}
			if !constraint.IsAllowedPermissionType(permType) {
				return &bizerror.ErrInvalidConstraint{Message: fmt.Sprintf(
					"Invalid permission type '%s'. Allowed values: %s",
					perm.Type, strings.Join(constraint.AllowedPermissionTypes, ", "))}
			}
		}
	}
	return nil
}
