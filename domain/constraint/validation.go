package constraint

import (
	"assethub/bizerror"
	"fmt"
	"strings"
)

// Validate applies the closed-vocabulary and format checks to a logical
// constraint. The first violated rule terminates validation.
func Validate(c *Constraint) error {
	if err := ValidateObjectName("identifier", c.Identifier); err != nil {
		return err
	}
	if err := ValidateObjectName("name", c.Name); err != nil {
		return err
	}
	if err := ValidateDescription("description", c.Description); err != nil {
		return err
	}
	if !IsAllowedObjectType(c.ObjectType) {
		return &bizerror.ErrInvalidConstraint{Message: fmt.Sprintf(
			"Invalid objectType '%s'. Allowed values: %s", c.ObjectType, strings.Join(AllowedObjectTypes, ", "))}
	}

	if len(c.CriteriaAnd) == 0 && len(c.CriteriaOr) == 0 {
		return &bizerror.ErrInvalidConstraint{Message: "Constraint must include criteriaAnd or criteriaOr statements"}
	}
	if err := validateCriteria("criteriaAnd", c.CriteriaAnd); err != nil {
		return err
	}
	if err := validateCriteria("criteriaOr", c.CriteriaOr); err != nil {
		return err
	}

	for _, perm := range c.GroupPermissions {
		if err := ValidateObjectName("groupId", perm.GroupID); err != nil {
			return err
		}
		if err := validatePermissionEntry("groupPermissions", perm.Permission, perm.PermissionType); err != nil {
			return err
		}
	}
	for _, perm := range c.UserPermissions {
		if err := ValidateUserId("userId", perm.UserID); err != nil {
			return err
		}
		if err := validatePermissionEntry("userPermissions", perm.Permission, perm.PermissionType); err != nil {
			return err
		}
	}
	return nil
}

func validateCriteria(field string, criteria []Criterion) error {
	for _, criterion := range criteria {
		if criterion.Field == "" {
			return &bizerror.ErrInvalidConstraint{Message: fmt.Sprintf("Criterion in %s is missing a field", field)}
		}
		if !IsAllowedOperator(criterion.Operator) {
			return &bizerror.ErrInvalidConstraint{Message: fmt.Sprintf(
				"Invalid operator '%s' in %s. Allowed values: %s",
				criterion.Operator, field, strings.Join(AllowedOperators, ", "))}
		}
		if err := ValidateRegexValue(field+" value", criterion.Value, true); err != nil {
			return err
		}
	}
	return nil
}

func validatePermissionEntry(field, permission, permissionType string) error {
	if !IsAllowedPermission(permission) {
		return &bizerror.ErrInvalidConstraint{Message: fmt.Sprintf(
			"Invalid permission '%s' in %s. Allowed values: %s",
			permission, field, strings.Join(AllowedPermissions, ", "))}
	}
	if !IsAllowedPermissionType(permissionType) {
		return &bizerror.ErrInvalidConstraint{Message: fmt.Sprintf(
			"Invalid permissionType '%s' in %s. Allowed values: %s",
			permissionType, field, strings.Join(AllowedPermissionTypes, ", "))}
	}
	return nil
}
