package template

import (
	"assethub/account"
	"assethub/bizerror"
	"assethub/common"
	"assethub/domain/constraint"
	"assethub/domain/role"
	"assethub/event"
	"assethub/session"
	"fmt"
	"time"
)

var (
	ImportConstraintsFunc = ImportConstraints

	CheckRoleExistenceFunc  = role.CheckRoleExistence
	SaveConstraintItemsFunc = constraint.SaveConstraintItems
	RecordAuditFunc         = event.Record
)

// ImportConstraints is the template import pipeline: resolve defaults,
// validate, substitute, check for unresolved variables, soft-check the role,
// then build, denormalize and write each constraint in turn.
//
// Writes are per constraint, not per template: a storage failure on constraint
// N leaves constraints 1..N-1 persisted. The returned ErrStorageFailure names
// the already created identifiers, and a retry creates new constraints rather
// than deduplicating.
func ImportConstraints(req *ImportRequest, sec *session.Context) (*ImportResult, error) {
	if sec == nil || !sec.Perms.HasRole(account.SystemAdminPermission.ID) {
		return nil, bizerror.ErrForbidden
	}

	resolved, err := ResolveDefaults(req.Variables, req.VariableValues)
	if err != nil {
		return nil, err
	}
	if err := ValidateImportRequest(req, resolved); err != nil {
		return nil, err
	}
	roleName := resolved[RoleNameVariable]

	substituted := Substitute(req.Constraints, resolved)
	if unresolved := FindUnreplaced(substituted); len(unresolved) > 0 {
		return nil, &bizerror.ErrUnresolvedVariables{Names: unresolved}
	}

	switch CheckRoleExistenceFunc(roleName) {
	case role.RoleNotFound:
		common.Log.Warnf("role '%s' does not exist in the role registry. "+
			"Constraints will be created but may not be effective until the role is created", roleName)
	case role.RoleUnknown:
		common.Log.Warnf("existence of role '%s' could not be checked, continuing", roleName)
	}

	createdIds := []string{}
	for _, def := range substituted {
		c := buildConstraint(def, roleName, sec)

		common.Log.Infof("creating constraint '%s' with ID %s", c.Name, c.Identifier)
		items, err := constraint.Denormalize(c)
		if err != nil {
			return nil, &bizerror.ErrStorageFailure{Cause: err, CreatedConstraintIds: createdIds}
		}
		if err := SaveConstraintItemsFunc(items); err != nil {
			return nil, &bizerror.ErrStorageFailure{Cause: err, CreatedConstraintIds: createdIds}
		}
		common.Log.Infof("wrote %d denormalized items for constraint %s", len(items), c.Identifier)
		createdIds = append(createdIds, c.Identifier)
	}

	if err := RecordAuditFunc("CONSTRAINT_TEMPLATE", req.TemplateName(), roleName,
		event.AuditCategoryTemplateImported,
		event.AuditDetail{
			"templateName":       req.TemplateName(),
			"roleName":           roleName,
			"constraintsCreated": len(createdIds),
			"constraintIds":      createdIds,
		}, sec.Actor()); err != nil {
		common.Log.Warnf("failed to record audit event for template '%s': %v", req.TemplateName(), err)
	}

	return &ImportResult{
		Success: true,
		Message: fmt.Sprintf("Successfully imported %d constraints from template '%s' for role '%s'",
			len(createdIds), req.TemplateName(), roleName),
		ConstraintsCreated: len(createdIds),
		ConstraintIds:      createdIds,
		Timestamp:          time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// buildConstraint converts a substituted template definition into a logical
// constraint. The identifier is always freshly generated, never derived from
// the template, so two imports of the same template produce independent
// constraint sets. Every generated group permission is bound to the role name.
func buildConstraint(def ConstraintDefinition, roleName string, sec *session.Context) *constraint.Constraint {
	now := time.Now().UTC().Format(time.RFC3339)
	actor := sec.Actor()

	groupPermissions := make([]constraint.GroupPermission, 0, len(def.GroupPermissions))
	for _, perm := range def.GroupPermissions {
		permType := perm.Type
		if permType == "" {
			permType = DefaultPermissionType
		}
		groupPermissions = append(groupPermissions, constraint.GroupPermission{
			ID:             common.NextUUID(),
			GroupID:        roleName,
			Permission:     perm.Action,
			PermissionType: permType,
		})
	}

	return &constraint.Constraint{
		Identifier:  common.NextUUID(),
		Name:        def.Name,
		Description: def.Description,
		ObjectType:  def.ObjectType,

		CriteriaAnd: def.CriteriaAnd,
		CriteriaOr:  def.CriteriaOr,

		GroupPermissions: groupPermissions,
		UserPermissions:  []constraint.UserPermission{},

		DateCreated:  now,
		DateModified: now,
		CreatedBy:    actor,
		ModifiedBy:   actor,
	}
}
