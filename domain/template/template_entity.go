package template

import (
	"assethub/domain/constraint"
)

// RoleNameVariable must always be supplied: every group permission generated
// from a template is bound to this role.
const RoleNameVariable = "ROLE_NAME"

// DefaultPermissionType applies when a template permission omits its type.
const DefaultPermissionType = "allow"

type TemplateMetadata struct {
	Name        string `json:"name" binding:"required,lte=256"`
	Description string `json:"description" binding:"omitempty,lte=512"`
	Version     string `json:"version" binding:"omitempty,lte=50"`
}

type VariableDefinition struct {
	Name        string  `json:"name" binding:"required,lte=256"`
	Required    *bool   `json:"required"`
	Description string  `json:"description" binding:"omitempty,lte=512"`
	Default     *string `json:"default"`
}

// IsRequired defaults to true when the flag is omitted.
func (d VariableDefinition) IsRequired() bool {
	return d.Required == nil || *d.Required
}

type ConstraintPermission struct {
	Action string `json:"action" binding:"required,lte=256"`
	Type   string `json:"type" binding:"omitempty,lte=256"`
}

// ConstraintDefinition is one constraint-to-be, pre-substitution. Group
// permissions carry no groupId: the role name is bound during import.
type ConstraintDefinition struct {
	Name        string `json:"name" binding:"required,lte=256"`
	Description string `json:"description" binding:"required,lte=256"`
	ObjectType  string `json:"objectType" binding:"required,lte=256"`

	CriteriaAnd []constraint.Criterion `json:"criteriaAnd"`
	CriteriaOr  []constraint.Criterion `json:"criteriaOr"`

	GroupPermissions []ConstraintPermission `json:"groupPermissions" binding:"required"`
}

type ImportRequest struct {
	Template  *TemplateMetadata    `json:"template"`
	Variables []VariableDefinition `json:"variables"`

	VariableValues map[string]string      `json:"variableValues" binding:"required"`
	Constraints    []ConstraintDefinition `json:"constraints" binding:"required"`
}

func (r *ImportRequest) TemplateName() string {
	if r.Template == nil || r.Template.Name == "" {
		return "unknown"
	}
	return r.Template.Name
}

type ImportResult struct {
	Success            bool     `json:"success"`
	Message            string   `json:"message"`
	ConstraintsCreated int      `json:"constraintsCreated"`
	ConstraintIds      []string `json:"constraintIds"`
	Timestamp          string   `json:"timestamp"`
}
