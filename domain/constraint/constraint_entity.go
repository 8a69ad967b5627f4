package constraint

import (
	"encoding/json"
	"errors"
)

// CriterionValue is either a single string or a list of strings, matching the
// wire shape `"value": "x"` or `"value": ["x", "y"]`.
type CriterionValue struct {
	scalar string
	list   []string
	isList bool
}

func StringValue(s string) CriterionValue {
	return CriterionValue{scalar: s}
}

func ListValue(items ...string) CriterionValue {
	return CriterionValue{list: items, isList: true}
}

func (v CriterionValue) IsList() bool {
	return v.isList
}

// Strings returns every string the value contains.
func (v CriterionValue) Strings() []string {
	if v.isList {
		return v.list
	}
	return []string{v.scalar}
}

// Map applies f to every contained string and returns the rebuilt value.
func (v CriterionValue) Map(f func(string) string) CriterionValue {
	if !v.isList {
		return CriterionValue{scalar: f(v.scalar)}
	}
	mapped := make([]string, len(v.list))
	for i, s := range v.list {
		mapped[i] = f(s)
	}
	return CriterionValue{list: mapped, isList: true}
}

func (v CriterionValue) MarshalJSON() ([]byte, error) {
	if v.isList {
		if v.list == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(v.list)
	}
	return json.Marshal(v.scalar)
}

func (v *CriterionValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = CriterionValue{scalar: s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*v = CriterionValue{list: list, isList: true}
		return nil
	}
	return errors.New("criterion value must be a string or a list of strings")
}

type Criterion struct {
	Field    string         `json:"field" binding:"required,lte=256"`
	Operator string         `json:"operator" binding:"required,lte=256"`
	Value    CriterionValue `json:"value"`
}

type GroupPermission struct {
	ID             string `json:"id"`
	GroupID        string `json:"groupId" binding:"required,lte=256"`
	Permission     string `json:"permission" binding:"required,lte=256"`
	PermissionType string `json:"permissionType" binding:"required,lte=256"`
}

type UserPermission struct {
	ID             string `json:"id"`
	UserID         string `json:"userId" binding:"required,gte=3,lte=256"`
	Permission     string `json:"permission" binding:"required,lte=256"`
	PermissionType string `json:"permissionType" binding:"required,lte=256"`
}

// Constraint is the logical record. It is expanded into denormalized storage
// items before being written, see Denormalize.
type Constraint struct {
	Identifier  string `json:"identifier"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ObjectType  string `json:"objectType"`

	CriteriaAnd []Criterion `json:"criteriaAnd"`
	CriteriaOr  []Criterion `json:"criteriaOr"`

	GroupPermissions []GroupPermission `json:"groupPermissions"`
	UserPermissions  []UserPermission  `json:"userPermissions"`

	DateCreated  string `json:"dateCreated"`
	DateModified string `json:"dateModified"`
	CreatedBy    string `json:"createdBy"`
	ModifiedBy   string `json:"modifiedBy"`
}
