package constraint

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	groupKeySeparator = "#group#"
	userKeySeparator  = "#user#"
)

// ConstraintItem is the persisted unit. One item exists per unique group
// grantee and per unique user grantee of a constraint, each carrying the whole
// constraint payload so lookups by group_id or user_id need no table scan.
type ConstraintItem struct {
	ConstraintID string `json:"constraintId" gorm:"primary_key" sql:"type:VARCHAR(768) NOT NULL"`

	GroupID string `json:"groupId,omitempty" gorm:"index:idx_group_permissions"`
	UserID  string `json:"userId,omitempty" gorm:"index:idx_user_permissions"`

	Name        string `json:"name"`
	Description string `json:"description"`
	ObjectType  string `json:"objectType"`

	CriteriaAnd      string `json:"criteriaAnd" sql:"type:TEXT"`
	CriteriaOr       string `json:"criteriaOr" sql:"type:TEXT"`
	GroupPermissions string `json:"groupPermissions" sql:"type:TEXT"`
	UserPermissions  string `json:"userPermissions" sql:"type:TEXT"`

	DateCreated  string `json:"dateCreated"`
	DateModified string `json:"dateModified"`
	CreatedBy    string `json:"createdBy"`
	ModifiedBy   string `json:"modifiedBy"`
}

func (i *ConstraintItem) TableName() string {
	return "constraint_items"
}

func GroupItemKey(constraintId, groupId string) string {
	return constraintId + groupKeySeparator + groupId
}

func UserItemKey(constraintId, userId string) string {
	return constraintId + userKeySeparator + userId
}

// BaseConstraintId strips the grantee suffix off an item key.
func BaseConstraintId(itemKey string) string {
	if idx := strings.Index(itemKey, groupKeySeparator); idx >= 0 {
		return itemKey[0:idx]
	}
	if idx := strings.Index(itemKey, userKeySeparator); idx >= 0 {
		return itemKey[0:idx]
	}
	return itemKey
}

// Denormalize expands a logical constraint into its storage item set: one item
// per unique groupId, one per unique userId, or a single bare item when the
// constraint has no grantees at all. The grantee, not the permission entry, is
// the fan-out key.
func Denormalize(c *Constraint) ([]ConstraintItem, error) {
	base, err := baseItem(c)
	if err != nil {
		return nil, err
	}

	items := []ConstraintItem{}

	seenGroups := map[string]bool{}
	for _, perm := range c.GroupPermissions {
		if perm.GroupID == "" || seenGroups[perm.GroupID] {
			continue
		}
		seenGroups[perm.GroupID] = true
		item := base
		item.ConstraintID = GroupItemKey(c.Identifier, perm.GroupID)
		item.GroupID = perm.GroupID
		items = append(items, item)
	}

	seenUsers := map[string]bool{}
	for _, perm := range c.UserPermissions {
		if perm.UserID == "" || seenUsers[perm.UserID] {
			continue
		}
		seenUsers[perm.UserID] = true
		item := base
		item.ConstraintID = UserItemKey(c.Identifier, perm.UserID)
		item.UserID = perm.UserID
		items = append(items, item)
	}

	// a constraint without grantees must still be discoverable by its id
	if len(items) == 0 {
		item := base
		item.ConstraintID = c.Identifier
		items = append(items, item)
	}
	return items, nil
}

func baseItem(c *Constraint) (ConstraintItem, error) {
	criteriaAnd, err := marshalBlob(c.CriteriaAnd)
	if err != nil {
		return ConstraintItem{}, err
	}
	criteriaOr, err := marshalBlob(c.CriteriaOr)
	if err != nil {
		return ConstraintItem{}, err
	}
	groupPermissions, err := marshalBlob(c.GroupPermissions)
	if err != nil {
		return ConstraintItem{}, err
	}
	userPermissions, err := marshalBlob(c.UserPermissions)
	if err != nil {
		return ConstraintItem{}, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	item := ConstraintItem{
		Name:        c.Name,
		Description: c.Description,
		ObjectType:  c.ObjectType,

		CriteriaAnd:      criteriaAnd,
		CriteriaOr:       criteriaOr,
		GroupPermissions: groupPermissions,
		UserPermissions:  userPermissions,

		DateCreated:  c.DateCreated,
		DateModified: c.DateModified,
		CreatedBy:    c.CreatedBy,
		ModifiedBy:   c.ModifiedBy,
	}
	if item.DateCreated == "" {
		item.DateCreated = now
	}
	if item.DateModified == "" {
		item.DateModified = now
	}
	return item, nil
}

func marshalBlob(v interface{}) (string, error) {
	blob, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(blob) == "null" {
		return "[]", nil
	}
	return string(blob), nil
}
