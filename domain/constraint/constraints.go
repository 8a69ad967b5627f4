package constraint

import (
	"assethub/account"
	"assethub/bizerror"
	"assethub/common"
	"assethub/event"
	"assethub/persistence"
	"assethub/session"
	"encoding/json"
	"strings"
	"time"

	"github.com/jinzhu/gorm"
)

var (
	CreateConstraintFunc    = CreateConstraint
	DeleteConstraintFunc    = DeleteConstraint
	SaveConstraintItemsFunc = SaveConstraintItems
)

type ConstraintCreation struct {
	Identifier  string `json:"identifier" binding:"required,lte=256"`
	Name        string `json:"name" binding:"required,lte=256"`
	Description string `json:"description" binding:"required,lte=256"`
	ObjectType  string `json:"objectType" binding:"required,lte=256"`

	CriteriaAnd []Criterion `json:"criteriaAnd"`
	CriteriaOr  []Criterion `json:"criteriaOr"`

	GroupPermissions []GroupPermission `json:"groupPermissions"`
	UserPermissions  []UserPermission  `json:"userPermissions"`
}

func CreateConstraint(creation ConstraintCreation, sec *session.Context) (*Constraint, error) {
	if sec == nil || !sec.Perms.HasRole(account.SystemAdminPermission.ID) {
		return nil, bizerror.ErrForbidden
	}

	now := time.Now().UTC().Format(time.RFC3339)
	c := Constraint{
		Identifier:  creation.Identifier,
		Name:        creation.Name,
		Description: creation.Description,
		ObjectType:  creation.ObjectType,

		CriteriaAnd: creation.CriteriaAnd,
		CriteriaOr:  creation.CriteriaOr,

		GroupPermissions: creation.GroupPermissions,
		UserPermissions:  creation.UserPermissions,

		DateCreated:  now,
		DateModified: now,
		CreatedBy:    sec.Actor(),
		ModifiedBy:   sec.Actor(),
	}
	for i := range c.GroupPermissions {
		if c.GroupPermissions[i].ID == "" {
			c.GroupPermissions[i].ID = common.NextUUID()
		}
	}
	for i := range c.UserPermissions {
		if c.UserPermissions[i].ID == "" {
			c.UserPermissions[i].ID = common.NextUUID()
		}
	}

	if err := Validate(&c); err != nil {
		return nil, err
	}

	items, err := Denormalize(&c)
	if err != nil {
		return nil, err
	}
	if err := SaveConstraintItemsFunc(items); err != nil {
		return nil, err
	}

	if err := event.Record("CONSTRAINT", c.Identifier, c.Name, event.AuditCategoryCreated,
		event.AuditDetail{"objectType": c.ObjectType, "items": len(items)}, sec.Actor()); err != nil {
		common.Log.Warnf("failed to record audit event for constraint %s: %v", c.Identifier, err)
	}
	return &c, nil
}

// SaveConstraintItems writes the whole item set of one constraint in a single
// transaction.
func SaveConstraintItems(items []ConstraintItem) error {
	return persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		for i := range items {
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `_`, `\_`, `%`, `\%`)

// itemKeyLikePrefix builds a LIKE pattern matching the item keys of exactly
// one constraint. The identifier charset allows '_', which LIKE would treat
// as a single-character wildcard, so wildcards are escaped to keep the match
// literal.
func itemKeyLikePrefix(constraintId string) string {
	return likeEscaper.Replace(constraintId) + "#%"
}

// DeleteConstraint removes every denormalized item sharing the constraintId
// prefix.
func DeleteConstraint(constraintId string, sec *session.Context) error {
	if sec == nil || !sec.Perms.HasRole(account.SystemAdminPermission.ID) {
		return bizerror.ErrForbidden
	}
	if err := ValidateObjectName("constraintId", constraintId); err != nil {
		return err
	}

	db := persistence.ActiveDataSourceManager.GormDB()
	result := db.Where("constraint_id = ? OR constraint_id LIKE ?", constraintId, itemKeyLikePrefix(constraintId)).
		Delete(&ConstraintItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if err := event.Record("CONSTRAINT", constraintId, "", event.AuditCategoryDeleted,
		event.AuditDetail{"itemsDeleted": result.RowsAffected}, sec.Actor()); err != nil {
		common.Log.Warnf("failed to record audit event for constraint %s: %v", constraintId, err)
	}
	return nil
}

// QueryConstraintsByGroup is a point lookup on the group secondary index.
func QueryConstraintsByGroup(groupId string, sec *session.Context) ([]Constraint, error) {
	if err := ValidateObjectName("groupId", groupId); err != nil {
		return nil, err
	}

	items := []ConstraintItem{}
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Where(&ConstraintItem{GroupID: groupId}).Order("constraint_id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return itemsToConstraints(items)
}

// QueryConstraintsByUser is a point lookup on the user secondary index.
func QueryConstraintsByUser(userId string, sec *session.Context) ([]Constraint, error) {
	if err := ValidateUserId("userId", userId); err != nil {
		return nil, err
	}

	items := []ConstraintItem{}
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Where(&ConstraintItem{UserID: userId}).Order("constraint_id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return itemsToConstraints(items)
}

func GetConstraint(constraintId string, sec *session.Context) (*Constraint, error) {
	item := ConstraintItem{}
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Where("constraint_id = ? OR constraint_id LIKE ?", constraintId, itemKeyLikePrefix(constraintId)).
		Order("constraint_id ASC").First(&item).Error; err != nil {
		return nil, err
	}
	return itemToConstraint(&item)
}

func itemsToConstraints(items []ConstraintItem) ([]Constraint, error) {
	constraints := []Constraint{}
	for i := range items {
		c, err := itemToConstraint(&items[i])
		if err != nil {
			return nil, err
		}
		constraints = append(constraints, *c)
	}
	return constraints, nil
}

func itemToConstraint(item *ConstraintItem) (*Constraint, error) {
	c := Constraint{
		Identifier:  BaseConstraintId(item.ConstraintID),
		Name:        item.Name,
		Description: item.Description,
		ObjectType:  item.ObjectType,

		DateCreated:  item.DateCreated,
		DateModified: item.DateModified,
		CreatedBy:    item.CreatedBy,
		ModifiedBy:   item.ModifiedBy,
	}
	if err := json.Unmarshal([]byte(item.CriteriaAnd), &c.CriteriaAnd); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(item.CriteriaOr), &c.CriteriaOr); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(item.GroupPermissions), &c.GroupPermissions); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(item.UserPermissions), &c.UserPermissions); err != nil {
		return nil, err
	}
	return &c, nil
}
