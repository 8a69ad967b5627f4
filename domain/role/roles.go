package role

import (
	"assethub/account"
	"assethub/bizerror"
	"assethub/common"
	"assethub/domain/constraint"
	"assethub/event"
	"assethub/persistence"
	"assethub/session"
	"fmt"
	"strings"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var AllowedRoleSources = []string{"INTERNAL_SYSTEM", "EXTERNAL_IDENTITY_PROVIDER"}

type RoleCreation struct {
	RoleName    string `json:"roleName" binding:"required,lte=256"`
	Description string `json:"description" binding:"required,lte=256"`

	Source           string `json:"source" binding:"omitempty,lte=256"`
	SourceIdentifier string `json:"sourceIdentifier" binding:"omitempty,lte=256"`
	MfaRequired      bool   `json:"mfaRequired"`
}

type RoleUpdating struct {
	Description string `json:"description" binding:"required,lte=256"`

	Source           string `json:"source" binding:"omitempty,lte=256"`
	SourceIdentifier string `json:"sourceIdentifier" binding:"omitempty,lte=256"`
	MfaRequired      bool   `json:"mfaRequired"`
}

type Role struct {
	ID types.ID `json:"id"`

	RoleName    string `json:"roleName" gorm:"unique_index:uni_role_name"`
	Description string `json:"description"`

	Source           string `json:"source"`
	SourceIdentifier string `json:"sourceIdentifier"`
	MfaRequired      bool   `json:"mfaRequired"`

	CreatorID  types.ID        `json:"creatorId"`
	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

var (
	roleIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateRoleFunc = CreateRole
	QueryRolesFunc = QueryRoles
	UpdateRoleFunc = UpdateRole
	DeleteRoleFunc = DeleteRole
)

func CreateRole(c RoleCreation, sec *session.Context) (*Role, error) {
	if sec == nil || !sec.Perms.HasRole(account.SystemAdminPermission.ID) {
		return nil, bizerror.ErrForbidden
	}
	if err := validateRoleFields(c.RoleName, c.Description, c.Source); err != nil {
		return nil, err
	}

	r := Role{RoleName: c.RoleName, Description: c.Description,
		Source: c.Source, SourceIdentifier: c.SourceIdentifier, MfaRequired: c.MfaRequired,
		ID:         common.NextId(roleIdWorker),
		CreatorID:  sec.Identity.ID,
		CreateTime: types.CurrentTimestamp()}
	if err := persistence.ActiveDataSourceManager.GormDB().Create(&r).Error; err != nil {
		return nil, err
	}

	if err := event.Record("ROLE", r.RoleName, r.Description, event.AuditCategoryCreated,
		event.AuditDetail{"source": r.Source}, sec.Actor()); err != nil {
		common.Log.Warnf("failed to record audit event for role %s: %v", r.RoleName, err)
	}
	return &r, nil
}

func QueryRoles(sec *session.Context) ([]Role, error) {
	roles := []Role{}
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Order("role_name ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func UpdateRole(roleName string, u RoleUpdating, sec *session.Context) (*Role, error) {
	if sec == nil || !sec.Perms.HasRole(account.SystemAdminPermission.ID) {
		return nil, bizerror.ErrForbidden
	}
	if err := validateRoleFields(roleName, u.Description, u.Source); err != nil {
		return nil, err
	}

	r := Role{}
	err := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(&Role{RoleName: roleName}).First(&r).Error; err != nil {
			return err
		}
		updates := map[string]interface{}{
			"description": u.Description, "source": u.Source,
			"source_identifier": u.SourceIdentifier, "mfa_required": u.MfaRequired,
		}
		if err := tx.Model(&r).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where(&Role{RoleName: roleName}).First(&r).Error
	})
	if err != nil {
		return nil, err
	}

	if err := event.Record("ROLE", r.RoleName, r.Description, event.AuditCategoryUpdated, nil, sec.Actor()); err != nil {
		common.Log.Warnf("failed to record audit event for role %s: %v", r.RoleName, err)
	}
	return &r, nil
}

func DeleteRole(roleName string, sec *session.Context) error {
	if sec == nil || !sec.Perms.HasRole(account.SystemAdminPermission.ID) {
		return bizerror.ErrForbidden
	}

	err := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		r := Role{}
		if err := tx.Where(&Role{RoleName: roleName}).First(&r).Error; err != nil {
			return err
		}
		return tx.Delete(Role{}, "role_name = ?", roleName).Error
	})
	if err != nil {
		return err
	}

	if err := event.Record("ROLE", roleName, "", event.AuditCategoryDeleted, nil, sec.Actor()); err != nil {
		common.Log.Warnf("failed to record audit event for role %s: %v", roleName, err)
	}
	return nil
}

func validateRoleFields(roleName, description, source string) error {
	if err := constraint.ValidateObjectName("roleName", roleName); err != nil {
		return err
	}
	if err := constraint.ValidateDescription("description", description); err != nil {
		return err
	}
	if source != "" {
		allowed := false
		for _, s := range AllowedRoleSources {
			if s == source {
				allowed = true
				break
			}
		}
		if !allowed {
			return &bizerror.ErrInvalidConstraint{Message: fmt.Sprintf(
				"Invalid source '%s'. Allowed values: %s", source, strings.Join(AllowedRoleSources, ", "))}
		}
	}
	return nil
}
