package userrole

import (
	"assethub/account"
	"assethub/bizerror"
	"assethub/common"
	"assethub/domain/constraint"
	"assethub/event"
	"assethub/persistence"
	"assethub/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

// UserRole is one user-to-role assignment row. A user with several roles owns
// several rows.
type UserRole struct {
	ID types.ID `json:"id"`

	UserID   string `json:"userId" gorm:"unique_index:uni_user_role;index:idx_user_roles_user"`
	RoleName string `json:"roleName" gorm:"unique_index:uni_user_role"`

	CreatorID  types.ID        `json:"creatorId"`
	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

type UserRolesAssignment struct {
	UserID    string   `json:"userId" binding:"required,gte=3,lte=256"`
	RoleNames []string `json:"roleName" binding:"required,gt=0"`
}

var (
	userRoleIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	AssignUserRolesFunc  = AssignUserRoles
	ReplaceUserRolesFunc = ReplaceUserRoles
	DeleteUserRolesFunc  = DeleteUserRoles
)

// AssignUserRoles adds the given roles to a user, keeping existing ones.
func AssignUserRoles(a UserRolesAssignment, sec *session.Context) ([]UserRole, error) {
	if sec == nil || !sec.Perms.HasRole(account.SystemAdminPermission.ID) {
		return nil, bizerror.ErrForbidden
	}
	if err := validateAssignment(a); err != nil {
		return nil, err
	}

	created := []UserRole{}
	err := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		for _, roleName := range a.RoleNames {
			existing := UserRole{}
			err := tx.Where(&UserRole{UserID: a.UserID, RoleName: roleName}).First(&existing).Error
			if err == nil {
				continue
			}
			if err != gorm.ErrRecordNotFound {
				return err
			}
			r := UserRole{ID: common.NextId(userRoleIdWorker), UserID: a.UserID, RoleName: roleName,
				CreatorID: sec.Identity.ID, CreateTime: types.CurrentTimestamp()}
			if err := tx.Create(&r).Error; err != nil {
				return err
			}
			created = append(created, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordAudit(a.UserID, event.AuditCategoryCreated, a.RoleNames, sec)
	return created, nil
}

// ReplaceUserRoles replaces the whole role set of a user.
func ReplaceUserRoles(a UserRolesAssignment, sec *session.Context) ([]UserRole, error) {
	if sec == nil || !sec.Perms.HasRole(account.SystemAdminPermission.ID) {
		return nil, bizerror.ErrForbidden
	}
	if err := validateAssignment(a); err != nil {
		return nil, err
	}

	replaced := []UserRole{}
	err := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(UserRole{}, "user_id = ?", a.UserID).Error; err != nil {
			return err
		}
		for _, roleName := range a.RoleNames {
			r := UserRole{ID: common.NextId(userRoleIdWorker), UserID: a.UserID, RoleName: roleName,
				CreatorID: sec.Identity.ID, CreateTime: types.CurrentTimestamp()}
			if err := tx.Create(&r).Error; err != nil {
				return err
			}
			replaced = append(replaced, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordAudit(a.UserID, event.AuditCategoryUpdated, a.RoleNames, sec)
	return replaced, nil
}

func DeleteUserRoles(userId string, sec *session.Context) error {
	if sec == nil || !sec.Perms.HasRole(account.SystemAdminPermission.ID) {
		return bizerror.ErrForbidden
	}
	if err := constraint.ValidateUserId("userId", userId); err != nil {
		return err
	}

	if err := persistence.ActiveDataSourceManager.GormDB().Delete(UserRole{}, "user_id = ?", userId).Error; err != nil {
		return err
	}
	recordAudit(userId, event.AuditCategoryDeleted, nil, sec)
	return nil
}

func QueryUserRoles(userId string, sec *session.Context) ([]UserRole, error) {
	records := []UserRole{}
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Where(&UserRole{UserID: userId}).Order("role_name ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func validateAssignment(a UserRolesAssignment) error {
	if err := constraint.ValidateUserId("userId", a.UserID); err != nil {
		return err
	}
	for _, roleName := range a.RoleNames {
		if err := constraint.ValidateObjectName("roleName", roleName); err != nil {
			return err
		}
	}
	return nil
}

func recordAudit(userId string, category event.AuditCategory, roleNames []string, sec *session.Context) {
	detail := event.AuditDetail{}
	if roleNames != nil {
		detail["roleNames"] = roleNames
	}
	if err := event.Record("USER_ROLE", userId, "", category, detail, sec.Actor()); err != nil {
		common.Log.Warnf("failed to record audit event for user %s: %v", userId, err)
	}
}
