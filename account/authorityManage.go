package account

import (
	"assethub/authority"
	"assethub/persistence"
	"errors"
	"os"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var (
	systemAdminRole        = Role{ID: "system-admin", Title: "System Administrator"}
	SystemAdminPermission  = Permission{ID: "system:admin", Title: "System Administration"}
	systemAdminRoleBinding = RolePermissionBinding{ID: 1, RoleID: systemAdminRole.ID, PermissionID: SystemAdminPermission.ID}
)

var (
	LoadPermFunc = loadPerms
)

func LoadPermFuncReset() {
	LoadPermFunc = loadPerms
}

func DefaultSecurityConfiguration() error {
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Save(&systemAdminRole).Error; err != nil {
		return err
	}
	if err := db.Save(&SystemAdminPermission).Error; err != nil {
		return err
	}
	if err := db.Save(&systemAdminRoleBinding).Error; err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		admin := User{}
		err := tx.Model(&User{}).Where(&User{ID: 1}).First(&admin).Error
		if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
			initialAdminPassword := os.ExpandEnv("${INITIAL_ADMIN_PASSWORD}")
			if initialAdminPassword == "" {
				initialAdminPassword = "admin123"
			}
			if err := tx.Save(&User{ID: 1, Name: "admin", Secret: HashSha256(initialAdminPassword)}).Error; err != nil {
				return err
			}
		}
		if err := tx.Save(&UserRoleBinding{ID: 1, UserID: 1, RoleID: systemAdminRole.ID}).Error; err != nil {
			return err
		}
		return nil
	})
}

func loadPerms(uid types.ID) authority.Permissions {
	var perms []string
	db := persistence.ActiveDataSourceManager.GormDB()

	var roleIds []string
	if err := db.Model(&UserRoleBinding{}).Where(&UserRoleBinding{UserID: uid}).Pluck("role_id", &roleIds).Error; err != nil {
		panic(err)
	}

	if len(roleIds) > 0 {
		if err := db.Model(&RolePermissionBinding{}).Where("role_id IN (?)", roleIds).Pluck("permission_id", &perms).Error; err != nil {
			panic(err)
		}
	}

	if perms == nil {
		perms = []string{}
	}
	return perms
}
