package account

import "github.com/fundwit/go-commons/types"

type Role struct {
	ID    string `json:"id" gorm:"primary_key"`
	Title string `json:"title"`
}

func (r *Role) TableName() string {
	return "account_roles"
}

type Permission struct {
	ID    string `json:"id" gorm:"primary_key"`
	Title string `json:"title"`
}

func (p *Permission) TableName() string {
	return "account_permissions"
}

type RolePermissionBinding struct {
	ID           types.ID `json:"id" gorm:"primary_key"`
	RoleID       string   `json:"roleId"`
	PermissionID string   `json:"permissionId"`
}

func (b *RolePermissionBinding) TableName() string {
	return "account_role_permission_bindings"
}

type UserRoleBinding struct {
	ID     types.ID `json:"id" gorm:"primary_key"`
	UserID types.ID `json:"userId"`
	RoleID string   `json:"roleId"`
}

func (b *UserRoleBinding) TableName() string {
	return "account_user_role_bindings"
}
