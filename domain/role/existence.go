package role

import (
	"assethub/persistence"

	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
)

// Existence is the tri-state outcome of a registry lookup. Unknown means the
// registry could not answer, which is deliberately not disqualifying:
// constraints may be provisioned ahead of their role.
type Existence int

const (
	RoleExists Existence = iota
	RoleNotFound
	RoleUnknown
)

func (e Existence) String() string {
	switch e {
	case RoleExists:
		return "exists"
	case RoleNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

var CheckRoleExistenceFunc = CheckRoleExistence

func CheckRoleExistence(roleName string) Existence {
	if persistence.ActiveDataSourceManager == nil {
		logrus.Warnf("role registry is not configured, skipping existence check for '%s'", roleName)
		return RoleUnknown
	}

	db := persistence.ActiveDataSourceManager.GormDB()
	r := Role{}
	if err := db.Where(&Role{RoleName: roleName}).First(&r).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return RoleNotFound
		}
		logrus.Warnf("could not check existence of role '%s': %v", roleName, err)
		return RoleUnknown
	}
	return RoleExists
}
