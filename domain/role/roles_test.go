package role_test

import (
	"assethub/account"
	"assethub/bizerror"
	"assethub/domain/role"
	"assethub/event"
	"assethub/persistence"
	"assethub/session"
	"assethub/testinfra"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/jinzhu/gorm"
)

func setupRolesTestDatabase() (*testinfra.TestDatabase, func()) {
	testDatabase := testinfra.StartMysqlTestDatabase("assethub")
	persistence.ActiveDataSourceManager = testDatabase.DS
	Expect(testDatabase.DS.GormDB().AutoMigrate(&role.Role{}, &event.AuditRecord{}).Error).To(BeNil())
	return testDatabase, func() {
		persistence.ActiveDataSourceManager = nil
		testinfra.StopMysqlTestDatabase(testDatabase)
	}
}

func roleAdminSecCtx() *session.Context {
	return testinfra.BuildSecCtx(10, account.SystemAdminPermission.ID)
}

func TestCreateRole(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should be forbidden without system admin permission", func(t *testing.T) {
		_, err := role.CreateRole(role.RoleCreation{RoleName: "r1", Description: "d"}, nil)
		Expect(err).To(Equal(bizerror.ErrForbidden))
	})

	t.Run("should validate name, description and source", func(t *testing.T) {
		sec := roleAdminSecCtx()
		_, err := role.CreateRole(role.RoleCreation{RoleName: "bad name", Description: "d"}, sec)
		Expect(err).ToNot(BeNil())
		Expect(err.Error()).To(ContainSubstring("Invalid roleName"))

		_, err = role.CreateRole(role.RoleCreation{RoleName: "r1", Description: "d", Source: "LDAP"}, sec)
		Expect(err).ToNot(BeNil())
		Expect(err.Error()).To(ContainSubstring("Invalid source 'LDAP'"))
	})

	t.Run("should persist the role and reject a duplicate name", func(t *testing.T) {
		_, teardown := setupRolesTestDatabase()
		defer teardown()
		sec := roleAdminSecCtx()

		created, err := role.CreateRole(role.RoleCreation{
			RoleName: "db-admin", Description: "database administrators",
			Source: "EXTERNAL_IDENTITY_PROVIDER", SourceIdentifier: "idp-group-1", MfaRequired: true}, sec)
		Expect(err).To(BeNil())
		Expect(created.ID).ToNot(BeZero())
		Expect(created.CreatorID).To(Equal(sec.Identity.ID))

		_, err = role.CreateRole(role.RoleCreation{RoleName: "db-admin", Description: "again"}, sec)
		Expect(err).ToNot(BeNil())

		roles, err := role.QueryRoles(sec)
		Expect(err).To(BeNil())
		Expect(roles).To(HaveLen(1))
		Expect(roles[0].RoleName).To(Equal("db-admin"))
		Expect(roles[0].MfaRequired).To(BeTrue())
	})
}

func TestUpdateAndDeleteRole(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should update mutable fields only", func(t *testing.T) {
		_, teardown := setupRolesTestDatabase()
		defer teardown()
		sec := roleAdminSecCtx()

		created, err := role.CreateRole(role.RoleCreation{RoleName: "db-admin", Description: "old"}, sec)
		Expect(err).To(BeNil())

		updated, err := role.UpdateRole("db-admin", role.RoleUpdating{
			Description: "new", Source: "INTERNAL_SYSTEM"}, sec)
		Expect(err).To(BeNil())
		Expect(updated.ID).To(Equal(created.ID))
		Expect(updated.Description).To(Equal("new"))
		Expect(updated.Source).To(Equal("INTERNAL_SYSTEM"))
	})

	t.Run("updating or deleting an absent role reports not found", func(t *testing.T) {
		_, teardown := setupRolesTestDatabase()
		defer teardown()
		sec := roleAdminSecCtx()

		_, err := role.UpdateRole("ghost", role.RoleUpdating{Description: "d"}, sec)
		Expect(err).To(Equal(gorm.ErrRecordNotFound))
		Expect(role.DeleteRole("ghost", sec)).To(Equal(gorm.ErrRecordNotFound))
	})

	t.Run("should delete a role by name", func(t *testing.T) {
		_, teardown := setupRolesTestDatabase()
		defer teardown()
		sec := roleAdminSecCtx()

		_, err := role.CreateRole(role.RoleCreation{RoleName: "db-admin", Description: "d"}, sec)
		Expect(err).To(BeNil())
		Expect(role.DeleteRole("db-admin", sec)).To(BeNil())

		roles, err := role.QueryRoles(sec)
		Expect(err).To(BeNil())
		Expect(roles).To(BeEmpty())
	})
}

func TestCheckRoleExistence(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should answer unknown when the registry is not configured", func(t *testing.T) {
		persistence.ActiveDataSourceManager = nil
		Expect(role.CheckRoleExistence("db-admin")).To(Equal(role.RoleUnknown))
	})

	t.Run("should distinguish exists from not found", func(t *testing.T) {
		_, teardown := setupRolesTestDatabase()
		defer teardown()

		_, err := role.CreateRole(role.RoleCreation{RoleName: "db-admin", Description: "d"}, roleAdminSecCtx())
		Expect(err).To(BeNil())

		Expect(role.CheckRoleExistence("db-admin")).To(Equal(role.RoleExists))
		Expect(role.CheckRoleExistence("ghost")).To(Equal(role.RoleNotFound))
	})

	t.Run("should answer unknown on a registry failure", func(t *testing.T) {
		testDatabase, teardown := setupRolesTestDatabase()
		defer teardown()
		Expect(testDatabase.DS.GormDB().DropTable(&role.Role{}).Error).To(BeNil())

		Expect(role.CheckRoleExistence("db-admin")).To(Equal(role.RoleUnknown))
	})

	t.Run("existence values render for logs", func(t *testing.T) {
		Expect(role.RoleExists.String()).To(Equal("exists"))
		Expect(role.RoleNotFound.String()).To(Equal("not_found"))
		Expect(role.RoleUnknown.String()).To(Equal("unknown"))
	})
}
