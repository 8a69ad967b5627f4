package userrole_test

import (
	"assethub/account"
	"assethub/bizerror"
	"assethub/domain/userrole"
	"assethub/event"
	"assethub/persistence"
	"assethub/session"
	"assethub/testinfra"
	"testing"

	. "github.com/onsi/gomega"
)

func setupUserRolesTestDatabase() (*testinfra.TestDatabase, func()) {
	testDatabase := testinfra.StartMysqlTestDatabase("assethub")
	persistence.ActiveDataSourceManager = testDatabase.DS
	Expect(testDatabase.DS.GormDB().AutoMigrate(&userrole.UserRole{}, &event.AuditRecord{}).Error).To(BeNil())
	return testDatabase, func() {
		persistence.ActiveDataSourceManager = nil
		testinfra.StopMysqlTestDatabase(testDatabase)
	}
}

func userRoleAdminSecCtx() *session.Context {
	return testinfra.BuildSecCtx(10, account.SystemAdminPermission.ID)
}

func roleNames(records []userrole.UserRole) []string {
	names := []string{}
	for _, r := range records {
		names = append(names, r.RoleName)
	}
	return names
}

func TestAssignUserRoles(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should be forbidden without system admin permission", func(t *testing.T) {
		_, err := userrole.AssignUserRoles(userrole.UserRolesAssignment{
			UserID: "alice@example.com", RoleNames: []string{"r1"}}, nil)
		Expect(err).To(Equal(bizerror.ErrForbidden))
	})

	t.Run("should validate user id and role names", func(t *testing.T) {
		sec := userRoleAdminSecCtx()
		_, err := userrole.AssignUserRoles(userrole.UserRolesAssignment{
			UserID: "x", RoleNames: []string{"r1"}}, sec)
		Expect(err).ToNot(BeNil())
		Expect(err.Error()).To(ContainSubstring("Invalid userId 'x'"))

		_, err = userrole.AssignUserRoles(userrole.UserRolesAssignment{
			UserID: "alice@example.com", RoleNames: []string{"bad role"}}, sec)
		Expect(err).ToNot(BeNil())
		Expect(err.Error()).To(ContainSubstring("Invalid roleName"))
	})

	t.Run("assigning is additive and idempotent", func(t *testing.T) {
		_, teardown := setupUserRolesTestDatabase()
		defer teardown()
		sec := userRoleAdminSecCtx()

		created, err := userrole.AssignUserRoles(userrole.UserRolesAssignment{
			UserID: "alice@example.com", RoleNames: []string{"db-admin"}}, sec)
		Expect(err).To(BeNil())
		Expect(created).To(HaveLen(1))

		// re-assigning an existing role creates nothing new
		created, err = userrole.AssignUserRoles(userrole.UserRolesAssignment{
			UserID: "alice@example.com", RoleNames: []string{"db-admin", "viewer"}}, sec)
		Expect(err).To(BeNil())
		Expect(created).To(HaveLen(1))
		Expect(created[0].RoleName).To(Equal("viewer"))

		records, err := userrole.QueryUserRoles("alice@example.com", sec)
		Expect(err).To(BeNil())
		Expect(roleNames(records)).To(Equal([]string{"db-admin", "viewer"}))
	})
}

func TestReplaceAndDeleteUserRoles(t *testing.T) {
	RegisterTestingT(t)

	t.Run("replacing swaps the whole role set", func(t *testing.T) {
		_, teardown := setupUserRolesTestDatabase()
		defer teardown()
		sec := userRoleAdminSecCtx()

		_, err := userrole.AssignUserRoles(userrole.UserRolesAssignment{
			UserID: "alice@example.com", RoleNames: []string{"db-admin", "viewer"}}, sec)
		Expect(err).To(BeNil())

		replaced, err := userrole.ReplaceUserRoles(userrole.UserRolesAssignment{
			UserID: "alice@example.com", RoleNames: []string{"auditor"}}, sec)
		Expect(err).To(BeNil())
		Expect(replaced).To(HaveLen(1))

		records, err := userrole.QueryUserRoles("alice@example.com", sec)
		Expect(err).To(BeNil())
		Expect(roleNames(records)).To(Equal([]string{"auditor"}))
	})

	t.Run("deleting clears every role of the user and only that user", func(t *testing.T) {
		_, teardown := setupUserRolesTestDatabase()
		defer teardown()
		sec := userRoleAdminSecCtx()

		_, err := userrole.AssignUserRoles(userrole.UserRolesAssignment{
			UserID: "alice@example.com", RoleNames: []string{"db-admin", "viewer"}}, sec)
		Expect(err).To(BeNil())
		_, err = userrole.AssignUserRoles(userrole.UserRolesAssignment{
			UserID: "bob@example.com", RoleNames: []string{"db-admin"}}, sec)
		Expect(err).To(BeNil())

		Expect(userrole.DeleteUserRoles("alice@example.com", sec)).To(BeNil())

		records, err := userrole.QueryUserRoles("alice@example.com", sec)
		Expect(err).To(BeNil())
		Expect(records).To(BeEmpty())

		records, err = userrole.QueryUserRoles("bob@example.com", sec)
		Expect(err).To(BeNil())
		Expect(records).To(HaveLen(1))
	})
}
