package constraint_test

import (
	"assethub/account"
	"assethub/bizerror"
	"assethub/domain/constraint"
	"assethub/event"
	"assethub/persistence"
	"assethub/session"
	"assethub/testinfra"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/jinzhu/gorm"
)

func setupConstraintsTestDatabase(t *testing.T) (*testinfra.TestDatabase, func()) {
	testDatabase := testinfra.StartMysqlTestDatabase("assethub")
	persistence.ActiveDataSourceManager = testDatabase.DS
	Expect(testDatabase.DS.GormDB().AutoMigrate(
		&constraint.ConstraintItem{}, &event.AuditRecord{}).Error).To(BeNil())
	return testDatabase, func() {
		persistence.ActiveDataSourceManager = nil
		testinfra.StopMysqlTestDatabase(testDatabase)
	}
}

func constraintAdminSecCtx() *session.Context {
	return testinfra.BuildSecCtx(10, account.SystemAdminPermission.ID)
}

func buildConstraintCreation(identifier string) constraint.ConstraintCreation {
	return constraint.ConstraintCreation{
		Identifier:  identifier,
		Name:        "asset-read",
		Description: "read access to project assets",
		ObjectType:  "asset",
		CriteriaAnd: []constraint.Criterion{
			{Field: "assetName", Operator: "starts_with", Value: constraint.StringValue("proj-")},
		},
		GroupPermissions: []constraint.GroupPermission{
			{GroupID: "team-a", Permission: "GET", PermissionType: "allow"},
		},
		UserPermissions: []constraint.UserPermission{
			{UserID: "alice@example.com", Permission: "GET", PermissionType: "allow"},
		},
	}
}

func TestCreateConstraint(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should be forbidden without system admin permission", func(t *testing.T) {
		_, err := constraint.CreateConstraint(buildConstraintCreation("c-1"), nil)
		Expect(err).To(Equal(bizerror.ErrForbidden))
		_, err = constraint.CreateConstraint(buildConstraintCreation("c-1"), testinfra.BuildSecCtx(20, "other"))
		Expect(err).To(Equal(bizerror.ErrForbidden))
	})

	t.Run("should validate before writing", func(t *testing.T) {
		creation := buildConstraintCreation("c-1")
		creation.ObjectType = "bucket"
		_, err := constraint.CreateConstraint(creation, constraintAdminSecCtx())
		Expect(err).ToNot(BeNil())
		Expect(err.Error()).To(ContainSubstring("Invalid objectType 'bucket'"))
	})

	t.Run("should persist denormalized items and be queryable both ways", func(t *testing.T) {
		_, teardown := setupConstraintsTestDatabase(t)
		defer teardown()
		sec := constraintAdminSecCtx()

		created, err := constraint.CreateConstraint(buildConstraintCreation("c-1"), sec)
		Expect(err).To(BeNil())
		Expect(created.GroupPermissions[0].ID).ToNot(BeZero())
		Expect(created.CreatedBy).To(Equal(sec.Identity.Name))

		byGroup, err := constraint.QueryConstraintsByGroup("team-a", sec)
		Expect(err).To(BeNil())
		Expect(byGroup).To(HaveLen(1))
		Expect(byGroup[0].Identifier).To(Equal("c-1"))
		Expect(byGroup[0].CriteriaAnd).To(Equal(created.CriteriaAnd))

		byUser, err := constraint.QueryConstraintsByUser("alice@example.com", sec)
		Expect(err).To(BeNil())
		Expect(byUser).To(HaveLen(1))
		Expect(byUser[0].Identifier).To(Equal("c-1"))

		detail, err := constraint.GetConstraint("c-1", sec)
		Expect(err).To(BeNil())
		Expect(detail.Name).To(Equal("asset-read"))
	})
}

func TestQueryConstraints(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should reject an empty or malformed grantee id", func(t *testing.T) {
		sec := constraintAdminSecCtx()

		_, err := constraint.QueryConstraintsByGroup("", sec)
		Expect(err).ToNot(BeNil())
		Expect(err.Error()).To(ContainSubstring("Invalid groupId"))

		_, err = constraint.QueryConstraintsByUser("", sec)
		Expect(err).ToNot(BeNil())
		Expect(err.Error()).To(ContainSubstring("Invalid userId"))
	})
}

func TestDeleteConstraint(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should remove every item sharing the constraint prefix", func(t *testing.T) {
		testDatabase, teardown := setupConstraintsTestDatabase(t)
		defer teardown()
		sec := constraintAdminSecCtx()

		_, err := constraint.CreateConstraint(buildConstraintCreation("c-1"), sec)
		Expect(err).To(BeNil())
		other := buildConstraintCreation("c-2")
		_, err = constraint.CreateConstraint(other, sec)
		Expect(err).To(BeNil())

		Expect(constraint.DeleteConstraint("c-1", sec)).To(BeNil())

		rows := []constraint.ConstraintItem{}
		Expect(testDatabase.DS.GormDB().Find(&rows).Error).To(BeNil())
		Expect(rows).To(HaveLen(2))
		for _, row := range rows {
			Expect(constraint.BaseConstraintId(row.ConstraintID)).To(Equal("c-2"))
		}
	})

	t.Run("an underscore in the identifier is matched literally, not as a wildcard", func(t *testing.T) {
		testDatabase, teardown := setupConstraintsTestDatabase(t)
		defer teardown()
		sec := constraintAdminSecCtx()

		// "a_c#%" as a raw LIKE pattern would also match "axc#..." rows
		_, err := constraint.CreateConstraint(buildConstraintCreation("a_c"), sec)
		Expect(err).To(BeNil())
		_, err = constraint.CreateConstraint(buildConstraintCreation("axc"), sec)
		Expect(err).To(BeNil())

		detail, err := constraint.GetConstraint("a_c", sec)
		Expect(err).To(BeNil())
		Expect(detail.Identifier).To(Equal("a_c"))

		Expect(constraint.DeleteConstraint("a_c", sec)).To(BeNil())

		rows := []constraint.ConstraintItem{}
		Expect(testDatabase.DS.GormDB().Find(&rows).Error).To(BeNil())
		Expect(rows).To(HaveLen(2))
		for _, row := range rows {
			Expect(constraint.BaseConstraintId(row.ConstraintID)).To(Equal("axc"))
		}
	})

	t.Run("deleting an absent constraint reports not found", func(t *testing.T) {
		_, teardown := setupConstraintsTestDatabase(t)
		defer teardown()
		Expect(constraint.DeleteConstraint("c-404", constraintAdminSecCtx())).To(Equal(gorm.ErrRecordNotFound))
	})

	t.Run("should be forbidden without system admin permission", func(t *testing.T) {
		Expect(constraint.DeleteConstraint("c-1", nil)).To(Equal(bizerror.ErrForbidden))
	})
}
