package template_test

import (
	"assethub/bizerror"
	"assethub/domain/template"
	"assethub/session"
	"assethub/testinfra"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func TestTemplateImportRestAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	template.RegisterTemplateImportRestAPI(router)

	t.Run("should deliver the parsed request and return the import result", func(t *testing.T) {
		var received *template.ImportRequest
		origImport := template.ImportConstraintsFunc
		defer func() { template.ImportConstraintsFunc = origImport }()
		template.ImportConstraintsFunc = func(req *template.ImportRequest, sec *session.Context) (*template.ImportResult, error) {
			received = req
			return &template.ImportResult{Success: true, Message: "ok", ConstraintsCreated: 1,
				ConstraintIds: []string{"c-1"}, Timestamp: "2026-08-30T10:00:00Z"}, nil
		}

		body := `{
			"template": {"name": "database-access"},
			"variableValues": {"ROLE_NAME": "db-admin", "DATABASE_ID": "proj1"},
			"constraints": [{
				"name": "{{ROLE_NAME}}-access", "description": "d", "objectType": "database",
				"criteriaAnd": [{"field": "databaseId", "operator": "equals", "value": "{{DATABASE_ID}}"}],
				"groupPermissions": [{"action": "GET", "type": "allow"}]
			}]
		}`
		req, _ := http.NewRequest(http.MethodPost, template.PathTemplateImport, strings.NewReader(body))
		status, respBody, _ := testinfra.ExecuteRequest(req, router)

		Expect(status).To(Equal(http.StatusOK))
		Expect(respBody).To(MatchJSON(`{"success": true, "message": "ok", "constraintsCreated": 1,
			"constraintIds": ["c-1"], "timestamp": "2026-08-30T10:00:00Z"}`))

		Expect(received).ToNot(BeNil())
		Expect(received.TemplateName()).To(Equal("database-access"))
		Expect(received.VariableValues["ROLE_NAME"]).To(Equal("db-admin"))
		Expect(received.Constraints).To(HaveLen(1))
	})

	t.Run("should answer 400 for a missing body", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, template.PathTemplateImport, nil)
		status, respBody, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(respBody).To(MatchJSON(`{"code": "bad_request.body_not_found", "message": "body not found"}`))
	})

	t.Run("should answer 400 for a request without variableValues", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, template.PathTemplateImport,
			strings.NewReader(`{"constraints": []}`))
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
	})

	t.Run("unresolved variables surface as a structured 400", func(t *testing.T) {
		origImport := template.ImportConstraintsFunc
		defer func() { template.ImportConstraintsFunc = origImport }()
		template.ImportConstraintsFunc = func(req *template.ImportRequest, sec *session.Context) (*template.ImportResult, error) {
			return nil, &bizerror.ErrUnresolvedVariables{Names: []string{"DATABASE_ID"}}
		}

		body := `{
			"variableValues": {"ROLE_NAME": "db-admin"},
			"constraints": [{
				"name": "n", "description": "d", "objectType": "database",
				"criteriaAnd": [{"field": "databaseId", "operator": "equals", "value": "{{DATABASE_ID}}"}],
				"groupPermissions": [{"action": "GET"}]
			}]
		}`
		req, _ := http.NewRequest(http.MethodPost, template.PathTemplateImport, strings.NewReader(body))
		status, respBody, _ := testinfra.ExecuteRequest(req, router)

		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(respBody).To(ContainSubstring(`"code":"template.unresolved_variables"`))
		Expect(respBody).To(ContainSubstring("DATABASE_ID"))
	})

	t.Run("a storage failure surfaces as 500 with the created ids", func(t *testing.T) {
		origImport := template.ImportConstraintsFunc
		defer func() { template.ImportConstraintsFunc = origImport }()
		template.ImportConstraintsFunc = func(req *template.ImportRequest, sec *session.Context) (*template.ImportResult, error) {
			return nil, &bizerror.ErrStorageFailure{CreatedConstraintIds: []string{"c-1"}}
		}

		body := `{
			"variableValues": {"ROLE_NAME": "db-admin"},
			"constraints": [{
				"name": "n", "description": "d", "objectType": "database",
				"criteriaAnd": [{"field": "databaseId", "operator": "equals", "value": "v"}],
				"groupPermissions": [{"action": "GET"}]
			}]
		}`
		req, _ := http.NewRequest(http.MethodPost, template.PathTemplateImport, strings.NewReader(body))
		status, respBody, _ := testinfra.ExecuteRequest(req, router)

		Expect(status).To(Equal(http.StatusInternalServerError))
		Expect(respBody).To(ContainSubstring(`"code":"constraint.storage_failure"`))
		Expect(respBody).To(ContainSubstring(`"data":["c-1"]`))
	})
}
