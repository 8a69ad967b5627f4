package testinfra

import (
	"assethub/session"
	"net/http"
	"net/http/httptest"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

// BuildSecCtx build security context
func BuildSecCtx(uid types.ID, perms ...string) *session.Context {
	return &session.Context{Token: "test_token", Identity: session.Identity{ID: uid, Name: "user" + uid.String()}, Perms: perms}
}

func ExecuteRequest(req *http.Request, router *gin.Engine) (int, string, http.Header) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code, w.Body.String(), w.Header()
}
