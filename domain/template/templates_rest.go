package template

import (
	"assethub/bizerror"
	"assethub/session"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathTemplateImport = "/v1/constraints/template-import"
)

func RegisterTemplateImportRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathTemplateImport, middleWares...)
	g.POST("", handleImportConstraints)
}

func handleImportConstraints(c *gin.Context) {
	req := ImportRequest{}
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	result, err := ImportConstraintsFunc(&req, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}
