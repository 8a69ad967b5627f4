package role

import (
	"assethub/bizerror"
	"assethub/session"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathRoles = "/v1/roles"
)

func RegisterRolesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathRoles, middleWares...)
	g.POST("", handleCreateRole)
	g.GET("", handleQueryRoles)
	g.PUT("/:roleName", handleUpdateRole)
	g.DELETE("/:roleName", handleDeleteRole)
}

func handleCreateRole(c *gin.Context) {
	creation := RoleCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateRoleFunc(creation, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleQueryRoles(c *gin.Context) {
	records, err := QueryRolesFunc(session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func handleUpdateRole(c *gin.Context) {
	updating := RoleUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := UpdateRoleFunc(c.Param("roleName"), updating, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleDeleteRole(c *gin.Context) {
	if err := DeleteRoleFunc(c.Param("roleName"), session.FindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
