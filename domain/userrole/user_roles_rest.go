package userrole

import (
	"assethub/bizerror"
	"assethub/session"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathUserRoles = "/v1/user-roles"
)

func RegisterUserRolesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathUserRoles, middleWares...)
	g.POST("", handleAssignUserRoles)
	g.PUT("", handleReplaceUserRoles)
	g.GET("/:userId", handleQueryUserRoles)
	g.DELETE("/:userId", handleDeleteUserRoles)
}

func handleAssignUserRoles(c *gin.Context) {
	assignment := UserRolesAssignment{}
	if err := c.ShouldBindBodyWith(&assignment, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	records, err := AssignUserRolesFunc(assignment, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func handleReplaceUserRoles(c *gin.Context) {
	assignment := UserRolesAssignment{}
	if err := c.ShouldBindBodyWith(&assignment, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	records, err := ReplaceUserRolesFunc(assignment, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func handleQueryUserRoles(c *gin.Context) {
	records, err := QueryUserRoles(c.Param("userId"), session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func handleDeleteUserRoles(c *gin.Context) {
	if err := DeleteUserRolesFunc(c.Param("userId"), session.FindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
