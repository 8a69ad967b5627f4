package constraint

import (
	"assethub/bizerror"
	"assethub/session"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathConstraints = "/v1/constraints"
)

func RegisterConstraintsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathConstraints, middleWares...)
	g.POST("", handleCreateConstraint)
	g.GET("", handleQueryConstraints)
	g.GET("/:id", handleGetConstraint)
	g.DELETE("/:id", handleDeleteConstraint)
}

func handleCreateConstraint(c *gin.Context) {
	creation := ConstraintCreation{}
	err := c.ShouldBindBodyWith(&creation, binding.JSON)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateConstraintFunc(creation, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

type constraintQuery struct {
	GroupID string `json:"groupId" form:"groupId"`
	UserID  string `json:"userId" form:"userId"`
}

func handleQueryConstraints(c *gin.Context) {
	query := constraintQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	sec := session.FindSecurityContext(c)
	var records []Constraint
	var err error
	switch {
	case query.GroupID != "":
		records, err = QueryConstraintsByGroup(query.GroupID, sec)
	case query.UserID != "":
		records, err = QueryConstraintsByUser(query.UserID, sec)
	default:
		panic(&bizerror.ErrBadParam{})
	}
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func handleGetConstraint(c *gin.Context) {
	record, err := GetConstraint(c.Param("id"), session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleDeleteConstraint(c *gin.Context) {
	if err := DeleteConstraintFunc(c.Param("id"), session.FindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
