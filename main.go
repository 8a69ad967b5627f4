package main

import (
	"assethub/account"
	"assethub/bizerror"
	"assethub/domain/constraint"
	"assethub/domain/role"
	"assethub/domain/template"
	"assethub/domain/userrole"
	"assethub/event"
	"assethub/infra/tracing"
	"assethub/persistence"
	"assethub/servehttp"
	"assethub/session"
	"assethub/sessions"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("service start")

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		log.Fatalf("parse database config failed %v\n", err)
	}

	// create database (no conflict)
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			log.Fatalf("failed to prepare database %v\n", err)
		}
	}

	// connect database
	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		log.Fatalf("database connection failed %v\n", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds

	// database migration (race condition)
	err = ds.GormDB().AutoMigrate(
		&account.User{}, &account.Role{}, &account.Permission{},
		&account.RolePermissionBinding{}, &account.UserRoleBinding{},
		&constraint.ConstraintItem{}, &role.Role{}, &userrole.UserRole{},
		&event.AuditRecord{}).Error
	if err != nil {
		log.Fatalf("database migration failed %v\n", err)
	}

	if err := account.DefaultSecurityConfiguration(); err != nil {
		log.Fatalf("default security configuration failed %v\n", err)
	}

	engine := gin.Default()
	engine.Use(tracing.TracingIngress(), bizerror.ErrorHandling())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "assethub")
	})

	sessions.RegisterSessionsHandler(engine)
	sessions.RegisterSessionHandler(engine, session.SimpleAuthFilter())
	account.RegisterUsersRestAPI(engine, session.SimpleAuthFilter())

	constraint.RegisterConstraintsRestAPI(engine, session.SimpleAuthFilter())
	template.RegisterTemplateImportRestAPI(engine, session.SimpleAuthFilter())
	role.RegisterRolesRestAPI(engine, session.SimpleAuthFilter())
	userrole.RegisterUserRolesRestAPI(engine, session.SimpleAuthFilter())

	servehttp.StartHTTPServer(engine)
}
