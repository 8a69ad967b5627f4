package session

import (
	"assethub/authority"
	"time"

	"github.com/fundwit/go-commons/types"
)

// SystemActor is recorded as createdBy/modifiedBy when a call carries no
// authenticated identity.
const SystemActor = "system"

type Context struct {
	Token    string                `json:"token"`
	Identity Identity              `json:"identity"`
	Perms    authority.Permissions `json:"perms"`

	SigningTime time.Time `json:"-"`
}

type Identity struct {
	ID   types.ID `json:"id"`
	Name string   `json:"name"`
}

// Actor returns the audit actor string for the current caller.
func (c *Context) Actor() string {
	if c == nil || c.Identity.Name == "" {
		return SystemActor
	}
	return c.Identity.Name
}
