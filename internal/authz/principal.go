package authz

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const principalKey = "principal"

// Principal is the resolved identity of an authenticated request. Its
// TenantID is the only tenant any data operation may touch.
type Principal struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Email    string
}

func (p Principal) Valid() bool {
	return p.TenantID != uuid.Nil && p.UserID != uuid.Nil
}

// SetPrincipal stores p on the request context.
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
}

// FromContext returns the principal set by the auth middleware.
func FromContext(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	if !ok || !p.Valid() {
		return Principal{}, false
	}
	return p, true
}
