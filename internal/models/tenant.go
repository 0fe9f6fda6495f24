package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Tenant struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Domain    string    `db:"domain" json:"domain"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// DomainFromName derives the unique tenant domain: lower case, whitespace
// runs collapsed into a single dash.
func DomainFromName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
