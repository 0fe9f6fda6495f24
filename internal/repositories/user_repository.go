package repositories

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tenantcrm/internal/models"
)

type UserRepository interface {
	// CreateTenantWithAdmin inserts the tenant and its first user in one
	// transaction; both rows are filled from the database on success.
	CreateTenantWithAdmin(ctx context.Context, tenant *models.Tenant, user *models.User) error
	// ListByEmail returns every account with this email, oldest first,
	// optionally restricted to one tenant domain.
	ListByEmail(ctx context.Context, email, tenantDomain string) ([]models.User, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error)
}

var users = table[models.User]{
	name:   "users",
	entity: "user",
	columns: []string{
		"id", "tenant_id", "email", "password_hash", "first_name", "last_name",
		"role", "is_active", "created_at", "updated_at",
	},
}

var tenants = table[models.Tenant]{
	name:    "tenants",
	entity:  "tenant",
	columns: []string{"id", "name", "domain", "created_at", "updated_at"},
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateTenantWithAdmin(ctx context.Context, tenant *models.Tenant, user *models.User) error {
	if tenant.ID == uuid.Nil {
		tenant.ID = uuid.New()
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		t, err := tenants.insert(ctx, tx, map[string]any{
			"id":     tenant.ID,
			"name":   tenant.Name,
			"domain": tenant.Domain,
		})
		if err != nil {
			return err
		}
		u, err := users.insert(ctx, tx, map[string]any{
			"id":            user.ID,
			"tenant_id":     t.ID,
			"email":         user.Email,
			"password_hash": user.PasswordHash,
			"first_name":    user.FirstName,
			"last_name":     user.LastName,
			"role":          user.Role,
			"is_active":     true,
		})
		if err != nil {
			return err
		}
		*tenant, *user = *t, *u
		return nil
	})
	return translate(err, "user", "register tenant")
}

func (r *userRepository) ListByEmail(ctx context.Context, email, tenantDomain string) ([]models.User, error) {
	cols := make([]string, len(users.columns))
	for i, c := range users.columns {
		cols[i] = "u." + c
	}
	b := psql.Select(cols...).
		From("users u").
		Join("tenants t ON t.id = u.tenant_id").
		Where(sq.Expr("u.email = ?", strings.ToLower(strings.TrimSpace(email))))
	if d := strings.TrimSpace(tenantDomain); d != "" {
		b = b.Where(sq.Expr("t.domain = ?", strings.ToLower(d)))
	}
	query, args, err := b.OrderBy("u.created_at ASC").ToSql()
	if err != nil {
		return nil, err
	}
	var out []models.User
	if err := sqlx.SelectContext(ctx, r.db, &out, query, args...); err != nil {
		return nil, translate(err, "user", "find user by email")
	}
	return out, nil
}

func (r *userRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error) {
	return users.get(ctx, r.db, tenantID, id)
}
