package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tenantcrm/internal/apperrors"
	"tenantcrm/internal/authz"
	"tenantcrm/internal/models"
)

const tokenLeeway = 2 * time.Minute

// Claims carried by an access token.
type Claims struct {
	UserID   uuid.UUID `json:"userId"`
	TenantID uuid.UUID `json:"tenantId"`
	Email    string    `json:"email"`
	jwt.RegisteredClaims
}

func (c *Claims) Principal() authz.Principal {
	return authz.Principal{TenantID: c.TenantID, UserID: c.UserID, Email: c.Email}
}

type AuthService interface {
	HashPassword(password string) (string, error)
	CheckPassword(hash, password string) bool
	GenerateToken(user *models.User) (string, error)
	// ParseToken verifies signature and expiry and returns the claims, or
	// an Unauthenticated error.
	ParseToken(token string) (*Claims, error)
}

type authService struct {
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

func NewAuthService(secret string, ttl time.Duration, bcryptCost int) AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &authService{secret: []byte(secret), ttl: ttl, cost: bcryptCost, now: time.Now}
}

func (s *authService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *authService) CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *authService) GenerateToken(user *models.User) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID:   user.ID,
		TenantID: user.TenantID,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *authService) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		// HMAC only
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	},
		jwt.WithLeeway(tokenLeeway),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		if err == nil {
			err = errors.New("token not valid")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeUnauthenticated, "invalid or expired token")
	}
	if !claims.Principal().Valid() {
		return nil, apperrors.New(apperrors.CodeUnauthenticated, "invalid or expired token")
	}
	return claims, nil
}
