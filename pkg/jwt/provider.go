package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// RoleStaff marks tokens allowed to read contact submissions.
const RoleStaff = "staff"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNotStaff     = errors.New("token is not a staff token")
	ErrNoSecret     = errors.New("signing secret is not configured")
)

type JWTProvider struct {
	Secret    string
	AccessTTL time.Duration
	now       func() time.Time
}

func NewJWTProvider(secret string, accessTTL time.Duration) *JWTProvider {
	return &JWTProvider{
		Secret:    secret,
		AccessTTL: accessTTL,
		now:       time.Now,
	}
}

// GenerateStaffToken signs an HS256 access token for the given staff member.
func (p *JWTProvider) GenerateStaffToken(subject string) (string, error) {
	if p.Secret == "" {
		return "", ErrNoSecret
	}
	if subject == "" {
		return "", errors.New("subject is required")
	}
	now := p.now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": RoleStaff,
		"iat":  now.Unix(),
		"exp":  now.Add(p.AccessTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(p.Secret))
}

// ParseStaffToken verifies the signature and expiry and returns the subject.
// Without a secret every token is rejected.
func (p *JWTProvider) ParseStaffToken(token string) (string, error) {
	if p.Secret == "" {
		return "", ErrNoSecret
	}
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(p.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	return subjectFromClaims(claims)
}

// subjectFromClaims checks the staff role on already verified claims.
func subjectFromClaims(claims jwt.MapClaims) (string, error) {
	if role, ok := claims["role"].(string); !ok || role != RoleStaff {
		return "", ErrNotStaff
	}
	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return "", ErrInvalidToken
	}
	return subject, nil
}
