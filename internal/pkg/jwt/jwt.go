package jwt

import (
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/shift-attendance/internal/domain/auth"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// DefaultAccessTokenTTL applies when GenerateAccessToken is called with a zero ttl.
const DefaultAccessTokenTTL = 12 * time.Hour

type Service interface {
	GenerateAccessToken(subject string, employeeID string, role auth.Role, ttl time.Duration) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(token string)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	tokenAuth     *jwtauth.JWTAuth
	revokedTokens map[string]int64
	mu            sync.RWMutex
	now           func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth:     jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens: make(map[string]int64),
		now:           time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(subject string, employeeID string, role auth.Role, ttl time.Duration) (token string, expiresAt int64, err error) {
	if !role.IsValid() {
		return "", 0, fmt.Errorf("unknown role %q", role)
	}
	if role == auth.RoleEmployee && employeeID == "" {
		return "", 0, auth.ErrEmployeeClaimMissing
	}
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}

	now := j.now()
	expiresAt = now.Add(ttl).Unix()

	claims := map[string]interface{}{
		"sub":  subject,
		"role": string(role),
		"type": "access",
		"iat":  now.Unix(),
		"exp":  expiresAt,
	}
	if employeeID != "" {
		claims["employee_id"] = employeeID
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) RevokeToken(token string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.revokedTokens[token] = j.now().Unix()
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}
