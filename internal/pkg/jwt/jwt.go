package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var ErrInvalidClaims = errors.New("invalid token claims")

// sseTokenTTL bounds how long a stream token can be used to open a connection.
const sseTokenTTL = 5 * time.Minute

type Service interface {
	GenerateAccessToken(principal user.Principal) (token string, expiresAt int64, err error)
	GenerateSSEToken(principal user.Principal) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (user.Principal, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime time.Duration
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// NewJWTService verifies HS256 tokens signed with secretKey, the same secret the HRIS
// auth service signs access tokens with.
func NewJWTService(secretKey string, accessTokenExpirationTime time.Duration) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(principal user.Principal) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenExpirationTime).Unix()

	claims := principalClaims(principal)
	claims["type"] = "access"
	claims["exp"] = expiresAt

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// GenerateSSEToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateSSEToken(principal user.Principal) (token string, expiresIn int, err error) {
	claims := principalClaims(principal)
	claims["type"] = "sse"
	claims["exp"] = time.Now().Add(sseTokenTTL).Unix()

	_, tokenString, err := j.tokenAuth.Encode(claims)
	if err != nil {
		return "", 0, err
	}

	return tokenString, int(sseTokenTTL.Seconds()), nil
}

// ValidateSSEToken validates an SSE token and returns its principal
func (j *JWTService) ValidateSSEToken(tokenString string) (user.Principal, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return user.Principal{}, err
	}

	claims, err := token.AsMap(context.Background())
	if err != nil {
		return user.Principal{}, err
	}

	if tokenType, _ := claims["type"].(string); tokenType != "sse" {
		return user.Principal{}, jwt.ErrInvalidJWT()
	}

	return PrincipalFromClaims(claims)
}

// PrincipalFromClaims reads the caller identity from verified token claims.
func PrincipalFromClaims(claims map[string]interface{}) (user.Principal, error) {
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return user.Principal{}, ErrInvalidClaims
	}

	employeeID, _ := claims["employee_id"].(string)
	companyID, _ := claims["company_id"].(string)
	role, _ := claims["role"].(string)

	return user.Principal{
		UserID:     userID,
		EmployeeID: employeeID,
		CompanyID:  companyID,
		Role:       user.ParseRole(role),
	}, nil
}

func principalClaims(p user.Principal) map[string]interface{} {
	claims := map[string]interface{}{
		"user_id": p.UserID,
		"role":    string(p.Role),
	}
	if p.EmployeeID != "" {
		claims["employee_id"] = p.EmployeeID
	}
	if p.CompanyID != "" {
		claims["company_id"] = p.CompanyID
	}
	return claims
}
