package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"recycle-backend/internal/config"
	"recycle-backend/internal/timeutil"
)

// JWTManager signs and validates customer session tokens.
type JWTManager struct {
	cfg *config.Config
}

func NewJWTManager(cfg *config.Config) *JWTManager {
	return &JWTManager{cfg: cfg}
}

// CustomerClaims are the claims carried in a customer session token.
type CustomerClaims struct {
	CustomerID string `json:"customer_id"`
	Mobile     string `json:"mobile"`
	IsCustomer bool   `json:"is_customer"`
	jwt.RegisteredClaims
}

// GenerateCustomerToken mints a session token after a successful OTP
// verification of an approved customer.
func (j *JWTManager) GenerateCustomerToken(customerID, mobile string) (string, error) {
	now := timeutil.Now()
	expiresAt := now.Add(time.Duration(j.cfg.JWT.ExpirationHours) * time.Hour)

	claims := &CustomerClaims{
		CustomerID: customerID,
		Mobile:     mobile,
		IsCustomer: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    j.cfg.JWT.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.cfg.JWT.Secret))
}

// ValidateCustomerToken verifies a session token and returns its claims.
func (j *JWTManager) ValidateCustomerToken(tokenString string) (*CustomerClaims, error) {
	claims := &CustomerClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(j.cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if !claims.IsCustomer {
		return nil, errors.New("not a customer token")
	}

	return claims, nil
}
