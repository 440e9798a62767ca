package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-portal/portal/pkg/http"
	"github.com/go-portal/portal/pkg/log"
	"github.com/golang-jwt/jwt/v5"
)

/**
 * @file: jwt.go
 * @description: access/refresh token pair issuance and validation
 */

const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

type AuthClaims struct {
	UserId string `json:"userId"`
	Role   string `json:"role"`
	Kind   string `json:"kind"`
	jwt.RegisteredClaims
}

var (
	issUser = "portal"

	defaultAccessExpire  = 24 * time.Hour
	defaultRefreshExpire = 7 * 24 * time.Hour
)

// GenToken issues an access and a refresh token for a user. Zero
// expirations fall back to 24h access / 7d refresh.
func GenToken(userId, role string, secretKey []byte, accessExpired, refreshExpired time.Duration) (aToken, rToken string, err error) {

	if accessExpired <= 0 {
		accessExpired = defaultAccessExpire
	}
	if refreshExpired <= 0 {
		refreshExpired = defaultRefreshExpire
	}

	aClaims := &AuthClaims{
		UserId: userId,
		Role:   role,
		Kind:   KindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issUser,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessExpired)),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	aToken, aErr := jwt.NewWithClaims(jwt.SigningMethodHS256, aClaims).SignedString(secretKey)
	if aErr != nil {
		log.Errorw("jwt.NewWithClaims err", "error", aErr)
		return "", "", aErr
	}

	rClaims := &AuthClaims{
		UserId: userId,
		Role:   role,
		Kind:   KindRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issUser,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(refreshExpired)),
		},
	}
	rToken, rErr := jwt.NewWithClaims(jwt.SigningMethodHS256, rClaims).SignedString(secretKey)
	if rErr != nil {
		log.Debugw("jwt.NewWithClaims err", "error", rErr)
		return "", "", rErr
	}

	return aToken, rToken, nil
}

// ParseToken validates a token and returns its claims.
func ParseToken(aToken, secretKey string) (claims *AuthClaims, err error) {
	claims = new(AuthClaims)
	token, err := jwt.ParseWithClaims(aToken, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, jwt.ErrTokenExpired
		}
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair.
func RefreshToken(auth *http.Auth, rToken string) (map[string]string, error) {
	newToken := make(map[string]string)

	claims, err := ParseToken(rToken, auth.SecretKey)
	if err != nil {
		return newToken, errors.New(http.InvalidToken.Msg)
	}

	if claims.Kind != KindRefresh {
		return newToken, errors.New(http.TokenFormatIncorrect.Msg)
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return newToken, errors.New(http.TokenExpired.Msg)
	}

	newAToken, newRToken, err := GenToken(claims.UserId, claims.Role, []byte(auth.SecretKey), auth.AccessExpire, auth.RefreshExpire)
	if err != nil {
		return newToken, err
	}

	newToken["accessToken"] = newAToken
	newToken["refreshToken"] = newRToken

	return newToken, nil
}
