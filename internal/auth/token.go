package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	audienceAccess  = "access"
	audienceRefresh = "refresh"
	audienceReset   = "password-reset"
)

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	ResetTokenSecret   []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	ResetTokenTTL      time.Duration

	now func() time.Time
}

type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	ResetSecret   string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	ResetTTL      time.Duration
}

// NewJWTTokenGenerator creates a new JWT token generator
func NewJWTTokenGenerator(cfg TokenConfig) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(cfg.AccessSecret),
		RefreshTokenSecret: []byte(cfg.RefreshSecret),
		ResetTokenSecret:   []byte(cfg.ResetSecret),
		AccessTokenTTL:     cfg.AccessTTL,
		RefreshTokenTTL:    cfg.RefreshTTL,
		ResetTokenTTL:      cfg.ResetTTL,
		now:                time.Now,
	}
}

func (j *JWTTokenGenerator) GenerateAccessToken(sub Subject) (string, error) {
	return j.sign(sub, audienceAccess, j.AccessTokenTTL, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) GenerateRefreshToken(sub Subject) (string, error) {
	return j.sign(sub, audienceRefresh, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

// GenerateResetToken issues a password reset token and returns when it expires.
func (j *JWTTokenGenerator) GenerateResetToken(userID int64) (string, time.Time, error) {
	expiresAt := j.now().Add(j.ResetTokenTTL)
	token, err := j.sign(Subject{UserID: userID}, audienceReset, j.ResetTokenTTL, j.ResetTokenSecret)
	return token, expiresAt, err
}

func (j *JWTTokenGenerator) ValidateAccessToken(tokenString string) (*Claims, error) {
	return j.parse(tokenString, audienceAccess, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.parse(tokenString, audienceRefresh, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) ValidateResetToken(tokenString string) (int64, error) {
	claims, err := j.parse(tokenString, audienceReset, j.ResetTokenSecret)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

func (j *JWTTokenGenerator) sign(sub Subject, audience string, ttl time.Duration, secret []byte) (string, error) {
	now := j.now()
	claims := &Claims{
		UserID:   sub.UserID,
		RoleID:   sub.RoleID,
		RoleName: sub.RoleName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(sub.UserID, 10),
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (j *JWTTokenGenerator) parse(tokenString, audience string, secret []byte) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
