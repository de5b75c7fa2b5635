package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims carries the account identity issued after the identity-provider
// callback. ExternalID is the provider's stable subject; AccountID is the
// local row the subject maps to.
type Claims struct {
	AccountID  uint      `json:"account_id"`
	ExternalID string    `json:"external_id"`
	Email      string    `json:"email"`
	TokenType  TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type JWTService struct {
	secret           []byte
	accessExpMinutes int
	refreshExpDays   int
}

func NewJWTService(secret string, accessExpMinutes, refreshExpDays int) *JWTService {
	return &JWTService{
		secret:           []byte(secret),
		accessExpMinutes: accessExpMinutes,
		refreshExpDays:   refreshExpDays,
	}
}

func (s *JWTService) Generate(accountID uint, externalID, email string) (*TokenPair, error) {
	now := time.Now().UTC()

	accessTokenString, err := s.sign(accountID, externalID, email, TokenTypeAccess, now,
		now.Add(time.Duration(s.accessExpMinutes)*time.Minute))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshTokenString, err := s.sign(accountID, externalID, email, TokenTypeRefresh, now,
		now.Add(time.Duration(s.refreshExpDays)*24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenString,
		ExpiresIn:    int64(s.accessExpMinutes * 60),
	}, nil
}

func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// Refresh rotates both tokens from a valid refresh token.
func (s *JWTService) Refresh(refreshTokenString string) (*TokenPair, error) {
	claims, err := s.Verify(refreshTokenString)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	if claims.TokenType != TokenTypeRefresh {
		return nil, fmt.Errorf("token is not a refresh token")
	}

	return s.Generate(claims.AccountID, claims.ExternalID, claims.Email)
}

func (s *JWTService) AccessExpMinutes() int {
	return s.accessExpMinutes
}

func (s *JWTService) sign(accountID uint, externalID, email string, tokenType TokenType, now, exp time.Time) (string, error) {
	claims := &Claims{
		AccountID:  accountID,
		ExternalID: externalID,
		Email:      email,
		TokenType:  tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
