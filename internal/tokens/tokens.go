package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopseed/shopseed/pkg/middleware"
)

// GenerateOperatorToken creates a signed HS256 JWT allowing sub to trigger seed runs.
func GenerateOperatorToken(secret, sub string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is empty")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   sub,
		"scope": "seed:run",
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(secret))
}

// HMACVerifier validates HS256 operator tokens. It satisfies middleware.Verifier.
type HMACVerifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()),
	}
}

type claimsToken struct {
	claims jwt.MapClaims
}

func (t *claimsToken) Claims(v interface{}) error {
	b, err := json.Marshal(t.claims)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func (v *HMACVerifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	claims := jwt.MapClaims{}
	if _, err := v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}); err != nil {
		return nil, err
	}
	if scope, _ := claims["scope"].(string); scope != "seed:run" {
		return nil, errors.New("token lacks seed:run scope")
	}
	return &claimsToken{claims: claims}, nil
}
