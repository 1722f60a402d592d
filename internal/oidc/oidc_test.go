package oidc

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testIssuer = "http://keycloak.local/realms/shop"

func staticVerifier(t *testing.T) (*Verifier, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	ks := &gooidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}}
	return newVerifier(gooidc.NewVerifier(testIssuer, ks, &gooidc.Config{ClientID: "shopseed"})), key
}

func sign(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return raw
}

func TestIssuerURL(t *testing.T) {
	require.Equal(t, testIssuer, IssuerURL("http://keycloak.local/", "shop"))
	require.Equal(t, testIssuer, IssuerURL("http://keycloak.local", "shop"))
}

func TestVerifier_AcceptsSignedToken(t *testing.T) {
	v, key := staticVerifier(t)
	raw := sign(t, key, jwt.MapClaims{
		"iss": testIssuer,
		"aud": "shopseed",
		"sub": "operator-1",
		"exp": time.Now().Add(time.Minute).Unix(),
		"iat": time.Now().Unix(),
	})

	tok, err := v.Verify(context.Background(), raw)
	require.NoError(t, err)
	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, "operator-1", claims["sub"])
}

func TestVerifier_RejectsWrongAudience(t *testing.T) {
	v, key := staticVerifier(t)
	raw := sign(t, key, jwt.MapClaims{
		"iss": testIssuer,
		"aud": "someone-else",
		"sub": "operator-1",
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	_, err := v.Verify(context.Background(), raw)
	require.Error(t, err)
}

func TestVerifier_RejectsExpired(t *testing.T) {
	v, key := staticVerifier(t)
	raw := sign(t, key, jwt.MapClaims{
		"iss": testIssuer,
		"aud": "shopseed",
		"sub": "operator-1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	_, err := v.Verify(context.Background(), raw)
	require.Error(t, err)
}

func TestVerifier_RejectsForeignKey(t *testing.T) {
	v, _ := staticVerifier(t)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	raw := sign(t, other, jwt.MapClaims{
		"iss": testIssuer,
		"aud": "shopseed",
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	_, err = v.Verify(context.Background(), raw)
	require.Error(t, err)
}

func TestNewVerifier_DiscoveryFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewVerifier(ctx, "http://127.0.0.1:1/realms/none", "shopseed")
	require.Error(t, err)
}
