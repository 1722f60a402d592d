package oidc

import (
	"context"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/shopseed/shopseed/pkg/middleware"
)

// Verifier validates Keycloak-issued ID tokens for operators allowed to run seeds.
type Verifier struct {
	verifier *oidc.IDTokenVerifier
}

// IssuerURL builds the realm issuer URL Keycloak publishes its discovery document under.
func IssuerURL(baseURL, realm string) string {
	return strings.TrimRight(baseURL, "/") + "/realms/" + realm
}

// NewVerifier discovers the provider at issuer and returns a verifier bound to clientID.
func NewVerifier(ctx context.Context, issuer, clientID string) (*Verifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("discover oidc provider %s: %w", issuer, err)
	}
	return newVerifier(provider.Verifier(&oidc.Config{ClientID: clientID})), nil
}

func newVerifier(v *oidc.IDTokenVerifier) *Verifier {
	return &Verifier{verifier: v}
}

func (v *Verifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	idToken, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	return idToken, nil
}
