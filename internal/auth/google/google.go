// Package google verifies bearer ID tokens against Google, the external
// identity provider. The stable subject claim is the key into the user
// directory.
package google

import (
	"context"
	"fmt"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
)

type Verifier struct {
	clientIDs []string
	verifier  *googleAuthIDTokenVerifier.Verifier
}

func New(clientIDs []string) *Verifier {
	return &Verifier{
		clientIDs: clientIDs,
		verifier:  &googleAuthIDTokenVerifier.Verifier{},
	}
}

// Verify checks the token signature and audience and returns the subject
// identifier.
func (v *Verifier) Verify(_ context.Context, idToken string) (string, error) {
	if err := v.verifier.VerifyIDToken(idToken, v.clientIDs); err != nil {
		return "", fmt.Errorf("failed to verify id token: %w", err)
	}

	claims, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return "", fmt.Errorf("failed to decode id token: %w", err)
	}

	return claims.Sub, nil
}
