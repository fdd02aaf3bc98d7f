package auth

import (
	"context"

	"github.com/goliatone/go-payware/core"
	"github.com/goliatone/go-payware/token"
)

// Signer is the token factory contract the strategies dispatch to.
// *token.Factory satisfies it.
type Signer interface {
	Issue(
		identity string,
		privateKey string,
		auth token.Authorization,
		body any,
		alg core.DigestAlgorithm,
	) (core.IssuedToken, error)
}

// Strategy issues tokens for one partner role.
type Strategy interface {
	Type() core.Role
	Issue(ctx context.Context, req core.IssueRequest) (core.IssuedToken, error)
}

func checkContext(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}

func requireSigner(signer Signer, role core.Role) error {
	if signer == nil {
		return core.InternalError("auth: " + string(role) + " strategy has no token signer")
	}
	return nil
}
