package auth

import (
	"context"

	"github.com/goliatone/go-payware/core"
	"github.com/goliatone/go-payware/token"
)

// DirectPartnerStrategy signs tokens for a partner acting on its own behalf.
type DirectPartnerStrategy struct {
	signer Signer
}

func NewDirectPartnerStrategy(signer Signer) *DirectPartnerStrategy {
	return &DirectPartnerStrategy{signer: signer}
}

func (*DirectPartnerStrategy) Type() core.Role {
	return core.RoleDirect
}

func (s *DirectPartnerStrategy) Issue(ctx context.Context, req core.IssueRequest) (core.IssuedToken, error) {
	if err := checkContext(ctx); err != nil {
		return core.IssuedToken{}, err
	}
	if err := requireSigner(s.signer, core.RoleDirect); err != nil {
		return core.IssuedToken{}, err
	}
	return s.signer.Issue(req.Identity, req.PrivateKey, token.Direct{}, req.Body, req.DigestAlgorithm)
}
