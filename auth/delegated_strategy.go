package auth

import (
	"context"

	"github.com/goliatone/go-payware/core"
	"github.com/goliatone/go-payware/token"
)

// DelegatedPartnerStrategy signs tokens for a partner acting for a target
// partner that granted it a delegation token.
type DelegatedPartnerStrategy struct {
	signer Signer
}

func NewDelegatedPartnerStrategy(signer Signer) *DelegatedPartnerStrategy {
	return &DelegatedPartnerStrategy{signer: signer}
}

func (*DelegatedPartnerStrategy) Type() core.Role {
	return core.RoleDelegated
}

func (s *DelegatedPartnerStrategy) Issue(ctx context.Context, req core.IssueRequest) (core.IssuedToken, error) {
	if err := checkContext(ctx); err != nil {
		return core.IssuedToken{}, err
	}
	if err := requireSigner(s.signer, core.RoleDelegated); err != nil {
		return core.IssuedToken{}, err
	}
	delegation, err := token.NewDelegated(req.TargetIdentity, req.DelegationToken)
	if err != nil {
		return core.IssuedToken{}, err
	}
	return s.signer.Issue(req.Identity, req.PrivateKey, delegation, req.Body, req.DigestAlgorithm)
}
