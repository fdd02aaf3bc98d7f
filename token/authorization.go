package token

import (
	"strings"

	"github.com/goliatone/go-payware/core"
)

// Authorization selects how a token is addressed. The only implementations
// are Direct and Delegated.
type Authorization interface {
	Role() core.Role
	claims(identity string, audience string, issuedAt int64) (Claims, error)
}

// Direct addresses the token to the payware audience on the issuer's own
// behalf.
type Direct struct{}

func (Direct) Role() core.Role { return core.RoleDirect }

func (Direct) claims(identity string, audience string, issuedAt int64) (Claims, error) {
	return Claims{Issuer: identity, Audience: audience, IssuedAt: issuedAt}, nil
}

// Delegated addresses the token to a target partner, carrying the delegation
// token granted by that partner as the subject. Build it with NewDelegated.
type Delegated struct {
	target          string
	delegationToken string
}

// NewDelegated returns a Delegated authorization, or a missing authorization
// error naming every empty field.
func NewDelegated(target string, delegationToken string) (Delegated, error) {
	d := Delegated{
		target:          strings.TrimSpace(target),
		delegationToken: strings.TrimSpace(delegationToken),
	}
	if err := d.check(); err != nil {
		return Delegated{}, err
	}
	return d, nil
}

func (Delegated) Role() core.Role { return core.RoleDelegated }

func (d Delegated) Target() string { return d.target }

func (d Delegated) DelegationToken() string { return d.delegationToken }

func (d Delegated) claims(identity string, _ string, issuedAt int64) (Claims, error) {
	if err := d.check(); err != nil {
		return Claims{}, err
	}
	return Claims{
		Issuer:   identity,
		Audience: d.target,
		Subject:  d.delegationToken,
		IssuedAt: issuedAt,
	}, nil
}

func (d Delegated) check() error {
	missing := make([]string, 0, 2)
	if d.target == "" {
		missing = append(missing, "target_identity")
	}
	if d.delegationToken == "" {
		missing = append(missing, "delegation_token")
	}
	if len(missing) == 0 {
		return nil
	}
	return core.MissingAuthorizationError(
		"token: delegated authorization requires target identity and delegation token",
		missing...,
	)
}
