package auth

import (
	"context"
	"sort"
	"strings"

	"github.com/goliatone/go-payware/core"
)

// Selector validates issue requests and dispatches them to the strategy
// registered for the declared role. The registry is fixed at construction.
type Selector struct {
	strategies map[core.Role]Strategy
}

// NewSelector registers strategies by role. With no strategies it registers
// the direct and delegated strategies backed by signer.
func NewSelector(signer Signer, strategies ...Strategy) (*Selector, error) {
	if len(strategies) == 0 {
		strategies = []Strategy{
			NewDirectPartnerStrategy(signer),
			NewDelegatedPartnerStrategy(signer),
		}
	}

	selector := &Selector{strategies: make(map[core.Role]Strategy, len(strategies))}
	for _, strategy := range strategies {
		if strategy == nil {
			return nil, core.BadInputError("auth: strategy is nil", nil)
		}
		role := core.NormalizeRole(strategy.Type())
		if _, exists := selector.strategies[role]; exists {
			return nil, core.BadInputError("auth: strategy already registered for role "+string(role), map[string]any{
				"role": string(role),
			})
		}
		selector.strategies[role] = strategy
	}
	return selector, nil
}

// Issue checks identity and key material, resolves the strategy for req.Role
// (empty means direct) and issues a token through it.
func (s *Selector) Issue(ctx context.Context, req core.IssueRequest) (core.IssuedToken, error) {
	if s == nil {
		return core.IssuedToken{}, core.InternalError("auth: selector is nil")
	}
	if err := checkContext(ctx); err != nil {
		return core.IssuedToken{}, err
	}

	role := core.NormalizeRole(req.Role)
	strategy, ok := s.strategies[role]
	if !ok {
		return core.IssuedToken{}, core.UnsupportedRoleError(role)
	}

	req.Role = role
	req.Identity = strings.TrimSpace(req.Identity)
	if req.Identity == "" {
		return core.IssuedToken{}, core.ValidationError("identity", "partner identity is required")
	}
	if strings.TrimSpace(req.PrivateKey) == "" {
		return core.IssuedToken{}, core.InvalidKeyError("auth: private key material is required", map[string]any{
			"role": string(role),
		})
	}
	return strategy.Issue(ctx, req)
}

// Roles lists the registered roles in sorted order.
func (s *Selector) Roles() []core.Role {
	if s == nil {
		return nil
	}
	roles := make([]core.Role, 0, len(s.strategies))
	for role := range s.strategies {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

var _ core.TokenIssuer = (*Selector)(nil)
