// Package gocommand exposes the payware query handlers through the
// go-command registry and dispatcher.
package gocommand

import (
	"context"
	"strings"

	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	"github.com/goliatone/go-payware/core"
	"github.com/goliatone/go-payware/query"
)

// ValidateMessageContract enforces Type() plus the optional Validate()
// contract shared by all payware query messages.
func ValidateMessageContract(msg any) error {
	if err := command.ValidateMessage(msg); err != nil {
		return err
	}
	m, ok := msg.(command.Message)
	if !ok {
		return core.BadInputError("gocommand: message must implement Type() string", nil)
	}
	if strings.TrimSpace(m.Type()) == "" {
		return core.BadInputError("gocommand: message type is required", nil)
	}
	return nil
}

type RegistryAdapter struct {
	registry *command.Registry
}

func NewRegistryAdapter(registry *command.Registry) *RegistryAdapter {
	if registry == nil {
		registry = command.NewRegistry()
	}
	return &RegistryAdapter{registry: registry}
}

func (a *RegistryAdapter) Registry() *command.Registry {
	if a == nil {
		return nil
	}
	return a.registry
}

func (a *RegistryAdapter) RegisterQuery(qry any) error {
	if a == nil || a.registry == nil {
		return errRegistryMissing()
	}
	return a.registry.RegisterCommand(qry)
}

func (a *RegistryAdapter) AddResolver(key string, resolver command.Resolver) error {
	if a == nil || a.registry == nil {
		return errRegistryMissing()
	}
	return a.registry.AddResolver(strings.TrimSpace(key), resolver)
}

func (a *RegistryAdapter) HasResolver(key string) bool {
	if a == nil || a.registry == nil {
		return false
	}
	return a.registry.HasResolver(strings.TrimSpace(key))
}

func (a *RegistryAdapter) Initialize() error {
	if a == nil || a.registry == nil {
		return errRegistryMissing()
	}
	return a.registry.Initialize()
}

func SubscribeQuery[T any, R any](qry command.Querier[T, R], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeQuery(qry, runnerOpts...)
}

func Query[T any, R any](ctx context.Context, msg T) (R, error) {
	return commanddispatcher.Query[T, R](ctx, msg)
}

// RegisterAndSubscribeQuery subscribes qry on the dispatcher and records it in
// the registry. The subscription is released when registration fails.
func RegisterAndSubscribeQuery[T any, R any](
	adapter *RegistryAdapter,
	qry command.Querier[T, R],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, errRegistryMissing()
	}
	if qry == nil {
		return nil, core.BadInputError("gocommand: query is required", nil)
	}
	subscription := SubscribeQuery(qry, runnerOpts...)
	if err := adapter.RegisterQuery(qry); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

// QuerySet is the handler bundle published by RegisterQueries. Nil handlers
// are skipped.
type QuerySet struct {
	IssueToken    *query.IssueTokenQuery
	ValidateToken *query.ValidateTokenQuery
	NormalizeKey  *query.NormalizeKeyQuery
	InspectKey    *query.InspectKeyQuery
	Canonicalize  *query.CanonicalizeQuery
}

// Subscriptions releases every dispatcher subscription it holds.
type Subscriptions []commanddispatcher.Subscription

func (s Subscriptions) Unsubscribe() {
	for _, subscription := range s {
		if subscription != nil {
			subscription.Unsubscribe()
		}
	}
}

// RegisterQueries subscribes every handler in set. On failure the handlers
// subscribed so far are released.
func RegisterQueries(adapter *RegistryAdapter, set QuerySet, runnerOpts ...runner.Option) (Subscriptions, error) {
	var subs Subscriptions
	register := func(sub commanddispatcher.Subscription, err error) error {
		if err != nil {
			subs.Unsubscribe()
			return err
		}
		subs = append(subs, sub)
		return nil
	}

	if set.IssueToken != nil {
		if err := register(RegisterAndSubscribeQuery[query.IssueTokenMessage, core.IssuedToken](adapter, set.IssueToken, runnerOpts...)); err != nil {
			return nil, err
		}
	}
	if set.ValidateToken != nil {
		if err := register(RegisterAndSubscribeQuery[query.ValidateTokenMessage, core.TokenValidationReport](adapter, set.ValidateToken, runnerOpts...)); err != nil {
			return nil, err
		}
	}
	if set.NormalizeKey != nil {
		if err := register(RegisterAndSubscribeQuery[query.NormalizeKeyMessage, string](adapter, set.NormalizeKey, runnerOpts...)); err != nil {
			return nil, err
		}
	}
	if set.InspectKey != nil {
		if err := register(RegisterAndSubscribeQuery[query.InspectKeyMessage, core.KeyInfo](adapter, set.InspectKey, runnerOpts...)); err != nil {
			return nil, err
		}
	}
	if set.Canonicalize != nil {
		if err := register(RegisterAndSubscribeQuery[query.CanonicalizeMessage, string](adapter, set.Canonicalize, runnerOpts...)); err != nil {
			return nil, err
		}
	}
	return subs, nil
}

func errRegistryMissing() error {
	return core.InternalError("gocommand: registry is not configured")
}
