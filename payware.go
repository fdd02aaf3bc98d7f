package payware

import (
	"context"
	"fmt"

	"github.com/goliatone/go-command/runner"

	"github.com/goliatone/go-payware/adapters/gocommand"
	"github.com/goliatone/go-payware/auth"
	"github.com/goliatone/go-payware/canonical"
	"github.com/goliatone/go-payware/core"
	"github.com/goliatone/go-payware/keys"
	paywarequery "github.com/goliatone/go-payware/query"
	"github.com/goliatone/go-payware/token"
	"github.com/goliatone/go-payware/transport"
)

type Config = core.Config

type Option = core.Option

type Service = core.Service

type ServiceDependencies = core.ServiceDependencies

type IssueRequest = core.IssueRequest
type IssuedToken = core.IssuedToken
type ValidateTokenRequest = core.ValidateTokenRequest
type TokenValidationReport = core.TokenValidationReport

var (
	WithLogger          = core.WithLogger
	WithLoggerProvider  = core.WithLoggerProvider
	WithMetricsRecorder = core.WithMetricsRecorder
	WithErrorMapper     = core.WithErrorMapper
	WithConfigProvider  = core.WithConfigProvider
	WithOptionsResolver = core.WithOptionsResolver
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

type Queries struct {
	IssueToken    *paywarequery.IssueTokenQuery
	ValidateToken *paywarequery.ValidateTokenQuery
	NormalizeKey  *paywarequery.NormalizeKeyQuery
	InspectKey    *paywarequery.InspectKeyQuery
	Canonicalize  *paywarequery.CanonicalizeQuery
}

// Facade wires the key normalizer, canonical serializer, token factory and
// role selector behind one observable core.Service.
type Facade struct {
	service   *Service
	factory   *token.Factory
	selector  *auth.Selector
	queries   Queries
	transport *transport.RESTAdapter
}

// New resolves cfg, builds the token factory and selector from the resolved
// audience and digest default, and registers them with the service. Caller
// options are applied after the built-in collaborators so they can replace
// any of them.
func New(cfg Config, opts ...Option) (*Facade, error) {
	resolved, err := core.ResolveConfig(cfg, opts...)
	if err != nil {
		return nil, err
	}

	factory := token.NewFactory(token.FactoryConfig{
		Audience:        resolved.Audience,
		DigestAlgorithm: resolved.DefaultDigestAlgorithm(),
	})
	selector, err := auth.NewSelector(factory)
	if err != nil {
		return nil, fmt.Errorf("payware: build strategy selector: %w", err)
	}

	builtins := []Option{
		core.WithTokenIssuer(selector),
		core.WithKeyInspector(keys.Inspector{}),
		core.WithTokenValidator(token.Validator{Audience: resolved.Audience}),
		core.WithBodyCanonicalizer(canonical.Canonicalizer{}),
	}
	service, err := core.NewService(cfg, append(builtins, opts...)...)
	if err != nil {
		return nil, err
	}

	facade := &Facade{
		service:  service,
		factory:  factory,
		selector: selector,
	}
	facade.queries = Queries{
		IssueToken:    paywarequery.NewIssueTokenQuery(service),
		ValidateToken: paywarequery.NewValidateTokenQuery(service),
		NormalizeKey:  paywarequery.NewNormalizeKeyQuery(service),
		InspectKey:    paywarequery.NewInspectKeyQuery(service),
		Canonicalize:  paywarequery.NewCanonicalizeQuery(service),
	}
	facade.transport = transport.NewRESTAdapterFromConfig(service.Config(), serviceIssuer{service: service})
	return facade, nil
}

func (f *Facade) Service() *Service {
	if f == nil {
		return nil
	}
	return f.service
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Factory() *token.Factory {
	if f == nil {
		return nil
	}
	return f.factory
}

func (f *Facade) Selector() *auth.Selector {
	if f == nil {
		return nil
	}
	return f.selector
}

// Transport returns the REST adapter bound to the configured base URL. Tokens
// it sends are issued through Service so they are logged and counted.
func (f *Facade) Transport() *transport.RESTAdapter {
	if f == nil {
		return nil
	}
	return f.transport
}

// RegisterQueries publishes the facade query handlers on the go-command
// dispatcher. Callers release them with Subscriptions.Unsubscribe.
func (f *Facade) RegisterQueries(adapter *gocommand.RegistryAdapter, runnerOpts ...runner.Option) (gocommand.Subscriptions, error) {
	if f == nil {
		return nil, core.InternalError("payware: facade is nil")
	}
	return gocommand.RegisterQueries(adapter, gocommand.QuerySet{
		IssueToken:    f.queries.IssueToken,
		ValidateToken: f.queries.ValidateToken,
		NormalizeKey:  f.queries.NormalizeKey,
		InspectKey:    f.queries.InspectKey,
		Canonicalize:  f.queries.Canonicalize,
	}, runnerOpts...)
}

type serviceIssuer struct {
	service *Service
}

func (i serviceIssuer) Issue(ctx context.Context, req core.IssueRequest) (core.IssuedToken, error) {
	return i.service.IssueToken(ctx, req)
}

var _ core.TokenIssuer = serviceIssuer{}
