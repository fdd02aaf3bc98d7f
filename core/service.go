package core

import (
	"context"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/google/uuid"
)

type Service struct {
	config          Config
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	errorMapper     ErrorMapper
	configProvider  ConfigProvider
	optionsResolver OptionsResolver
	issuer          TokenIssuer
	keyInspector    KeyInspector
	validator       TokenValidator
	canonicalizer   BodyCanonicalizer
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	builder := buildOptions(cfg, opts...)

	provider, logger := glog.Resolve("payware", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("payware"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	finalConfig, err := resolveConfig(builder)
	if err != nil {
		return nil, err
	}

	return &Service{
		config:          finalConfig,
		logger:          logger,
		loggerProvider:  provider,
		metricsRecorder: builder.metricsRecorder,
		errorMapper:     builder.errorMapper,
		configProvider:  builder.configProvider,
		optionsResolver: builder.optionsResolver,
		issuer:          builder.issuer,
		keyInspector:    builder.keyInspector,
		validator:       builder.validator,
		canonicalizer:   builder.canonicalizer,
	}, nil
}

// ResolveConfig runs the configured provider and options resolver without
// building a service. Wiring code uses it to size collaborators before
// NewService.
func ResolveConfig(cfg Config, opts ...Option) (Config, error) {
	return resolveConfig(buildOptions(cfg, opts...))
}

func buildOptions(cfg Config, opts ...Option) serviceBuilder {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	return builder
}

func resolveConfig(builder serviceBuilder) (Config, error) {
	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return Config{}, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return Config{}, mapBuildError(builder.errorMapper, err)
	}
	return finalConfig, nil
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

type ServiceDependencies struct {
	Logger            Logger
	LoggerProvider    LoggerProvider
	MetricsRecorder   MetricsRecorder
	ErrorMapper       ErrorMapper
	ConfigProvider    ConfigProvider
	OptionsResolver   OptionsResolver
	TokenIssuer       TokenIssuer
	KeyInspector      KeyInspector
	TokenValidator    TokenValidator
	BodyCanonicalizer BodyCanonicalizer
}

func (s *Service) Dependencies() ServiceDependencies {
	if s == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:            s.logger,
		LoggerProvider:    s.loggerProvider,
		MetricsRecorder:   s.metricsRecorder,
		ErrorMapper:       s.errorMapper,
		ConfigProvider:    s.configProvider,
		OptionsResolver:   s.optionsResolver,
		TokenIssuer:       s.issuer,
		KeyInspector:      s.keyInspector,
		TokenValidator:    s.validator,
		BodyCanonicalizer: s.canonicalizer,
	}
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

// IssueToken signs a fresh token for req. When req.DigestAlgorithm is empty
// the configured default applies.
func (s *Service) IssueToken(ctx context.Context, req IssueRequest) (issued IssuedToken, err error) {
	if s == nil {
		return IssuedToken{}, InternalError("core: service is nil")
	}
	startedAt := time.Now().UTC()
	req.Role = NormalizeRole(req.Role)
	if strings.TrimSpace(string(req.DigestAlgorithm)) == "" {
		req.DigestAlgorithm = s.config.DefaultDigestAlgorithm()
	}
	fields := map[string]any{
		"issuance_id":      uuid.NewString(),
		"role":             string(req.Role),
		"partner_id":       strings.TrimSpace(req.Identity),
		"target_id":        strings.TrimSpace(req.TargetIdentity),
		"digest_algorithm": string(req.DigestAlgorithm),
		"has_body":         req.Body != nil,
	}
	defer func() {
		if err == nil {
			fields["has_content_digest"] = issued.HasBody()
		}
		s.observeOperation(ctx, startedAt, "issue_token", err, fields)
	}()

	if s.issuer == nil {
		return IssuedToken{}, InternalError("core: token issuer is not configured")
	}
	if ctx != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return IssuedToken{}, s.mapError(ctxErr)
		}
	}
	if req.DigestAlgorithm.Deprecated() {
		s.logWarn(ctx, "issue_token uses deprecated digest algorithm", map[string]any{
			"digest_algorithm": string(req.DigestAlgorithm),
			"partner_id":       strings.TrimSpace(req.Identity),
		})
	}

	issued, err = s.issuer.Issue(ctx, req)
	if err != nil {
		return IssuedToken{}, s.mapError(err)
	}
	return issued, nil
}

func (s *Service) NormalizeKey(ctx context.Context, text string) (normalized string, err error) {
	if s == nil {
		return "", InternalError("core: service is nil")
	}
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		s.observeOperation(ctx, startedAt, "normalize_key", err, fields)
	}()

	if s.keyInspector == nil {
		return "", InternalError("core: key inspector is not configured")
	}
	normalized, err = s.keyInspector.Normalize(text)
	if err != nil {
		return "", s.mapError(err)
	}
	info := s.keyInspector.Inspect(normalized)
	fields["key_format"] = string(info.Format)
	fields["key_private"] = info.IsPrivate
	return normalized, nil
}

func (s *Service) InspectKey(ctx context.Context, text string) (KeyInfo, error) {
	if s == nil {
		return KeyInfo{}, InternalError("core: service is nil")
	}
	if s.keyInspector == nil {
		return KeyInfo{}, InternalError("core: key inspector is not configured")
	}
	startedAt := time.Now().UTC()
	info := s.keyInspector.Inspect(text)
	s.observeOperation(ctx, startedAt, "inspect_key", nil, map[string]any{
		"key_format":  string(info.Format),
		"key_headers": info.HasHeaders,
		"key_private": info.IsPrivate,
		"key_length":  info.Length,
	})
	return info, nil
}

func (s *Service) Canonicalize(ctx context.Context, value any) (canonical []byte, err error) {
	if s == nil {
		return nil, InternalError("core: service is nil")
	}
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		if err == nil {
			fields["body_bytes"] = len(canonical)
		}
		s.observeOperation(ctx, startedAt, "canonicalize", err, fields)
	}()

	if s.canonicalizer == nil {
		return nil, InternalError("core: body canonicalizer is not configured")
	}
	canonical, err = s.canonicalizer.Canonicalize(value)
	if err != nil {
		return nil, s.mapError(err)
	}
	return canonical, nil
}

// ValidateToken is diagnostic tooling: it never affects issuance and only
// reports whether a token's digest and signature line up with the inputs.
func (s *Service) ValidateToken(ctx context.Context, req ValidateTokenRequest) (report TokenValidationReport, err error) {
	if s == nil {
		return TokenValidationReport{}, InternalError("core: service is nil")
	}
	startedAt := time.Now().UTC()
	if strings.TrimSpace(string(req.DigestAlgorithm)) == "" {
		req.DigestAlgorithm = s.config.DefaultDigestAlgorithm()
	}
	fields := map[string]any{
		"has_reference_body": req.ReferenceBody != nil,
		"has_public_key":     strings.TrimSpace(req.PublicKey) != "",
	}
	defer func() {
		if err == nil {
			fields["role"] = string(report.Role)
			fields["valid"] = report.Valid()
			fields["digest_matches"] = report.DigestMatches
		}
		s.observeOperation(ctx, startedAt, "validate_token", err, fields)
	}()

	if s.validator == nil {
		return TokenValidationReport{}, InternalError("core: token validator is not configured")
	}
	report, err = s.validator.Validate(ctx, req)
	if err != nil {
		return TokenValidationReport{}, s.mapError(err)
	}
	return report, nil
}

func (s *Service) mapError(err error) error {
	if err == nil {
		return nil
	}
	if s == nil || s.errorMapper == nil {
		return err
	}
	mapped := s.errorMapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}
