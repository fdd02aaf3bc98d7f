package core

import (
	"context"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
)

type Role string

const (
	RoleDirect    Role = "direct"
	RoleDelegated Role = "delegated"
)

// NormalizeRole lowercases and trims a declared role. An empty role resolves
// to RoleDirect.
func NormalizeRole(role Role) Role {
	normalized := Role(strings.TrimSpace(strings.ToLower(string(role))))
	if normalized == "" {
		return RoleDirect
	}
	return normalized
}

type DigestAlgorithm string

const (
	DigestSHA256 DigestAlgorithm = "sha256"
	DigestMD5    DigestAlgorithm = "md5"
)

const (
	HeaderContentSHA256 = "contentSha256"
	HeaderContentMD5    = "contentMd5"
)

// ParseDigestAlgorithm accepts the common spellings ("SHA-256", "sha256",
// "MD5"). An empty value resolves to DigestSHA256.
func ParseDigestAlgorithm(raw string) (DigestAlgorithm, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, "-", "")
	normalized = strings.ReplaceAll(normalized, "_", "")
	switch normalized {
	case "", "sha256":
		return DigestSHA256, nil
	case "md5":
		return DigestMD5, nil
	default:
		return "", BadInputError("core: unsupported digest algorithm "+strings.TrimSpace(raw), map[string]any{
			"digest_algorithm": strings.TrimSpace(raw),
		})
	}
}

func (a DigestAlgorithm) Valid() bool {
	return a == DigestSHA256 || a == DigestMD5
}

// HeaderField is the token header key carrying a digest of this algorithm.
func (a DigestAlgorithm) HeaderField() string {
	if a == DigestMD5 {
		return HeaderContentMD5
	}
	return HeaderContentSHA256
}

// Deprecated reports algorithms kept only for older deployments.
func (a DigestAlgorithm) Deprecated() bool {
	return a == DigestMD5
}

type KeyFormat string

const (
	KeyFormatPKCS8     KeyFormat = "pkcs8"
	KeyFormatRSA       KeyFormat = "rsa"
	KeyFormatPublic    KeyFormat = "public"
	KeyFormatRSAPublic KeyFormat = "rsa_public"
	KeyFormatUnknown   KeyFormat = "unknown"
)

type KeyInfo struct {
	Format     KeyFormat
	Label      string
	HasHeaders bool
	IsPrivate  bool
	Length     int
	Lines      int
}

// IssueRequest carries the call-site parameters for a single token.
// TargetIdentity and DelegationToken only apply to RoleDelegated.
type IssueRequest struct {
	Role            Role
	Identity        string
	PrivateKey      string
	Body            any
	TargetIdentity  string
	DelegationToken string
	DigestAlgorithm DigestAlgorithm
}

// IssuedToken is a freshly signed token. Body holds the canonical bytes the
// digest was computed over and must be sent verbatim as the request body.
type IssuedToken struct {
	Token   string
	Header  map[string]any
	Payload map[string]any
	Body    []byte
}

func (t IssuedToken) AuthorizationHeader() string {
	return "Bearer " + t.Token
}

func (t IssuedToken) HasBody() bool {
	return len(t.Body) > 0
}

type ValidateTokenRequest struct {
	Token           string
	ReferenceBody   any
	PublicKey       string
	DigestAlgorithm DigestAlgorithm
}

type ValidationFinding struct {
	Code    string
	Message string
}

type TokenValidationReport struct {
	Role              Role
	Header            map[string]any
	Payload           map[string]any
	DigestAlgorithm   DigestAlgorithm
	DigestPresent     bool
	DigestDeprecated  bool
	ExpectedDigest    string
	ComputedDigest    string
	DigestMatches     bool
	SignatureChecked  bool
	SignatureVerified bool
	Warnings          []ValidationFinding
	Errors            []ValidationFinding
}

func (r TokenValidationReport) Valid() bool {
	return len(r.Errors) == 0
}

type TokenIssuer interface {
	Issue(ctx context.Context, req IssueRequest) (IssuedToken, error)
}

type KeyInspector interface {
	Normalize(text string) (string, error)
	Inspect(text string) KeyInfo
}

type TokenValidator interface {
	Validate(ctx context.Context, req ValidateTokenRequest) (TokenValidationReport, error)
}

type BodyCanonicalizer interface {
	Canonicalize(value any) ([]byte, error)
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
