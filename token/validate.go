package token

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/goliatone/go-payware/core"
	"github.com/goliatone/go-payware/digest"
	"github.com/goliatone/go-payware/keys"
)

const (
	FindingUnexpectedAlgorithm = "unexpected_algorithm"
	FindingUnexpectedType      = "unexpected_type"
	FindingMissingClaim        = "missing_claim"
	FindingUnexpectedAudience  = "unexpected_audience"
	FindingDeprecatedDigest    = "deprecated_digest"
	FindingDuplicateDigest     = "duplicate_digest"
	FindingAlgorithmMismatch   = "digest_algorithm_mismatch"
	FindingMissingDigest       = "missing_digest"
	FindingUnexpectedDigest    = "unexpected_digest"
	FindingDigestMismatch      = "digest_mismatch"
	FindingInvalidPublicKey    = "invalid_public_key"
	FindingSignatureInvalid    = "signature_invalid"
)

type ValidateOptions struct {
	// ReferenceBody is the body the request is expected to carry. Nil skips
	// the digest comparison.
	ReferenceBody any
	// PublicKey, when set, enables RS256 signature verification.
	PublicKey string
	// DigestAlgorithm is the algorithm the caller expects. Empty accepts
	// whichever the header carries.
	DigestAlgorithm core.DigestAlgorithm
	// Audience expected on direct tokens. Defaults to core.DefaultAudience.
	Audience string
}

// Validate decodes raw and reports structural, digest and signature findings.
// Only a token that cannot be decoded at all is returned as an error.
func Validate(raw string, opts ValidateOptions) (core.TokenValidationReport, error) {
	decoded, err := Decode(raw)
	if err != nil {
		return core.TokenValidationReport{}, err
	}

	report := core.TokenValidationReport{
		Role:    decoded.Role(),
		Header:  decoded.Header,
		Payload: decoded.Payload,
	}

	checkHeader(&report, decoded)
	checkClaims(&report, decoded, opts)
	checkDigest(&report, decoded, opts)
	if strings.TrimSpace(opts.PublicKey) != "" {
		checkSignature(&report, decoded, opts.PublicKey)
	}
	return report, nil
}

func checkHeader(report *core.TokenValidationReport, decoded Decoded) {
	if alg, _ := decoded.Header[HeaderAlgorithm].(string); alg != jwt.SigningMethodRS256.Alg() {
		addError(report, FindingUnexpectedAlgorithm, "header alg must be RS256, got "+quote(alg))
	}
	if typ, _ := decoded.Header[HeaderType].(string); typ != TypeJWT {
		addWarning(report, FindingUnexpectedType, "header typ should be JWT, got "+quote(typ))
	}
}

func checkClaims(report *core.TokenValidationReport, decoded Decoded, opts ValidateOptions) {
	claims := decoded.Claims
	if strings.TrimSpace(claims.Issuer) == "" {
		addError(report, FindingMissingClaim, "iss claim is required")
	}
	if strings.TrimSpace(claims.Audience) == "" {
		addError(report, FindingMissingClaim, "aud claim is required")
	}
	if claims.IssuedAt == 0 {
		addError(report, FindingMissingClaim, "iat claim is required")
	}

	if report.Role != core.RoleDirect || claims.Audience == "" {
		return
	}
	audience := strings.TrimSpace(opts.Audience)
	if audience == "" {
		audience = core.DefaultAudience
	}
	if claims.Audience != audience {
		addWarning(report, FindingUnexpectedAudience, "direct token audience is "+quote(claims.Audience)+", expected "+quote(audience))
	}
}

func checkDigest(report *core.TokenValidationReport, decoded Decoded, opts ValidateOptions) {
	alg, expected, present := decoded.Digest()
	report.DigestPresent = present
	report.ExpectedDigest = expected
	report.DigestAlgorithm = alg

	if _, hasSHA := decoded.Header[core.HeaderContentSHA256]; hasSHA {
		if _, hasMD5 := decoded.Header[core.HeaderContentMD5]; hasMD5 {
			addWarning(report, FindingDuplicateDigest, "header carries both contentSha256 and contentMd5")
		}
	}
	if present && alg.Deprecated() {
		report.DigestDeprecated = true
		addWarning(report, FindingDeprecatedDigest, "contentMd5 is deprecated, use contentSha256")
	}
	if present && opts.DigestAlgorithm != "" && opts.DigestAlgorithm != alg {
		addError(report, FindingAlgorithmMismatch, "header digest uses "+string(alg)+", expected "+string(opts.DigestAlgorithm))
	}

	if opts.ReferenceBody == nil {
		return
	}
	if !present {
		alg = opts.DigestAlgorithm
		if alg == "" {
			alg = core.DigestSHA256
		}
		report.DigestAlgorithm = alg
	}

	computed, err := digest.Compute(opts.ReferenceBody, alg)
	if err != nil {
		addError(report, FindingDigestMismatch, "reference body cannot be digested: "+err.Error())
		return
	}
	report.ComputedDigest = computed.Value

	switch {
	case present && !computed.Present:
		addError(report, FindingUnexpectedDigest, "token carries a digest but the reference body is empty")
	case !present && computed.Present:
		addError(report, FindingMissingDigest, "reference body is present but the token carries no digest")
	case !present && !computed.Present:
		report.DigestMatches = true
	default:
		ok, err := digest.Compare(expected, computed.Canonical, alg)
		if err != nil {
			addError(report, FindingDigestMismatch, err.Error())
			return
		}
		report.DigestMatches = ok
		if !ok {
			addError(report, FindingDigestMismatch, "header digest does not match the canonical reference body")
		}
	}
}

func checkSignature(report *core.TokenValidationReport, decoded Decoded, publicKey string) {
	key, err := keys.ParsePublicKey(publicKey)
	if err != nil {
		addError(report, FindingInvalidPublicKey, err.Error())
		return
	}
	report.SignatureChecked = true

	_, err = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	).ParseWithClaims(decoded.Raw, jwt.MapClaims{}, func(*jwt.Token) (any, error) {
		return key, nil
	})
	if err != nil {
		addError(report, FindingSignatureInvalid, "signature verification failed: "+err.Error())
		return
	}
	report.SignatureVerified = true
}

func addError(report *core.TokenValidationReport, code string, message string) {
	report.Errors = append(report.Errors, core.ValidationFinding{Code: code, Message: message})
}

func addWarning(report *core.TokenValidationReport, code string, message string) {
	report.Warnings = append(report.Warnings, core.ValidationFinding{Code: code, Message: message})
}

func quote(value string) string {
	return `"` + value + `"`
}

// Validator adapts Validate to core.TokenValidator.
type Validator struct {
	Audience string
}

func (v Validator) Validate(ctx context.Context, req core.ValidateTokenRequest) (core.TokenValidationReport, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return core.TokenValidationReport{}, err
		}
	}
	return Validate(req.Token, ValidateOptions{
		ReferenceBody:   req.ReferenceBody,
		PublicKey:       req.PublicKey,
		DigestAlgorithm: req.DigestAlgorithm,
		Audience:        v.Audience,
	})
}

var _ core.TokenValidator = Validator{}
