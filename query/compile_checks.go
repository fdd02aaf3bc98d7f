package query

import (
	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-payware/core"
)

var (
	_ gocmd.Querier[IssueTokenMessage, core.IssuedToken]              = (*IssueTokenQuery)(nil)
	_ gocmd.Querier[ValidateTokenMessage, core.TokenValidationReport] = (*ValidateTokenQuery)(nil)
	_ gocmd.Querier[NormalizeKeyMessage, string]                      = (*NormalizeKeyQuery)(nil)
	_ gocmd.Querier[InspectKeyMessage, core.KeyInfo]                  = (*InspectKeyQuery)(nil)
	_ gocmd.Querier[CanonicalizeMessage, string]                      = (*CanonicalizeQuery)(nil)

	_ TokenIssuer       = (*core.Service)(nil)
	_ TokenValidator    = (*core.Service)(nil)
	_ KeyReader         = (*core.Service)(nil)
	_ BodyCanonicalizer = (*core.Service)(nil)
)
