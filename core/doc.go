// Package core contains the payware token contracts, the error taxonomy,
// configuration loading and the observable Service. Lower-level packages
// (keys, canonical, digest, token, auth) depend on core; core must not depend
// on them.
package core
