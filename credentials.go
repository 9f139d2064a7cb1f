package sqlbridge

import (
	"strings"

	"github.com/dracory/env"

	"github.com/sqlbridge/sqlbridge/shared/types"
)

// ResolveCredential expands a single ${NAME} placeholder against the
// process environment. A value that is not a placeholder passes through
// unchanged. When the variable is unset the placeholder itself is returned,
// so a missing secret surfaces downstream rather than here.
//
// Resolution happens at the point of use on every call; resolved values are
// never cached and never written back to configuration.
func ResolveCredential(value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}
	name := value[2 : len(value)-1]
	if name == "" {
		return value
	}
	return env.GetStringOrDefault(name, value)
}

// resolveProfile returns a copy of the profile with credential placeholders
// expanded in its string connection parameters.
func resolveProfile(p types.DatabaseProfile) types.DatabaseProfile {
	p.Path = ResolveCredential(p.Path)
	p.DSN = ResolveCredential(p.DSN)
	p.DatabaseID = ResolveCredential(p.DatabaseID)
	return p
}
