package core

import (
	"regexp"
	"strings"

	"medalc/internal/planerr"
)

// identifierPattern matches the SQL identifiers this package accepts:
// a letter or underscore followed by letters, digits, or $#@_.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$#@]*$`)

const maxIdentifierLength = 128

// deniedIdentifierTokens is the whitelist-first deny list: an identifier is
// rejected if its uppercased form contains any of these, even when it would
// otherwise match identifierPattern (defense against a pattern match that
// happens to admit one of these as a substring of a longer token).
var deniedIdentifierTokens = []string{
	";DROP", ";DELETE", ";UPDATE", ";INSERT",
	"--", "/*", "*/",
	"UNION SELECT", "OR 1=1", "OR '1'='1'",
}

// validateIdentifier checks name against the identifier regex, the length
// cap, and the dangerous-token deny list, returning a planerr.Error naming
// field on failure.
func validateIdentifier(field, name string) error {
	if len(name) == 0 || len(name) > maxIdentifierLength {
		return planerr.New(planerr.CodeValidation, "identifier length out of bounds").
			WithDetail("field", field).WithDetail("value", name)
	}
	if !identifierPattern.MatchString(name) {
		return planerr.New(planerr.CodeValidation, "identifier does not match the allowed pattern").
			WithDetail("field", field).WithDetail("value", name)
	}
	upper := strings.ToUpper(name)
	for _, token := range deniedIdentifierTokens {
		if strings.Contains(upper, token) {
			return planerr.New(planerr.CodeValidation, "identifier contains a disallowed token").
				WithDetail("field", field).WithDetail("value", name).WithDetail("token", token)
		}
	}
	return nil
}

// ContainsForbiddenSQLToken reports whether sql's uppercased form contains
// any of the fixed deny-list tokens rejected for ExecuteSQL bodies.
func ContainsForbiddenSQLToken(sql string) (string, bool) {
	upper := strings.ToUpper(sql)
	for _, token := range []string{
		"XP_CMDSHELL", "SP_CONFIGURE", "SP_ADDEXTENDEDPROC", "SP_EXECUTE_EXTERNAL_SCRIPT",
	} {
		if strings.Contains(upper, token) {
			return token, true
		}
	}
	return "", false
}
