package infra

import (
	"fmt"
	"strings"

	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/domain"
)

// FormatRunValue builds the Run value for execPath: the quoted path,
// followed by the scope flag if the scope is not ScopeBoth.
func FormatRunValue(execPath string, scope domain.Scope) string {
	value := `"` + execPath + `"`
	if flag := scope.Flag(); flag != "" {
		value += " " + flag
	}
	return value
}

// ParseRunValue extracts the executable path and scope from a Run value.
//
// Quoted form: the path is everything between the leading quote and the next
// quote, and the remainder must be empty or a single scope flag. Unquoted
// form: an optional trailing scope flag is split off. Anything else fails
// with domain.ErrMalformedRecord.
func ParseRunValue(raw string) (*domain.InstalledRecord, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, fmt.Errorf("%w: empty", domain.ErrMalformedRecord)
	}

	var path, rest string
	if strings.HasPrefix(value, `"`) {
		end := strings.IndexByte(value[1:], '"')
		if end < 0 {
			return nil, fmt.Errorf("%w: missing closing quote", domain.ErrMalformedRecord)
		}
		path = value[1 : end+1]
		rest = strings.TrimSpace(value[end+2:])
	} else {
		path, rest = splitTrailingFlag(value)
	}

	if path == "" {
		return nil, fmt.Errorf("%w: empty path", domain.ErrMalformedRecord)
	}
	if strings.ContainsRune(path, '"') {
		return nil, fmt.Errorf("%w: stray quote in path", domain.ErrMalformedRecord)
	}

	scope, ok := domain.ScopeFromFlag(rest)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected arguments %q", domain.ErrMalformedRecord, rest)
	}

	return &domain.InstalledRecord{
		Path:  path,
		Scope: scope,
		Raw:   raw,
	}, nil
}

func splitTrailingFlag(value string) (path, flag string) {
	for _, f := range []string{domain.AppOnlyFlag, domain.SystemOnlyFlag} {
		if strings.HasSuffix(value, " "+f) {
			return strings.TrimSpace(strings.TrimSuffix(value, f)), f
		}
	}
	return value, ""
}
