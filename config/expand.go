package config

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

var envRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-[^}]*)?\}`)

// ExpandEnv expands environment references in s.
//
// Semantics:
//   - `${VAR}` is replaced by the value of VAR; it errors when VAR is
//     missing from the environment.
//   - `${VAR:-default}` falls back to default when VAR is missing. A
//     variable set to the empty string counts as set.
//   - `$$` emits a literal `$` (escape hatch).
//   - Bare `$VAR` references pass through untouched.
func ExpandEnv(s string) (string, error) {
	const dollarSentinel = "\x00GUARDOPS_CONFIG_DOLLAR\x00"
	s = strings.ReplaceAll(s, "$$", dollarSentinel)

	missing := make(map[string]struct{})
	s = envRefPattern.ReplaceAllStringFunc(s, func(ref string) string {
		groups := envRefPattern.FindStringSubmatch(ref)
		key, fallback := groups[1], groups[2]

		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		if fallback != "" {
			return strings.TrimPrefix(fallback, ":-")
		}
		missing[key] = struct{}{}
		return ref
	})
	if len(missing) > 0 {
		keys := make([]string, 0, len(missing))
		for k := range missing {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "", fmt.Errorf("missing required environment variables: %s", strings.Join(keys, ", "))
	}

	s = strings.ReplaceAll(s, dollarSentinel, "$")
	return s, nil
}
