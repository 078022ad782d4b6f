package render

import (
	"fmt"
	"strings"
)

// sanitizeToken turns an arbitrary identity string into a diagram-safe
// token: non-alphanumeric runes become '_', a leading digit gets an "r_"
// prefix, and an empty result becomes "unnamed". Pure function; collision
// handling lives in tokenTable.
func sanitizeToken(identity string) string {
	var b strings.Builder
	for _, r := range identity {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	token := b.String()
	if token == "" {
		return "unnamed"
	}
	if token[0] >= '0' && token[0] <= '9' {
		token = "r_" + token
	}
	return token
}

// tokenTable assigns unique tokens to identities. When two identities
// sanitize to the same token the later one (in assignment order) gets a
// deterministic numeric suffix, so assigning in sorted identity order yields
// reproducible output.
type tokenTable struct {
	byIdentity map[string]string
	taken      map[string]bool
}

func newTokenTable() *tokenTable {
	return &tokenTable{
		byIdentity: make(map[string]string),
		taken:      make(map[string]bool),
	}
}

func (t *tokenTable) assign(identity string) string {
	if token, ok := t.byIdentity[identity]; ok {
		return token
	}
	token := sanitizeToken(identity)
	for n := 2; t.taken[token]; n++ {
		token = fmt.Sprintf("%s_%d", sanitizeToken(identity), n)
	}
	t.taken[token] = true
	t.byIdentity[identity] = token
	return token
}

func (t *tokenTable) lookup(identity string) (string, bool) {
	token, ok := t.byIdentity[identity]
	return token, ok
}
