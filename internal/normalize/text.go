package normalize

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// recordRefRe matches upstream internal record references ("rec" plus an
// alphanumeric suffix). Those are linking plumbing, not user data, and are
// dropped from every normalized text list.
var recordRefRe = regexp.MustCompile(`^rec[0-9A-Za-z]{12,}$`)

var (
	edgeJunkRe = regexp.MustCompile(`^["'\[\]{}]+|["'\[\]{}]+$`)
	spaceRunRe = regexp.MustCompile(`\s+`)
	splitterRe = regexp.MustCompile(`[;,]`)
)

// Finite field-name preferences for object-shaped lookup values. Kept as
// explicit lists on purpose: the upstream schema is not uniformly cased, and
// a general case-insensitive rule would be guessing.
var (
	nameKeys  = []string{"name", "Name", "Full Name", "full_name"}
	emailKeys = []string{"email", "Email"}
	textKeys  = []string{"text", "Text"}
	valueKeys = []string{"value", "Value"}
)

// JoinNames flattens a lookup field (leader names, tags, statuses) into a
// single comma-joined string of unique tokens, first-seen order. Linked
// record objects contribute their name field; flattened-JSON-array artifacts
// and comma/semicolon-joined strings are split apart; record references are
// discarded.
func JoinNames(v any) string {
	tokens := newTokenList()
	walkNames(v, tokens)

	return tokens.join()
}

func walkNames(v any, tokens *tokenList) {
	switch val := v.(type) {
	case nil:
		return

	case []any:
		for _, item := range val {
			switch el := item.(type) {
			case map[string]any:
				if name, ok := lookupString(el, nameKeys); ok {
					tokens.add(name)
				} else {
					tokens.add(stringify(el))
				}
			case string:
				// `","` inside one element is a flattened JSON array artifact
				if strings.Contains(el, `","`) {
					for _, piece := range strings.Split(el, `","`) {
						tokens.add(piece)
					}
				} else {
					tokens.add(el)
				}
			default:
				tokens.add(stringify(el))
			}
		}

	case string:
		walkTextString(val, tokens, walkNames)

	default:
		tokens.add(stringify(val))
	}
}

// JoinText is the variant used for plain text/lookup fields such as the
// contact email. Same token cleanup, dedup and join contract as JoinNames,
// but object shapes prefer an email-like, text-like, name-like or value-like
// field before being recursed into.
func JoinText(v any) string {
	tokens := newTokenList()
	walkText(v, tokens)

	return tokens.join()
}

func walkText(v any, tokens *tokenList) {
	switch val := v.(type) {
	case nil:
		return

	case []any:
		for _, item := range val {
			walkText(item, tokens)
		}

	case string:
		walkTextString(val, tokens, walkText)

	case map[string]any:
		for _, keys := range [][]string{emailKeys, textKeys, nameKeys, valueKeys} {
			if s, ok := lookupString(val, keys); ok {
				tokens.add(s)
				return
			}
		}
		for _, key := range sortedKeys(val) {
			walkText(val[key], tokens)
		}

	default:
		tokens.add(stringify(val))
	}
}

// walkTextString handles the string shape shared by both variants: a
// JSON-array-looking string is parsed and recursed into, anything else is
// split on semicolons and commas.
func walkTextString(s string, tokens *tokenList, recurse func(any, *tokenList)) {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		var parsed any
		if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
			if arr, ok := parsed.([]any); ok {
				recurse(arr, tokens)
			} else {
				tokens.add(stringify(parsed))
			}
			return
		}
	}

	for _, piece := range splitterRe.Split(trimmed, -1) {
		tokens.add(piece)
	}
}

// cleanToken trims a raw scalar, strips structural quote/bracket artifacts,
// collapses internal whitespace and silently discards record references.
func cleanToken(s string) string {
	s = strings.TrimSpace(s)
	s = edgeJunkRe.ReplaceAllString(s, "")
	s = spaceRunRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if recordRefRe.MatchString(s) {
		return ""
	}

	return s
}

func lookupString(obj map[string]any, keys []string) (string, bool) {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
			return s, true
		}
	}

	return "", false
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}

// tokenList is an ordered set of cleaned tokens, first-seen order.
type tokenList struct {
	seen   map[string]struct{}
	tokens []string
}

func newTokenList() *tokenList {
	return &tokenList{seen: make(map[string]struct{})}
}

func (t *tokenList) add(raw string) {
	token := cleanToken(raw)
	if token == "" {
		return
	}
	if _, ok := t.seen[token]; ok {
		return
	}
	t.seen[token] = struct{}{}
	t.tokens = append(t.tokens, token)
}

func (t *tokenList) join() string {
	return strings.Join(t.tokens, ", ")
}
