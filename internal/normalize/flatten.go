package normalize

import (
	"encoding/json"
	"sort"
	"strings"
)

// CollectURLs flattens a field value of arbitrary shape into an ordered,
// de-duplicated list of canonical URLs. It walks arrays, attachment objects,
// lookup/rollup wrappers, JSON-encoded strings and comma-joined strings;
// shapes it does not recognize contribute nothing. Never fails.
func CollectURLs(v any) []string {
	urls := make([]string, 0)
	seen := make(map[string]struct{})
	collectURLs(v, seen, &urls)

	return urls
}

func collectURLs(v any, seen map[string]struct{}, urls *[]string) {
	switch val := v.(type) {
	case nil:
		return

	case []any:
		for _, item := range val {
			collectURLs(item, seen, urls)
		}

	case string:
		trimmed := strings.TrimSpace(val)
		if looksLikeJSON(trimmed) {
			var parsed any
			if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
				collectURLs(parsed, seen, urls)
				return
			}
			// unparseable JSON-looking string falls through to plain text handling
		}

		parts := []string{val}
		if strings.Contains(val, ",") {
			parts = strings.Split(val, ",")
		}
		for _, part := range parts {
			if u := AttachmentURL(URL(part)); u != "" {
				addURL(u, seen, urls)
			}
		}

	case map[string]any:
		if isAttachmentObject(val) {
			if u := AttachmentURL(val); u != "" {
				addURL(URL(u), seen, urls)
			}
			return
		}
		// lookup/rollup wrapper: recurse into every value
		for _, key := range sortedKeys(val) {
			collectURLs(val[key], seen, urls)
		}
	}
}

func addURL(u string, seen map[string]struct{}, urls *[]string) {
	if _, ok := seen[u]; ok {
		return
	}
	seen[u] = struct{}{}
	*urls = append(*urls, u)
}

func looksLikeJSON(s string) bool {
	if len(s) < 2 {
		return false
	}

	return (strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")) ||
		(strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}"))
}

func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}
