package normalize

import "regexp"

var urlSchemeRe = regexp.MustCompile(`(?i)^https?://`)

// Thumbnail sizes in preference order.
var thumbnailSizes = []string{"large", "full"}

// AttachmentURL picks the best representative URL out of one attachment-like
// value. Objects resolve through the large thumbnail, then the full-size
// thumbnail, then the primary url. A bare string passes through only when it
// already looks like a URL, so plain tokens such as names are never
// misclassified as photos. Anything else yields "".
func AttachmentURL(v any) string {
	switch att := v.(type) {
	case string:
		if urlSchemeRe.MatchString(att) {
			return att
		}
	case map[string]any:
		if thumbs, ok := att["thumbnails"].(map[string]any); ok {
			for _, size := range thumbnailSizes {
				if thumb, ok := thumbs[size].(map[string]any); ok {
					if u, ok := thumb["url"].(string); ok && u != "" {
						return u
					}
				}
			}
		}
		if u, ok := att["url"].(string); ok {
			return u
		}
	}

	return ""
}

// isAttachmentObject reports whether the object exposes a URL or a thumbnail
// set, i.e. whether it should be treated as a file reference instead of an
// opaque nested container.
func isAttachmentObject(obj map[string]any) bool {
	if _, ok := obj["url"]; ok {
		return true
	}
	if _, ok := obj["thumbnails"]; ok {
		return true
	}

	return false
}
