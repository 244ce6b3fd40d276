package form

import (
	"sort"
	"strconv"
	"strings"
)

// ApplyErrors routes a server error payload onto registered fields. Keys may
// be field ids, dotted or bracketed paths, or JSON pointers such as
// "/body/email"; wrapper segments (body, data, payload...) are skipped. Each
// matched field receives its first message through SetFieldError. Messages
// that match no field, or use a form-level key, are returned trimmed and
// de-duplicated in sorted key order.
func (b *Builder) ApplyErrors(payload map[string][]string) []string {
	if len(payload) == 0 {
		return nil
	}

	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var formLevel []string
	for _, raw := range keys {
		messages := normalizeMessages(payload[raw])
		if len(messages) == 0 {
			continue
		}
		id, ok := b.matchErrorPath(raw)
		if !ok {
			formLevel = append(formLevel, messages...)
			continue
		}
		b.SetFieldError(id, messages[0])
	}
	return normalizeMessages(formLevel)
}

func (b *Builder) matchErrorPath(raw string) (string, bool) {
	if isFormLevelKey(raw) {
		return "", false
	}
	if _, ok := b.fields[strings.TrimSpace(raw)]; ok {
		return strings.TrimSpace(raw), true
	}
	segments := parsePathSegments(raw)
	if len(segments) == 0 {
		return "", false
	}

	best := ""
	for _, variant := range segmentVariants(segments) {
		if id := b.longestMatch(variant); len(id) > len(best) {
			best = id
		}
	}
	return best, best != ""
}

func (b *Builder) longestMatch(segments []string) string {
	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], ".")
		if _, ok := b.fields[candidate]; ok {
			return candidate
		}
	}
	return ""
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = clean[1:]
	}
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

var wrapperSegments = map[string]struct{}{
	"body":       {},
	"request":    {},
	"payload":    {},
	"data":       {},
	"attributes": {},
	"fields":     {},
}

func segmentVariants(segments []string) [][]string {
	stripped := segments
	for len(stripped) > 0 {
		if _, ok := wrapperSegments[strings.ToLower(stripped[0])]; !ok {
			break
		}
		stripped = stripped[1:]
	}
	return [][]string{
		segments,
		stripped,
		dropNumeric(segments),
		dropNumeric(stripped),
	}
}

func dropNumeric(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
