// Package videoref validates submitted YouTube watch URLs and extracts the
// video identifier used as a record's unique external reference.
package videoref

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// Accepted URL shape: https://www.youtube.com/watch?v=<identifier>
const (
	Scheme    = "https"
	Host      = "www.youtube.com"
	WatchPath = "/watch"
	ParamKey  = "v"
)

// Example is a well-formed watch URL, suitable for form placeholders.
const Example = Scheme + "://" + Host + WatchPath + "?" + ParamKey + "=6CueZ4zujMk"

// Extract returns the identifier carried by rawURL, or a *RejectionError
// naming the first check that failed. Checks run in this order: scheme, host
// and path; presence of a query; strict query parsing; identifier parameter.
//
// Comparisons are exact. The scheme is compared as written, before net/url
// lower-cases it, and the path is compared in its escaped form with any
// ";params" of its last segment removed. The fragment is ignored.
func Extract(rawURL string) (string, error) {
	withoutFragment, _, _ := strings.Cut(rawURL, "#")
	u, err := url.Parse(withoutFragment)
	if err != nil {
		return "", reject(ReasonNotExpectedHost, rawURL)
	}
	if u.Scheme != Scheme || !strings.HasPrefix(rawURL, Scheme+":") {
		return "", reject(ReasonNotExpectedHost, rawURL)
	}
	if u.Opaque != "" || u.User != nil || u.Host != Host {
		return "", reject(ReasonNotExpectedHost, rawURL)
	}
	if stripParams(u.EscapedPath()) != WatchPath {
		return "", reject(ReasonNotExpectedHost, rawURL)
	}

	if u.RawQuery == "" {
		return "", reject(ReasonMissingQuery, rawURL)
	}

	params, ok := parseStrict(u.RawQuery)
	if !ok {
		return "", reject(ReasonMalformedQuery, rawURL)
	}

	ids := params[ParamKey]
	if len(ids) == 0 {
		return "", reject(ReasonMissingIdentifierParameter, rawURL)
	}
	return ids[0], nil
}

// Valid reports whether rawURL is accepted by Extract.
func Valid(rawURL string) bool {
	_, err := Extract(rawURL)
	return err == nil
}

// stripParams drops the ";params" part of the last path segment, so
// "/watch;x" compares as "/watch" while "/watch;x/y" keeps its semicolon.
func stripParams(path string) string {
	last := strings.LastIndexByte(path, '/')
	if i := strings.IndexByte(path[last+1:], ';'); i >= 0 {
		return path[:last+1+i]
	}
	return path
}

// parseStrict decodes an '&'-separated query in which every field must be a
// non-empty key=value pair. Fields with a blank value are dropped, so a key
// only appears in the result when it has at least one non-empty value.
func parseStrict(query string) (map[string][]string, bool) {
	out := make(map[string][]string)
	for _, field := range strings.Split(query, "&") {
		if field == "" {
			return nil, false
		}
		rawKey, rawValue, found := strings.Cut(field, "=")
		if !found {
			return nil, false
		}
		if rawValue == "" {
			continue
		}
		key := unescape(rawKey)
		out[key] = append(out[key], unescape(rawValue))
	}
	return out, true
}

// unescape decodes '+' and %XX escapes. A '%' not followed by two hex digits
// is kept as written, and bytes that do not form valid UTF-8 after decoding
// become U+FFFD.
func unescape(s string) string {
	s = strings.ReplaceAll(s, "+", " ")
	if !strings.Contains(s, "%") {
		return s
	}

	decoded := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			decoded = append(decoded, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
			continue
		}
		decoded = append(decoded, s[i])
	}

	var b strings.Builder
	b.Grow(len(decoded))
	for len(decoded) > 0 {
		r, size := utf8.DecodeRune(decoded)
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
		} else {
			b.Write(decoded[:size])
		}
		decoded = decoded[size:]
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
