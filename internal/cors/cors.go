package cors

import (
	"slices"
	"strings"
)

const (
	Wildcard = "*"

	AllowMethods = "POST,OPTIONS"
	AllowHeaders = "Content-Type"

	HeaderAllowOrigin  = "Access-Control-Allow-Origin"
	HeaderAllowMethods = "Access-Control-Allow-Methods"
	HeaderAllowHeaders = "Access-Control-Allow-Headers"
)

// Response headers for a single request
type Decision struct {
	AllowOrigin  string
	AllowMethods string
	AllowHeaders string
}

// Splits a comma separated list of origins, trimming whitespace and dropping empty entries.
//
// Only an empty input means every origin is allowed. A value made of blanks and commas yields an
// empty list, which answers "*" without echoing the caller.
func ParseAllowList(raw string) []string {
	if raw == "" {
		return []string{Wildcard}
	}

	origins := []string{}
	for _, origin := range strings.Split(raw, ",") {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}

	return origins
}

// Computes the CORS headers for a request. An empty requestOrigin means the header was absent.
//
// When the allow-list has no wildcard and the caller is not on it, the first configured
// origin is returned. Browsers will still reject the response for the real caller, but the
// header is always present.
func Resolve(allowList []string, requestOrigin string) Decision {
	hasWildcard := slices.Contains(allowList, Wildcard)

	origin := Wildcard
	if requestOrigin != "" && (hasWildcard || slices.Contains(allowList, requestOrigin)) {
		origin = requestOrigin
	} else if !hasWildcard && len(allowList) > 0 {
		origin = allowList[0]
	}

	return Decision{
		AllowOrigin:  origin,
		AllowMethods: AllowMethods,
		AllowHeaders: AllowHeaders,
	}
}

// Header name/value pairs in a stable order
func (d Decision) Headers() [][2]string {
	return [][2]string{
		{HeaderAllowOrigin, d.AllowOrigin},
		{HeaderAllowMethods, d.AllowMethods},
		{HeaderAllowHeaders, d.AllowHeaders},
	}
}
