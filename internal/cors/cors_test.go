package cors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAllowList(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{name: "Empty", raw: "", expected: []string{"*"}},
		{name: "Blank", raw: "   ", expected: []string{}},
		{name: "Wildcard", raw: "*", expected: []string{"*"}},
		{
			name:     "TrimsAndDropsEmpty",
			raw:      " https://a.example ,,https://b.example, ",
			expected: []string{"https://a.example", "https://b.example"},
		},
		{name: "OnlyCommas", raw: ",,", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseAllowList(tt.raw))
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		allowList []string
		origin    string
		expected  string
	}{
		{
			name:      "WildcardEchoesOrigin",
			allowList: []string{"*"},
			origin:    "https://caller.example",
			expected:  "https://caller.example",
		},
		{
			name:      "WildcardNoOrigin",
			allowList: []string{"*"},
			expected:  "*",
		},
		{
			name:      "WildcardAmongExplicit",
			allowList: []string{"https://a.example", "*"},
			origin:    "https://other.example",
			expected:  "https://other.example",
		},
		{
			name:      "WildcardAmongExplicitNoOrigin",
			allowList: []string{"https://a.example", "*"},
			expected:  "*",
		},
		{
			name:      "ExplicitMatch",
			allowList: []string{"https://a.example", "https://b.example"},
			origin:    "https://b.example",
			expected:  "https://b.example",
		},
		{
			name:      "ExplicitMismatchFallsBackToFirst",
			allowList: []string{"https://a.example", "https://b.example"},
			origin:    "https://evil.example",
			expected:  "https://a.example",
		},
		{
			name:      "ExplicitNoOriginFallsBackToFirst",
			allowList: []string{"https://a.example"},
			expected:  "https://a.example",
		},
		{
			name:      "EmptyList",
			allowList: []string{},
			origin:    "https://caller.example",
			expected:  "*",
		},
		{
			name:      "NilList",
			allowList: nil,
			expected:  "*",
		},
		{
			name:      "CaseSensitive",
			allowList: []string{"https://a.example"},
			origin:    "https://A.example",
			expected:  "https://a.example",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Resolve(tt.allowList, tt.origin)
			assert.Equal(t, tt.expected, d.AllowOrigin, "incorrect allow origin")
			assert.Equal(t, "POST,OPTIONS", d.AllowMethods)
			assert.Equal(t, "Content-Type", d.AllowHeaders)
		})
	}
}

func TestResolveProperties(t *testing.T) {
	origins := []string{
		"https://a.example",
		"http://localhost:3000",
		"https://service-egy.com",
		"null",
	}
	lists := [][]string{
		{"https://a.example"},
		{"https://service-egy.com", "https://www.service-egy.com"},
		{"http://localhost:3000", "https://a.example", "https://b.example"},
	}

	t.Run("WildcardAlwaysEchoes", func(t *testing.T) {
		for _, list := range lists {
			withWildcard := append([]string{"*"}, list...)
			for _, origin := range origins {
				assert.Equal(
					t,
					origin,
					Resolve(withWildcard, origin).AllowOrigin,
					fmt.Sprintf("list %v origin %s", withWildcard, origin),
				)
			}
			assert.Equal(t, "*", Resolve(withWildcard, "").AllowOrigin)
		}
	})

	t.Run("ExplicitMembersEcho", func(t *testing.T) {
		for _, list := range lists {
			for _, origin := range list {
				assert.Equal(t, origin, Resolve(list, origin).AllowOrigin)
			}
		}
	})

	t.Run("NonMembersGetFirstEntry", func(t *testing.T) {
		for _, list := range lists {
			for _, origin := range origins {
				if contains(list, origin) {
					continue
				}
				assert.Equal(t, list[0], Resolve(list, origin).AllowOrigin)
			}
		}
	})
}

func TestBlankAllowListNeverEchoes(t *testing.T) {
	for _, raw := range []string{" ", "\t", " , "} {
		list := ParseAllowList(raw)
		assert.Empty(t, list)
		assert.Equal(t, "*", Resolve(list, "https://caller.example").AllowOrigin, "raw %q", raw)
		assert.Equal(t, "*", Resolve(list, "").AllowOrigin, "raw %q", raw)
	}
}

func TestDecisionHeaders(t *testing.T) {
	d := Resolve([]string{"*"}, "https://a.example")
	assert.Equal(t, [][2]string{
		{"Access-Control-Allow-Origin", "https://a.example"},
		{"Access-Control-Allow-Methods", "POST,OPTIONS"},
		{"Access-Control-Allow-Headers", "Content-Type"},
	}, d.Headers())
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
