package mockbackend

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOr(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []condition
	}{
		{
			name: "plain",
			in:   "(name.ilike.*sax*,category.eq.Brass)",
			want: []condition{{"name", "ilike", "*sax*"}, {"category", "eq", "Brass"}},
		},
		{
			name: "quoted comma and dot",
			in:   `(name.ilike."*Fender, Strat.*",category.ilike."*Fender, Strat.*")`,
			want: []condition{{"name", "ilike", "*Fender, Strat.*"}, {"category", "ilike", "*Fender, Strat.*"}},
		},
		{
			name: "escaped quote and parenthesis",
			in:   `(name.eq."12\" (vinyl)")`,
			want: []condition{{"name", "eq", `12" (vinyl)`}},
		},
		{
			name: "nested in list",
			in:   "(status.in.(pending,confirmed),host_id.eq.h1)",
			want: []condition{{"status", "in", "(pending,confirmed)"}, {"host_id", "eq", "h1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseOr(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOr_Invalid(t *testing.T) {
	for _, in := range []string{"name.eq.x", `(name.eq."open)`, "(name)", `(name.eq."x\")`} {
		_, err := parseOr(in)
		assert.Error(t, err, in)
	}
}

func TestParseQuery_QuotedValue(t *testing.T) {
	q, err := parseQuery(url.Values{"name": {`eq."Fender, Strat"`}})
	require.NoError(t, err)
	assert.True(t, q.matches(map[string]any{"name": "Fender, Strat"}))
	assert.False(t, q.matches(map[string]any{"name": "Fender"}))
}
