package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Encode(t *testing.T) {
	var nilFilter *Filter
	assert.Equal(t, "", nilFilter.Encode())
	assert.Equal(t, "", (&Filter{}).Encode())

	f := Where().Eq("host_id", "h1").In("status", "pending", "confirmed").Order("start_date", true).Limit(5)
	assert.Equal(t, "host_id=eq.h1&limit=5&order=start_date.asc&status=in.%28pending%2Cconfirmed%29", f.Encode())
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"Fender, Strat"`, Quote("Fender, Strat"))
	assert.Equal(t, `"say \"hi\" C:\\"`, Quote(`say "hi" C:\`))

	f := Where().Or("name.ilike."+Quote("*a,b*"), "category.ilike."+Quote("*a,b*"))
	assert.Equal(t, "or=%28name.ilike.%22%2Aa%2Cb%2A%22%2Ccategory.ilike.%22%2Aa%2Cb%2A%22%29", f.Encode())
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("?status=eq.pending&order=start_date.desc")
	require.NoError(t, err)
	assert.Equal(t, "order=start_date.desc&status=eq.pending", f.String())

	_, err = ParseFilter("%zz")
	assert.Error(t, err)
}

func TestErrorDetail(t *testing.T) {
	assert.Equal(t, "bad", errorDetail([]byte(`{"error":"x","error_description":"bad"}`)))
	assert.Equal(t, "m", errorDetail([]byte(`{"msg":"m"}`)))
	assert.Equal(t, "", errorDetail([]byte(`<html>`)))

	err := statusError("fetch rentals", 403, nil)
	assert.Equal(t, KindAuth, err.Kind)
	assert.Equal(t, "Forbidden", err.Detail)
}
