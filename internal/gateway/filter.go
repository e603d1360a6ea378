package gateway

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Filter builds a PostgREST query string. The zero value and nil both mean
// "no filter".
type Filter struct {
	values url.Values
}

func Where() *Filter {
	return &Filter{values: url.Values{}}
}

// ParseFilter accepts an already formatted query such as
// "status=eq.pending&order=start_date.asc".
func ParseFilter(raw string) (*Filter, error) {
	v, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return &Filter{values: v}, nil
}

func (f *Filter) add(key, value string) *Filter {
	if f.values == nil {
		f.values = url.Values{}
	}
	f.values.Add(key, value)
	return f
}

func (f *Filter) Eq(column string, value any) *Filter {
	return f.add(column, fmt.Sprintf("eq.%v", value))
}

func (f *Filter) Neq(column string, value any) *Filter {
	return f.add(column, fmt.Sprintf("neq.%v", value))
}

func (f *Filter) Gte(column string, value any) *Filter {
	return f.add(column, fmt.Sprintf("gte.%v", value))
}

func (f *Filter) Lte(column string, value any) *Filter {
	return f.add(column, fmt.Sprintf("lte.%v", value))
}

// In matches any of values.
func (f *Filter) In(column string, values ...string) *Filter {
	return f.add(column, "in.("+strings.Join(values, ",")+")")
}

// ILike is a case-insensitive pattern match; * is the wildcard.
func (f *Filter) ILike(column, pattern string) *Filter {
	return f.add(column, "ilike."+pattern)
}

// Or joins raw conditions such as "name.ilike.*sax*". Values taken from user
// input must go through Quote.
func (f *Filter) Or(conditions ...string) *Filter {
	return f.add("or", "("+strings.Join(conditions, ",")+")")
}

func (f *Filter) Order(column string, ascending bool) *Filter {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	return f.add("order", column+"."+dir)
}

func (f *Filter) Limit(n int) *Filter {
	return f.add("limit", strconv.Itoa(n))
}

// Encode returns the URL-encoded query without a leading "?".
func (f *Filter) Encode() string {
	if f == nil || len(f.values) == 0 {
		return ""
	}
	return f.values.Encode()
}

func (f *Filter) String() string {
	return f.Encode()
}

// Quote wraps a condition value in double quotes so commas, dots and
// parentheses inside it are read as data. Backslashes and quotes are escaped.
func Quote(value string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(value) + `"`
}
