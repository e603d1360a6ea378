package mockbackend

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// reserved query keys that are not column filters
var reserved = map[string]bool{"select": true, "order": true, "limit": true, "offset": true}

type condition struct {
	column string
	op     string
	value  string
}

type query struct {
	conds  []condition
	ors    [][]condition
	orders []orderBy
	limit  int
}

type orderBy struct {
	column string
	desc   bool
}

func parseQuery(values url.Values) (*query, error) {
	q := &query{limit: -1}
	for key, vals := range values {
		for _, v := range vals {
			switch {
			case key == "or":
				group, err := parseOr(v)
				if err != nil {
					return nil, err
				}
				q.ors = append(q.ors, group)
			case key == "order":
				for _, part := range strings.Split(v, ",") {
					col, dir, _ := strings.Cut(part, ".")
					q.orders = append(q.orders, orderBy{column: col, desc: dir == "desc"})
				}
			case key == "limit":
				n, err := strconv.Atoi(v)
				if err != nil || n < 0 {
					return nil, fmt.Errorf("invalid limit %q", v)
				}
				q.limit = n
			case reserved[key]:
			default:
				op, val, ok := strings.Cut(v, ".")
				if !ok {
					return nil, fmt.Errorf("invalid filter %s=%s", key, v)
				}
				val, err := unquote(val)
				if err != nil {
					return nil, err
				}
				q.conds = append(q.conds, condition{column: key, op: op, value: val})
			}
		}
	}
	return q, nil
}

// parseOr reads "(col.op.value,col.op.value)". A value may be double quoted,
// in which case commas, dots and parentheses inside it are literal and \
// escapes the next character.
func parseOr(v string) ([]condition, error) {
	if !strings.HasPrefix(v, "(") || !strings.HasSuffix(v, ")") {
		return nil, fmt.Errorf("invalid or filter %q", v)
	}
	parts, err := splitConditions(v[1 : len(v)-1])
	if err != nil {
		return nil, err
	}
	var group []condition
	for _, part := range parts {
		pieces := strings.SplitN(part, ".", 3)
		if len(pieces) != 3 {
			return nil, fmt.Errorf("invalid or condition %q", part)
		}
		value, err := unquote(pieces[2])
		if err != nil {
			return nil, err
		}
		group = append(group, condition{column: pieces[0], op: pieces[1], value: value})
	}
	return group, nil
}

// splitConditions splits on commas outside quotes and parentheses.
func splitConditions(s string) ([]string, error) {
	var (
		parts   []string
		current strings.Builder
		quoted  bool
		escaped bool
		depth   int
	)
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case quoted && r == '\\':
			escaped = true
		case r == '"':
			quoted = !quoted
		case !quoted && r == '(':
			depth++
		case !quoted && r == ')':
			depth--
		case !quoted && depth == 0 && r == ',':
			parts = append(parts, current.String())
			current.Reset()
			continue
		}
		current.WriteRune(r)
	}
	if quoted || depth != 0 {
		return nil, fmt.Errorf("unbalanced or filter %q", s)
	}
	return append(parts, current.String()), nil
}

func unquote(v string) (string, error) {
	if len(v) < 2 || v[0] != '"' || v[len(v)-1] != '"' {
		return v, nil
	}
	var b strings.Builder
	escaped := false
	for _, r := range v[1 : len(v)-1] {
		if !escaped && r == '\\' {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	if escaped {
		return "", fmt.Errorf("dangling escape in %q", v)
	}
	return b.String(), nil
}

func (q *query) matches(row map[string]any) bool {
	for _, c := range q.conds {
		if !c.matches(row) {
			return false
		}
	}
	for _, group := range q.ors {
		hit := false
		for _, c := range group {
			if c.matches(row) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func (c condition) matches(row map[string]any) bool {
	raw, present := row[c.column]
	cell := stringify(raw)
	switch c.op {
	case "eq":
		return present && cell == c.value
	case "neq":
		return !present || cell != c.value
	case "gt":
		return present && compare(cell, c.value) > 0
	case "gte":
		return present && compare(cell, c.value) >= 0
	case "lt":
		return present && compare(cell, c.value) < 0
	case "lte":
		return present && compare(cell, c.value) <= 0
	case "in":
		for _, v := range strings.Split(strings.Trim(c.value, "()"), ",") {
			if present && cell == v {
				return true
			}
		}
		return false
	case "ilike", "like":
		return present && globMatch(c.value, cell, c.op == "ilike")
	case "is":
		switch c.value {
		case "null":
			return raw == nil
		case "true", "false":
			return cell == c.value
		}
	}
	return false
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// compare orders numerically when both sides are numbers, else lexically
// (which is also correct for yyyy-mm-dd dates).
func compare(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}

func globMatch(pattern, s string, fold bool) bool {
	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	expr := "^" + strings.Join(parts, ".*") + "$"
	if fold {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

func (q *query) sort(rows []map[string]any) {
	if len(q.orders) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range q.orders {
			c := compare(stringify(rows[i][o.column]), stringify(rows[j][o.column]))
			if c == 0 {
				continue
			}
			if o.desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}
