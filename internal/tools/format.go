package tools

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmespath/go-jmespath"
	"gopkg.in/yaml.v3"

	"c8ymcp/internal/c8y"
)

// paginated renders one page of a collection: a paging header, an optional
// hint line, then the (optionally projected) items as YAML.
func paginated(entity string, page c8y.Page, hint, selectExpr string) (string, error) {
	total := "?"
	if page.Statistics.TotalPages > 0 {
		total = strconv.Itoa(page.Statistics.TotalPages)
	}
	current := page.Statistics.CurrentPage
	if current == 0 {
		current = 1
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s: Page %d/%s", entity, current, total)
	if page.Statistics.HasMore() {
		b.WriteString(" (more available)")
	}
	b.WriteString("\n")
	if hint != "" {
		b.WriteString("# " + hint + "\n")
	}
	b.WriteString("\n")

	items := make([]any, len(page.Items))
	for i, it := range page.Items {
		items[i] = it
	}
	data, err := project(items, selectExpr)
	if err != nil {
		return "", err
	}
	body, err := encode(data)
	if err != nil {
		return "", err
	}
	b.WriteString(body)
	return b.String(), nil
}

// object renders a single value under a header line.
func object(entity string, v any) (string, error) {
	body, err := encode(v)
	if err != nil {
		return "", err
	}
	return "# " + entity + "\n" + body, nil
}

// project applies a JMESPath expression; an empty expression returns data
// unchanged.
func project(data any, expr string) (any, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return data, nil
	}
	out, err := jmespath.Search(expr, data)
	if err != nil {
		return nil, fmt.Errorf("invalid select expression %q: %w", expr, err)
	}
	return out, nil
}

func encode(v any) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func errorText(context string, err error) string {
	return "Error " + context + ": " + err.Error()
}
