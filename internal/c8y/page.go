package c8y

import (
	"context"
	"net/url"
	"strconv"
)

// Statistics is the paging block of a collection response. TotalPages is
// zero when the platform was not asked for it.
type Statistics struct {
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalPages  int `json:"totalPages,omitempty"`
}

// HasMore reports whether pages after the current one exist.
func (s Statistics) HasMore() bool {
	return s.TotalPages > 0 && s.CurrentPage < s.TotalPages
}

type Page struct {
	Items      []map[string]any
	Statistics Statistics
}

// PageQuery builds the common paging parameters. Zero values fall back to
// the platform's defaults.
func PageQuery(pageSize, page int) url.Values {
	q := url.Values{}
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}
	if page > 0 {
		q.Set("currentPage", strconv.Itoa(page))
	}
	q.Set("withTotalPages", "true")
	return q
}

// List fetches one page of a collection. collection names the array field
// of the response, e.g. "managedObjects" or "alarms". Reference collections
// ("references") are flattened to the referenced managed objects.
func (c *Client) List(ctx context.Context, path, collection string, q url.Values) (Page, error) {
	var raw map[string]any
	if err := c.Get(ctx, path, q, &raw); err != nil {
		return Page{}, err
	}
	p := Page{Items: []map[string]any{}}
	if items, ok := raw[collection].([]any); ok {
		for _, it := range items {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			if collection == "references" {
				if mo, ok := m["managedObject"].(map[string]any); ok {
					m = mo
				}
			}
			p.Items = append(p.Items, m)
		}
	}
	if st, ok := raw["statistics"].(map[string]any); ok {
		p.Statistics = Statistics{
			CurrentPage: intField(st, "currentPage"),
			PageSize:    intField(st, "pageSize"),
			TotalPages:  intField(st, "totalPages"),
		}
	}
	return p, nil
}

func intField(m map[string]any, k string) int {
	if f, ok := m[k].(float64); ok {
		return int(f)
	}
	return 0
}
