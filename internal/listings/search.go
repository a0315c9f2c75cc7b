package listings

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
)

// SearchParams narrows the listing request on the CRM side.
type SearchParams struct {
	// crmparam is custom tag for reflect. Please see below.
	Query    string   `crmparam:"q" mapstructure:"query"`
	Types    []string `crmparam:"type" mapstructure:"types"`
	Statuses []string `crmparam:"status" mapstructure:"statuses"`
	Agent    string   `crmparam:"agent" mapstructure:"agent"`
	MinPrice uint     `crmparam:"min_price" mapstructure:"min-price"`
	MaxPrice uint     `crmparam:"max_price" mapstructure:"max-price"`
	OrderBy  string   `crmparam:"order_by" mapstructure:"order-by"`
	PerPage  string   `crmparam:"per_page" mapstructure:"per-page"`
}

func buildParams(params *SearchParams) url.Values {
	q := url.Values{}

	// Set per_page max as possible. It should be faster.
	perPageValue := params.PerPage
	if perPageValue == "" {
		perPageValue = perPage
	}

	value := reflect.ValueOf(params).Elem()
	for _, field := range reflect.VisibleFields(value.Type()) {
		key := field.Tag.Get("crmparam")
		if key == "" {
			continue
		}

		switch v := value.FieldByIndex(field.Index).Interface().(type) {
		case []string:
			for _, item := range v {
				if item != "" {
					q.Add(key, item)
				}
			}
		case []int:
			for _, item := range v {
				q.Add(key, strconv.Itoa(item))
			}
		default:
			s := fmt.Sprintf("%v", v)
			if s != "" && s != "0" {
				q.Set(key, s)
			}
		}
	}

	q.Set("per_page", perPageValue)

	return q
}
