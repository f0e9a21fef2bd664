package jobsearch

import (
	"net/url"
	"reflect"
	"strconv"
)

// SearchParams describes one search request against the job-search service.
// The param tag names the query key for each field.
type SearchParams struct {
	SearchTerm    string   `param:"search_term" mapstructure:"search-term"`
	Location      string   `param:"location" mapstructure:"location"`
	ResultsWanted int      `param:"results_wanted" mapstructure:"results-wanted"`
	HoursOld      int      `param:"hours_old" mapstructure:"hours-old"`
	Sites         []string `param:"site_name" mapstructure:"sites"`
	Country       string   `param:"country_indeed" mapstructure:"country"`
}

// Override carries caller-supplied parameter overrides. Zero values leave the
// inferred/default parameter untouched.
type Override struct {
	SearchTerm    string
	Location      string
	ResultsWanted int
	HoursOld      int
}

func (p SearchParams) withOverride(o *Override) SearchParams {
	if o == nil {
		return p
	}
	if o.SearchTerm != "" {
		p.SearchTerm = o.SearchTerm
	}
	if o.Location != "" {
		p.Location = o.Location
	}
	if o.ResultsWanted > 0 {
		p.ResultsWanted = o.ResultsWanted
	}
	if o.HoursOld > 0 {
		p.HoursOld = o.HoursOld
	}
	return p
}

// buildQuery converts params into URL query values using the param tag.
// Empty strings and non-positive numbers are omitted; slices repeat the key.
func buildQuery(params SearchParams) url.Values {
	q := url.Values{}
	v := reflect.ValueOf(params)
	fields := reflect.VisibleFields(reflect.TypeOf(params))

	for _, field := range fields {
		key := field.Tag.Get("param")
		if key == "" {
			continue
		}

		value := v.FieldByIndex(field.Index)
		switch field.Type.Kind() {
		case reflect.String:
			if s := value.String(); s != "" {
				q.Add(key, s)
			}
		case reflect.Int:
			if n := value.Int(); n > 0 {
				q.Add(key, strconv.FormatInt(n, 10))
			}
		case reflect.Slice:
			for i := 0; i < value.Len(); i++ {
				if s, ok := value.Index(i).Interface().(string); ok && s != "" {
					q.Add(key, s)
				}
			}
		}
	}

	return q
}
