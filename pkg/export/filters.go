package export

import (
	"net/url"
	"strings"
)

// Filter maps one recognized query parameter to the column expression its
// predicate applies to. The set of filters is an explicit, enumerated
// contract: parameters outside this table never influence the query.
type Filter struct {
	// Param is the query parameter name as sent by the BI client.
	Param string

	// Column is the qualified column expression in the base query.
	Column string
}

// RecognizedFilters lists the filter parameters accepted by the export
// endpoint, in the order their predicates are appended to the WHERE clause.
//
// school_type is listed here for recognition but is translated specially:
// its values are category codes (LP, UP, HS, HSS) that map to numeric
// category ids rather than matching the column text directly.
var RecognizedFilters = []Filter{
	{Param: "district", Column: "d.district_name"},
	{Param: "block", Column: "b.block"},
	{Param: "cluster", Column: "c.cluster"},
	{Param: "school_management", Column: "sm.school_management"},
	{Param: "geography", Column: "g.geography"},
	{Param: "school_type", Column: "s.school_category_id"},
}

// schoolTypeIDs maps school category codes to the numeric ids stored in the
// registration table.
var schoolTypeIDs = map[string]int{
	"LP":  1,
	"UP":  2,
	"HS":  3,
	"HSS": 4,
}

// FilterSet holds the recognized filter values extracted from one request.
// A parameter with no non-empty values is absent from the set and filters
// nothing.
type FilterSet struct {
	values map[string][]string
}

// ParseFilterSet extracts the recognized filter parameters from query values.
// Values may be comma-separated to request multiple values for one
// dimension; surrounding whitespace is trimmed and empty entries are
// dropped. Unrecognized parameters are silently ignored.
func ParseFilterSet(query url.Values) FilterSet {
	fs := FilterSet{values: make(map[string][]string)}

	for _, f := range RecognizedFilters {
		raw := query.Get(f.Param)
		if raw == "" {
			continue
		}

		var values []string
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}

		if len(values) > 0 {
			fs.values[f.Param] = values
		}
	}

	return fs
}

// Values returns the values supplied for a filter parameter, or nil if the
// parameter was absent or empty.
func (fs FilterSet) Values(param string) []string {
	return fs.values[param]
}

// IsEmpty reports whether no filter is populated, i.e. the query is
// unfiltered.
func (fs FilterSet) IsEmpty() bool {
	return len(fs.values) == 0
}

// Len returns the number of populated filters.
func (fs FilterSet) Len() int {
	return len(fs.values)
}
