package export

import "fmt"

// Format is the response serialization requested by the caller.
type Format string

const (
	// FormatCSV serializes rows as a downloadable CSV document.
	FormatCSV Format = "csv"

	// FormatJSON serializes rows as a JSON array of objects.
	FormatJSON Format = "json"
)

// ParseFormat validates the format query parameter. An empty value selects
// CSV; anything outside the enumerated set is rejected rather than silently
// defaulted, so caller mistakes surface as a 400 instead of a misformatted
// download.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "csv", "CSV":
		return FormatCSV, nil
	case "json", "JSON":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q (expected csv or json)", s)
	}
}
