package export

import (
	"fmt"
	"strings"
)

// baseQueryTemplate is the fixed SELECT defining the exportable dataset:
// today's school registrations joined with reference lookups and the daily
// student/staff attendance summaries. %[1]s is the core (transactional)
// schema, %[2]s the reference schema. Both come from validated
// configuration, never from the caller.
const baseQueryTemplate = `SELECT
    d.district_name      AS district,
    b.block              AS block,
    c.cluster            AS cluster,
    s.udise_id           AS udise_id,
    s.school_name        AS school_name,
    sm.school_management AS school_management,
    g.geography          AS geography,
    CASE s.school_category_id
        WHEN 1 THEN 'LP'
        WHEN 2 THEN 'UP'
        WHEN 3 THEN 'HS'
        WHEN 4 THEN 'HSS'
        ELSE NULL
    END AS school_category,
    st.total_students,
    st.total_students_present,
    sf.total_teaching_staff,
    sf.total_non_teaching_staff,
    sf.total_teaching_staff_present,
    sf.total_non_teaching_staff_present
FROM %[1]s.school_registration s
LEFT JOIN %[2]s.district d ON s.district_id = d.district_id
LEFT JOIN %[2]s.blocks b ON s.block_id = b.block_id
LEFT JOIN %[2]s.cluster c ON s.cluster_id = c.cluster_id
LEFT JOIN %[2]s.school_management sm ON s.school_management_id = sm.school_management_id
LEFT JOIN %[2]s.geography g ON s.geography_id = g.geography_id
LEFT JOIN (
    SELECT
        s.udise_id,
        IFNULL(SUM(registered_students), 0) AS total_students,
        IFNULL(SUM(present), 0) AS total_students_present
    FROM %[1]s.students_summary_daily s
    WHERE s.report_date = CURDATE()
    GROUP BY s.udise_id
) st ON s.udise_id = st.udise_id
LEFT JOIN (
    SELECT
        s.udise_id,
        IFNULL(SUM(CASE WHEN staff_type_id = 1 THEN total_staff END), 0) AS total_teaching_staff,
        IFNULL(SUM(CASE WHEN staff_type_id != 1 THEN total_staff END), 0) AS total_non_teaching_staff,
        IFNULL(SUM(CASE WHEN staff_type_id = 1 THEN present END), 0) AS total_teaching_staff_present,
        IFNULL(SUM(CASE WHEN staff_type_id != 1 THEN present END), 0) AS total_non_teaching_staff_present
    FROM %[1]s.staff_registration_daily s
    WHERE s.report_date = CURDATE()
    GROUP BY s.udise_id
) sf ON s.udise_id = sf.udise_id
WHERE s.report_date = CURDATE()`

// defaultOrder keeps row order stable across identical requests.
const defaultOrder = "s.district_id, s.block_id, s.cluster_id, s.udise_id"

// Builder constructs the filtered export query. The base query is fixed per
// Builder; caller-supplied filter values only ever bind to placeholders.
//
// The zero value is not usable; construct with NewBuilder, or populate Base
// and Filters directly (tests do this to run against a simplified schema).
type Builder struct {
	// Base is the fixed SELECT. It must already contain a WHERE clause so
	// that filter predicates can be appended with AND.
	Base string

	// Filters maps recognized parameters to column expressions for this
	// base query. Defaults to RecognizedFilters.
	Filters []Filter

	// Order is an optional ORDER BY column list appended after the
	// predicates.
	Order string
}

// NewBuilder returns the production Builder over the given core and
// reference schema names.
func NewBuilder(coreSchema, refSchema string) *Builder {
	return &Builder{
		Base:    fmt.Sprintf(baseQueryTemplate, coreSchema, refSchema),
		Filters: RecognizedFilters,
		Order:   defaultOrder,
	}
}

// Build appends one IN predicate per populated filter to the base query and
// returns the SQL together with the bound arguments, in placeholder order.
// An empty FilterSet returns the unfiltered base query.
func (b *Builder) Build(fs FilterSet) (string, []any) {
	var sb strings.Builder
	sb.WriteString(b.Base)

	var args []any
	for _, f := range b.Filters {
		values := fs.Values(f.Param)
		if len(values) == 0 {
			continue
		}

		if f.Param == "school_type" {
			// Category codes translate to numeric ids; unknown codes
			// are dropped, and a filter left with no valid codes
			// filters nothing.
			var ids []any
			for _, v := range values {
				if id, ok := schoolTypeIDs[strings.ToUpper(v)]; ok {
					ids = append(ids, id)
				}
			}
			if len(ids) == 0 {
				continue
			}
			writeInPredicate(&sb, f.Column, len(ids))
			args = append(args, ids...)
			continue
		}

		writeInPredicate(&sb, f.Column, len(values))
		for _, v := range values {
			args = append(args, v)
		}
	}

	if b.Order != "" {
		sb.WriteString("\nORDER BY ")
		sb.WriteString(b.Order)
	}

	return sb.String(), args
}

// writeInPredicate appends " AND col IN (?, ...)" with n placeholders.
func writeInPredicate(sb *strings.Builder, column string, n int) {
	sb.WriteString("\n    AND ")
	sb.WriteString(column)
	sb.WriteString(" IN (?")
	sb.WriteString(strings.Repeat(", ?", n-1))
	sb.WriteString(")")
}
