package reports

import (
	"fmt"
	"strings"
)

// JoinSpec names the two sides of a full-outer-join emulation. Left and
// Right are complete SELECT statements producing the Keys columns plus
// their respective value columns.
type JoinSpec struct {
	Left      string
	Right     string
	Keys      []string
	LeftCols  []string
	RightCols []string
}

// FullOuterJoin builds a SELECT with full-outer-join semantics from two
// subqueries: a LEFT JOIN pass covering every lhs row, unioned with an
// anti-joined pass covering rhs rows that found no lhs match. The
// emulation is used instead of a native FULL OUTER JOIN so the same
// statement runs on engines without one. The returned SELECT carries
// its own WITH clause and can be used as a derived table.
func FullOuterJoin(spec JoinSpec) string {
	var b strings.Builder

	b.WriteString("WITH lhs AS (")
	b.WriteString(spec.Left)
	b.WriteString("), rhs AS (")
	b.WriteString(spec.Right)
	b.WriteString(")\n")

	b.WriteString("SELECT ")
	for i, k := range spec.Keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "lhs.%s AS %s", k, k)
	}
	for _, c := range spec.LeftCols {
		fmt.Fprintf(&b, ", lhs.%s AS %s", c, c)
	}
	for _, c := range spec.RightCols {
		fmt.Fprintf(&b, ", rhs.%s AS %s", c, c)
	}
	b.WriteString("\nFROM lhs LEFT JOIN rhs ON ")
	b.WriteString(keyMatch(spec.Keys))

	b.WriteString("\nUNION ALL\nSELECT ")
	for i, k := range spec.Keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "rhs.%s AS %s", k, k)
	}
	for _, c := range spec.LeftCols {
		fmt.Fprintf(&b, ", NULL AS %s", c)
	}
	for _, c := range spec.RightCols {
		fmt.Fprintf(&b, ", rhs.%s AS %s", c, c)
	}
	b.WriteString("\nFROM rhs WHERE NOT EXISTS (SELECT 1 FROM lhs WHERE ")
	b.WriteString(keyMatch(spec.Keys))
	b.WriteString(")")

	return b.String()
}

func keyMatch(keys []string) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("lhs.%s = rhs.%s", k, k))
	}
	return strings.Join(parts, " AND ")
}
