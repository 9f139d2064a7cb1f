package sqlbridge

import (
	"fmt"
	"strings"

	"github.com/sqlbridge/sqlbridge/shared/types"
)

// BuildCreateTable renders a deterministic CREATE TABLE statement from an
// ordered column-spec list. Each column renders as
// "<name> <type>[ NOT NULL][ PRIMARY KEY][ DEFAULT <value>]" in the order
// given, so identical inputs always produce the identical statement.
func BuildCreateTable(table string, columns []types.ColumnSpec) (string, error) {
	if !validIdent(table) {
		return "", fmt.Errorf("invalid table name: %q", table)
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("at least one column required")
	}

	defs := make([]string, 0, len(columns))
	for _, col := range columns {
		if !validIdent(col.Name) {
			return "", fmt.Errorf("invalid column name: %q", col.Name)
		}
		if strings.TrimSpace(col.Type) == "" {
			return "", fmt.Errorf("column %q has no type", col.Name)
		}

		var b strings.Builder
		b.WriteString(col.Name)
		b.WriteString(" ")
		b.WriteString(col.Type)
		if !col.IsNullable() {
			b.WriteString(" NOT NULL")
		}
		if col.PrimaryKey {
			b.WriteString(" PRIMARY KEY")
		}
		if col.Default != "" {
			b.WriteString(" DEFAULT ")
			b.WriteString(col.Default)
		}
		defs = append(defs, b.String())
	}

	return fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", ")), nil
}
