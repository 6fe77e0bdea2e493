package seeder

import (
	"context"
	"fmt"
	"strings"

	"hireflow/internal/database"
)

// requireColumns fails when the migrated schema lacks any column a seeder writes.
func requireColumns(ctx context.Context, q database.Querier, table string, columns ...string) error {
	rows, err := q.Query(ctx,
		`SELECT column_name::text
		 FROM information_schema.columns
		 WHERE table_schema = current_schema() AND table_name = $1 AND column_name::text = ANY($2::text[])`,
		table, columns,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	found := make(map[string]bool, len(columns))
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return err
		}
		found[c] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, c := range columns {
		if !found[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %s is missing columns %s; run migrations first", table, strings.Join(missing, ", "))
	}
	return nil
}
