package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderjulianmartinez/pgcollect/pkg/types"
)

const configQuery = "SELECT name, setting FROM pg_settings ORDER BY name ASC"

// FetchConfig returns every server setting, ordered by name.
func (i *Inspector) FetchConfig(ctx context.Context) ([]types.SettingRow, error) {
	rows, err := i.Query(ctx, configQuery)
	if err != nil {
		return nil, err
	}

	settings := make([]types.SettingRow, 0, len(rows))
	for _, row := range rows {
		if len(row) != 2 {
			return nil, &QueryError{Query: configQuery, Err: fmt.Errorf("expected 2 columns, got %d", len(row))}
		}
		settings = append(settings, types.SettingRow{Name: row[0], Value: row[1]})
	}
	return settings, nil
}

// RenderConfig writes one "name = value" line per setting, keeping the input
// order. Empty values are written as ''. Nothing is escaped.
func RenderConfig(settings []types.SettingRow) string {
	lines := make([]string, 0, len(settings))
	for _, s := range settings {
		value := s.Value
		if value == "" {
			value = "''"
		}
		lines = append(lines, fmt.Sprintf("%s = %s", s.Name, value))
	}
	return strings.Join(lines, "\n")
}
