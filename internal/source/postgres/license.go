package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/alexanderjulianmartinez/pgcollect/pkg/types"
)

const licenseQuery = "SELECT * FROM swarm64da.show_license()"

// FetchLicense reads the Swarm64 license. A server without a license returns
// no rows, which yields the zero LicenseInfo and no error.
func (i *Inspector) FetchLicense(ctx context.Context) (types.LicenseInfo, error) {
	rows, err := i.Query(ctx, licenseQuery)
	if err != nil {
		return types.LicenseInfo{}, err
	}
	if len(rows) == 0 {
		return types.LicenseInfo{}, nil
	}
	if len(rows) > 1 {
		i.logger.Warn("license query returned more than one row, using the first",
			zap.Int("rows", len(rows)))
	}

	row := rows[0]
	if len(row) != 4 {
		return types.LicenseInfo{}, &QueryError{
			Query: licenseQuery,
			Err:   fmt.Errorf("expected 4 columns, got %d", len(row)),
		}
	}
	return types.LicenseInfo{
		Type:     row[0],
		Start:    row[1],
		Expiry:   row[2],
		Customer: row[3],
	}, nil
}
