package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderjulianmartinez/pgcollect/pkg/types"
)

var licenseColumns = []string{"type", "start", "expiry", "customer"}

func TestFetchLicense(t *testing.T) {
	insp, mock := newMockInspector(t)
	mock.ExpectQuery("SELECT * FROM swarm64da.show_license()").WillReturnRows(
		sqlmock.NewRows(licenseColumns).AddRow("full", "2020-01-01", "2030-01-01", "s64-license-test"),
	)

	info, err := insp.FetchLicense(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.LicenseInfo{
		Type:     "full",
		Start:    "2020-01-01",
		Expiry:   "2030-01-01",
		Customer: "s64-license-test",
	}, info)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchLicense_NoLicense(t *testing.T) {
	insp, mock := newMockInspector(t)
	mock.ExpectQuery(licenseQuery).WillReturnRows(sqlmock.NewRows(licenseColumns))

	info, err := insp.FetchLicense(context.Background())
	require.NoError(t, err)
	assert.True(t, info.IsZero())
	assert.Equal(t, "{}", info.String())
}

func TestFetchLicense_DateColumns(t *testing.T) {
	insp, mock := newMockInspector(t)
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	expiry := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(licenseQuery).WillReturnRows(
		sqlmock.NewRows(licenseColumns).AddRow("full", start, expiry, "s64-license-test"),
	)

	info, err := insp.FetchLicense(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2020-01-01", info.Start)
	assert.Equal(t, "2030-01-01", info.Expiry)
}

func TestFetchLicense_MultipleRowsTakesFirst(t *testing.T) {
	insp, mock := newMockInspector(t)
	mock.ExpectQuery(licenseQuery).WillReturnRows(
		sqlmock.NewRows(licenseColumns).
			AddRow("full", "2020-01-01", "2030-01-01", "first").
			AddRow("trial", "2021-01-01", "2021-02-01", "second"),
	)

	info, err := insp.FetchLicense(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", info.Customer)
}

func TestFetchLicense_WrongColumnCount(t *testing.T) {
	insp, mock := newMockInspector(t)
	mock.ExpectQuery(licenseQuery).WillReturnRows(
		sqlmock.NewRows([]string{"type", "customer"}).AddRow("full", "x"),
	)

	info, err := insp.FetchLicense(context.Background())
	assert.True(t, info.IsZero())
	var qErr *QueryError
	require.ErrorAs(t, err, &qErr)
	assert.Contains(t, err.Error(), "expected 4 columns, got 2")
}

func TestFetchLicense_FunctionMissing(t *testing.T) {
	insp, mock := newMockInspector(t)
	mock.ExpectQuery(licenseQuery).WillReturnError(&pq.Error{
		Code:    "3F000",
		Message: `schema "swarm64da" does not exist`,
	})

	_, err := insp.FetchLicense(context.Background())
	var qErr *QueryError
	require.ErrorAs(t, err, &qErr)
	assert.Contains(t, err.Error(), "SQLSTATE 3F000")
}

func TestLicenseInfoString(t *testing.T) {
	info := types.LicenseInfo{Type: "full", Start: "2020-01-01", Expiry: "2030-01-01", Customer: "acme"}
	assert.Equal(t, "{type: full, start: 2020-01-01, expiry: 2030-01-01, customer: acme}", info.String())
}
