package postgres

import (
	"context"
	"strings"

	"github.com/alexanderjulianmartinez/pgcollect/pkg/types"
)

const (
	settingLogDestination   = "log_destination"
	settingLoggingCollector = "logging_collector"
	settingLogDirectory     = "log_directory"
	settingDataDirectory    = "data_directory"
)

const loggingQuery = "SELECT name, setting FROM pg_settings WHERE name IN " +
	"('log_destination','logging_collector','log_directory','data_directory')"

// Destinations written by the logging collector to files on disk.
var collectibleDestinations = map[string]bool{
	"stderr": true,
	"csvlog": true,
}

// FetchLoggingInfo reads the logging settings and decides whether server
// logs can be collected from disk.
func (i *Inspector) FetchLoggingInfo(ctx context.Context) (types.LoggingInfo, error) {
	rows, err := i.Query(ctx, loggingQuery)
	if err != nil {
		return types.LoggingInfo{}, err
	}

	// rows come back in no particular order
	settings := make(map[string]string, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		settings[row[0]] = row[1]
	}
	return ResolveLoggingPolicy(settings)
}

// ResolveLoggingPolicy applies the collection rule to a name->value map.
// Every one of the four settings must be present.
func ResolveLoggingPolicy(settings map[string]string) (types.LoggingInfo, error) {
	var missing []string
	for _, name := range []string{settingLogDestination, settingLoggingCollector, settingLogDirectory, settingDataDirectory} {
		if _, ok := settings[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return types.LoggingInfo{}, &PolicyError{Missing: missing}
	}

	return types.LoggingInfo{
		CollectLogs: ShouldCollectLogs(settings[settingLogDestination], settings[settingLoggingCollector]),
		LogDir:      settings[settingLogDirectory],
		DataDir:     settings[settingDataDirectory],
	}, nil
}

// ShouldCollectLogs reports whether log_destination routes to stderr or
// csvlog and the logging collector is on.
func ShouldCollectLogs(destination, collector string) bool {
	if collector != "on" {
		return false
	}
	for _, token := range strings.Split(destination, ",") {
		if collectibleDestinations[strings.TrimSpace(token)] {
			return true
		}
	}
	return false
}
