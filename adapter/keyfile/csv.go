package keyfile

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/arenainfra/podctl/pkg/logger"
	"github.com/pkg/errors"
)

// Load reads hostname,key rows from a CSV file. Blank and malformed rows are
// skipped with a warning; a missing file yields an empty map. A later row for
// the same host replaces an earlier one.
func Load(ctx context.Context, path string) (map[string]string, error) {
	keys := map[string]string{}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Logger(ctx).Warn().Msgf("key file %s not found, skipping", path)
			return keys, nil
		}
		return nil, errors.WithMessagef(err, "open key file %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comment = '#'

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				logger.Logger(ctx).Warn().Msgf("%s: skipping unreadable row %d: %v", path, parseErr.Line, parseErr.Err)
				continue
			}
			return nil, errors.WithMessagef(err, "read key file %s", path)
		}
		line, _ := r.FieldPos(0)
		if isBlank(record) {
			continue
		}
		if len(record) != 2 {
			logger.Logger(ctx).Warn().Msgf("%s: skipping malformed row %d, want hostname,key", path, line)
			continue
		}
		host, key := strings.TrimSpace(record[0]), strings.TrimSpace(record[1])
		if host == "" || key == "" {
			logger.Logger(ctx).Warn().Msgf("%s: skipping row %d with empty hostname or key", path, line)
			continue
		}
		keys[host] = key
	}
	logger.Logger(ctx).Debug().Msgf("loaded %d keys from %s", len(keys), path)
	return keys, nil
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
