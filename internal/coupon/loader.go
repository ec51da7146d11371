package coupon

import (
	"compress/gzip"
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for gzipped ledgers on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based ledger loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "coupon-loader").Logger(),
	}
}

// Load reads a gzipped ledger file with one CODE,kind,value rule per line.
func (l *fileLoader) Load(ctx context.Context, path string) (Ledger, error) {
	log := l.logger.With().Str("file", path).Logger()
	log.Info().Msg("loading coupon ledger")

	file, err := os.Open(path)
	if err != nil {
		log.Error().Err(err).Msg("failed to open coupon ledger")
		return nil, fmt.Errorf("failed to open coupon ledger %s: %w", path, err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		log.Error().Err(err).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", path, err)
	}
	defer gzipReader.Close()

	ledger, skipped, err := readLedger(ctx, gzipReader, log)
	if err != nil {
		log.Error().Err(err).Msg("error reading coupon ledger")
		return nil, fmt.Errorf("error reading coupon ledger %s: %w", path, err)
	}

	log.Info().
		Int("rules_loaded", ledger.Size()).
		Int("lines_skipped", skipped).
		Msg("coupon ledger loaded")

	return ledger, nil
}
