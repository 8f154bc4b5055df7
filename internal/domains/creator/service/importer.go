package service

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"creator-dashboard/internal/domains/creator/model"
	"creator-dashboard/internal/domains/creator/repository"
)

// ProgressFunc receives percent-complete after each batch. Optional
// side channel for UI feedback, not part of the result contract.
type ProgressFunc func(percent int)

// Importer runs the bulk import pipeline: normalize, chunk, filter
// records without identity, upsert each chunk keyed on username.
type Importer struct {
	repo       repository.Repository
	normalizer *Normalizer
	batchSize  int
}

func NewImporter(repo repository.Repository, normalizer *Normalizer, batchSize int) *Importer {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Importer{
		repo:       repo,
		normalizer: normalizer,
		batchSize:  batchSize,
	}
}

// Import parses and persists raw import text. A failed batch is
// terminal for that batch only: its size is charged to Errors and the
// pipeline moves on. No retries.
func (im *Importer) Import(ctx context.Context, format, data string, progress ProgressFunc) (*model.ImportResult, error) {
	records, err := ParseImportData(format, data)
	if err != nil {
		return nil, err
	}
	return im.ImportRecords(ctx, records, progress)
}

// ImportRecords persists already-parsed records in contiguous batches.
func (im *Importer) ImportRecords(ctx context.Context, records []RawRecord, progress ProgressFunc) (*model.ImportResult, error) {
	result := &model.ImportResult{}
	total := len(records)

	log.Info().
		Int("total_records", total).
		Int("batch_size", im.batchSize).
		Msg("Starting creator import")

	for start := 0; start < total; start += im.batchSize {
		end := start + im.batchSize
		if end > total {
			end = total
		}
		batch := records[start:end]
		batchIndex := start/im.batchSize + 1

		// Records without a username cannot be merged deterministically
		// and are never persisted.
		creators := make([]model.Creator, 0, len(batch))
		for _, raw := range batch {
			creator, _ := im.normalizer.Normalize(raw)
			if creator.Username == "" {
				continue
			}
			creators = append(creators, creator)
		}

		affected, err := im.repo.UpsertBatch(ctx, creators)
		if err != nil {
			result.Errors += len(batch)
			result.Messages = append(result.Messages,
				fmt.Sprintf("Batch %d: %v", batchIndex, err))
			log.Error().Err(err).Int("batch", batchIndex).Msg("Import batch failed")
		} else {
			result.Imported += int(affected)
		}

		if progress != nil {
			progress(int(math.Round(float64(end) / float64(total) * 100)))
		}
	}

	result.Success = result.Errors == 0

	log.Info().
		Int("imported", result.Imported).
		Int("errors", result.Errors).
		Bool("success", result.Success).
		Msg("Creator import finished")

	return result, nil
}
