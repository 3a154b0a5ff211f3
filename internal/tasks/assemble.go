package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jazzx/internal/services"
	"github.com/desertthunder/jazzx/internal/shared"
)

// Assembler accumulates resolved track ids and appends them to the playlist
// in bounded batches.
//
// Duplicate ids are dropped at Offer time so a track accepted for two
// different citations appears in the playlist once.
type Assembler struct {
	catalog    services.Catalog
	logger     *log.Logger
	playlistID string
	batchSize  int

	buffer []string
	seen   map[string]struct{}

	added         int
	failedBatches int
}

// NewAssembler creates an Assembler targeting the given playlist.
func NewAssembler(catalog services.Catalog, playlistID string, logger *log.Logger) *Assembler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Assembler{
		catalog:    catalog,
		logger:     logger,
		playlistID: playlistID,
		batchSize:  services.MaxTracksPerAppend,
		seen:       make(map[string]struct{}),
	}
}

// Offer queues a track id for appending. Returns false if the id was already
// offered during this run.
func (a *Assembler) Offer(trackID string) bool {
	if _, ok := a.seen[trackID]; ok {
		return false
	}
	a.seen[trackID] = struct{}{}
	a.buffer = append(a.buffer, trackID)
	return true
}

// FlushIfFull appends full batches while the buffer holds at least one.
// Returns the number of tracks appended.
func (a *Assembler) FlushIfFull(ctx context.Context) int {
	appended := 0
	for len(a.buffer) >= a.batchSize {
		appended += a.flush(ctx, a.batchSize)
	}
	return appended
}

// FlushRemainder appends whatever is left in the buffer, if anything.
// Returns the number of tracks appended.
func (a *Assembler) FlushRemainder(ctx context.Context) int {
	if len(a.buffer) == 0 {
		return 0
	}
	return a.flush(ctx, len(a.buffer))
}

// flush sends the first n buffered ids to the catalog. A failed batch is
// dropped, logged, and counted; the run continues with the rest.
func (a *Assembler) flush(ctx context.Context, n int) int {
	batch := a.buffer[:n]
	a.buffer = a.buffer[n:]

	if err := a.catalog.AddTracks(ctx, a.playlistID, batch); err != nil {
		a.logger.Error("failed to append batch to playlist",
			"playlist", a.playlistID, "count", len(batch), "error", err)
		a.failedBatches++
		return 0
	}

	a.added += len(batch)
	a.logger.Info("appended tracks to playlist", "count", len(batch), "total", a.added)
	return len(batch)
}

// Added returns the number of tracks successfully appended so far.
func (a *Assembler) Added() int { return a.added }

// FailedBatches returns the number of batches dropped due to append errors.
func (a *Assembler) FailedBatches() int { return a.failedBatches }

// Pending returns the number of buffered ids not yet appended.
func (a *Assembler) Pending() int { return len(a.buffer) }
