package archive

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/analytics"
)

const writeTimeout = 3 * time.Second

// Archiver is an analytics.Observer that appends every event of one session
// to the repository. Write failures are logged and dropped.
type Archiver struct {
	repo      Repository
	sessionID string
	logger    *zap.Logger
	seq       atomic.Int64
	now       func() time.Time
}

func NewArchiver(repo Repository, sessionID string, logger *zap.Logger) *Archiver {
	return &Archiver{
		repo:      repo,
		sessionID: sessionID,
		logger:    logger,
		now:       time.Now,
	}
}

func (a *Archiver) OnEvent(ctx context.Context, name string, params *analytics.Params) {
	e := Entry{
		SessionID:     a.sessionID,
		Sequence:      a.seq.Add(1),
		EventName:     name,
		Params:        params,
		CorrelationID: analytics.CorrelationID(ctx),
		OccurredAt:    a.now().UTC(),
	}

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := a.repo.Append(writeCtx, e); err != nil {
		a.logger.Warn("archive analytics event failed",
			zap.String("event_name", name),
			zap.Int64("sequence", e.Sequence),
			zap.Error(err),
		)
	}
}

func (a *Archiver) Recent(ctx context.Context, limit int) ([]Entry, error) {
	return a.repo.Recent(ctx, a.sessionID, limit)
}
