package core

import (
	"context"

	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/logan/v3/errors"

	"github.com/privmind/therapy-svc/internal/data"
)

// Repository enumerates and hydrates session records from the ledger. Every
// Hydrate re-reads chain state; there is no cache.
type Repository struct {
	reader Reader
	log    *logan.Entry
}

func NewRepository(reader Reader, log *logan.Entry) *Repository {
	return &Repository{
		reader: reader,
		log:    log,
	}
}

// Hydrate returns all sessions in ledger enumeration order. A failure
// hydrating one identifier is logged and that identifier skipped; it does not
// fail the batch.
func (r *Repository) Hydrate(ctx context.Context) ([]data.Session, error) {
	ids, err := r.reader.AllSessionIDs(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to enumerate sessions")
	}

	sessions := make([]data.Session, 0, len(ids))
	for _, id := range ids {
		session, err := r.reader.SessionData(ctx, id)
		if err != nil {
			r.log.WithError(err).Errorf("[Repo] Failed to hydrate session %s", id)
			continue
		}

		sessions = append(sessions, session)
	}

	return sessions, nil
}
