package notify

import (
	"context"

	"github.com/jenli/leadbot/internal/lead"
)

// leadInserter is implemented by storage.LeadRepo.
type leadInserter interface {
	Insert(ctx context.Context, rec lead.Record) error
}

// ArchiveSink writes records into the Postgres lead archive.
type ArchiveSink struct {
	repo leadInserter
}

// NewArchiveSink returns nil when the database is not configured.
func NewArchiveSink(repo leadInserter) *ArchiveSink {
	if repo == nil {
		return nil
	}
	return &ArchiveSink{repo: repo}
}

func (s *ArchiveSink) Name() string { return "archive" }

func (s *ArchiveSink) Deliver(ctx context.Context, rec lead.Record) error {
	return s.repo.Insert(ctx, rec)
}
