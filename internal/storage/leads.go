// Package storage persists delivered lead records to Postgres.
package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jenli/leadbot/internal/lead"
)

// LeadRepo writes lead records to the leads table.
type LeadRepo struct {
	db *sqlx.DB
}

// NewLeadRepo wraps an open database handle.
func NewLeadRepo(db *sqlx.DB) *LeadRepo {
	return &LeadRepo{db: db}
}

const insertLead = `
INSERT INTO leads (
	id, event, user_id, username, name, service, platform, goal,
	budget, store_links, email, notes, lang, source, created_at
) VALUES (
	:id, :event, :user_id, :username, :name, :service, :platform, :goal,
	:budget, :store_links, :email, :notes, :lang, :source, :created_at
)`

// Insert stores one record. Duplicate ids are rejected by the primary key.
func (r *LeadRepo) Insert(ctx context.Context, rec lead.Record) error {
	if _, err := r.db.NamedExecContext(ctx, insertLead, rec); err != nil {
		return fmt.Errorf("insert lead %s: %w", rec.ID, err)
	}
	return nil
}
