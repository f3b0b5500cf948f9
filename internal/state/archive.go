// Package state - durable campaign archive
//
// SQLite-backed storage for everything that must survive a snapshot reset:
// the campaign-spanning sent/failed counters and the per-profile outcome
// history used for summary reporting.
package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"linkedin-outreach/internal/models"
)

// Archive wraps the SQLite database holding durable campaign records
type Archive struct {
	db *sql.DB
}

// OpenArchive creates or opens the archive database at the given path
func OpenArchive(dbPath string) (*Archive, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to archive: %w", err)
	}

	a := &Archive{db: db}
	if err := a.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return a, nil
}

// Close closes the database connection
func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) migrate() error {
	migrations := []string{
		// Per-campaign totals, archived on normal completion. These counters
		// survive snapshot clears and accumulate across campaigns.
		`CREATE TABLE IF NOT EXISTS campaign_totals (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			campaign_id TEXT UNIQUE NOT NULL,
			sent_count INTEGER NOT NULL DEFAULT 0,
			failed_count INTEGER NOT NULL DEFAULT 0,
			archived_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Per-profile outcome history for summary reporting
		`CREATE TABLE IF NOT EXISTS processed_outcomes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			campaign_id TEXT NOT NULL,
			queue_index INTEGER NOT NULL,
			profile_url TEXT NOT NULL,
			profile_name TEXT DEFAULT '',
			outcome TEXT NOT NULL,
			note TEXT DEFAULT '',
			error TEXT DEFAULT '',
			message TEXT DEFAULT '',
			finished_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_outcomes_campaign ON processed_outcomes(campaign_id)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_url ON processed_outcomes(profile_url)`,
	}

	for _, migration := range migrations {
		if _, err := a.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w\nQuery: %s", err, migration)
		}
	}

	return nil
}

// ArchiveCampaign records a finished campaign's counters. Called exactly once
// per campaign, immediately before the snapshot is cleared.
func (a *Archive) ArchiveCampaign(campaignID string, sentCount, failedCount int, processed []models.ProcessedEntry) error {
	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin archive transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO campaign_totals (campaign_id, sent_count, failed_count, archived_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(campaign_id) DO UPDATE SET
			sent_count = excluded.sent_count,
			failed_count = excluded.failed_count,
			archived_at = excluded.archived_at
	`, campaignID, sentCount, failedCount, time.Now())
	if err != nil {
		return fmt.Errorf("failed to archive campaign totals: %w", err)
	}

	for _, entry := range processed {
		_, err = tx.Exec(`
			INSERT INTO processed_outcomes (campaign_id, queue_index, profile_url, profile_name, outcome, note, error, message, finished_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, campaignID, entry.Index, entry.Profile.CanonicalURL, entry.Profile.Name,
			entry.Outcome, entry.Note, entry.Error, entry.Message, entry.FinishedAt)
		if err != nil {
			return fmt.Errorf("failed to archive outcome: %w", err)
		}
	}

	return tx.Commit()
}

// Totals returns the accumulated sent/failed counts across all campaigns
func (a *Archive) Totals() (sent int, failed int, err error) {
	err = a.db.QueryRow(`
		SELECT COALESCE(SUM(sent_count), 0), COALESCE(SUM(failed_count), 0)
		FROM campaign_totals
	`).Scan(&sent, &failed)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read totals: %w", err)
	}
	return sent, failed, nil
}

// CampaignCount returns how many campaigns have been archived
func (a *Archive) CampaignCount() (int, error) {
	var count int
	err := a.db.QueryRow(`SELECT COUNT(*) FROM campaign_totals`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count campaigns: %w", err)
	}
	return count, nil
}

// RecentOutcomes returns the most recent processed outcomes for reporting
func (a *Archive) RecentOutcomes(limit int) ([]models.ProcessedEntry, error) {
	rows, err := a.db.Query(`
		SELECT queue_index, profile_url, profile_name, outcome, note, error, message, finished_at
		FROM processed_outcomes
		ORDER BY finished_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get outcomes: %w", err)
	}
	defer rows.Close()

	var entries []models.ProcessedEntry
	for rows.Next() {
		var e models.ProcessedEntry
		err := rows.Scan(&e.Index, &e.Profile.CanonicalURL, &e.Profile.Name,
			&e.Outcome, &e.Note, &e.Error, &e.Message, &e.FinishedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
