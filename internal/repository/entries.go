package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pvmail/internal/models"
)

// EntriesRepository persists alerting rules. Entries carry no uniqueness
// constraints: any number of rules may watch the same pvname.
type EntriesRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewEntriesRepository creates an entries repository.
func NewEntriesRepository(db *sql.DB, logger *zap.Logger) *EntriesRepository {
	return &EntriesRepository{
		db:     db,
		logger: logger,
	}
}

const entryColumns = `id, pvname, alarm_values, condition, email_timeout, emails, "group", group_id, subject, unit, warning_message`

func scanEntry(row interface{ Scan(...interface{}) error }) (*models.Entry, error) {
	var e models.Entry
	err := row.Scan(
		&e.ID,
		&e.Pvname,
		&e.AlarmValues,
		&e.Condition,
		&e.EmailTimeout,
		&e.Emails,
		&e.Group,
		&e.GroupID,
		&e.Subject,
		&e.Unit,
		&e.WarningMessage,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEntries returns every alerting rule.
func (r *EntriesRepository) ListEntries(ctx context.Context) ([]models.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries
		ORDER BY pvname`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}

	return entries, nil
}

// Insert writes an entry row. All validation above field presence lives in
// the service layer; the schema rejects missing fields via NOT NULL.
func (r *EntriesRepository) Insert(ctx context.Context, e *models.Entry) (string, error) {
	id := uuid.New().String()
	query := `
		INSERT INTO entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		id,
		e.Pvname,
		e.AlarmValues,
		e.Condition,
		e.EmailTimeout,
		e.Emails,
		e.Group,
		e.GroupID,
		e.Subject,
		e.Unit,
		e.WarningMessage,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert entry for %q: %w", e.Pvname, err)
	}

	r.logger.Info("entry created",
		zap.String("entry_id", id),
		zap.String("pvname", e.Pvname),
		zap.String("group", e.Group),
	)
	return id, nil
}

// ListMissingGroupID returns entries whose owning group identity was never
// resolved (group_id still the zero UUID). Input to the backfill migration.
func (r *EntriesRepository) ListMissingGroupID(ctx context.Context) ([]models.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries
		WHERE group_id = $1`

	rows, err := r.db.QueryContext(ctx, query, ZeroUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries missing group_id: %w", err)
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}

	return entries, nil
}

// SetGroupID rewrites the owning group identity of one entry.
func (r *EntriesRepository) SetGroupID(ctx context.Context, entryID, groupID string) error {
	if entryID == "" {
		return fmt.Errorf("entry id is required")
	}
	if groupID == "" {
		return fmt.Errorf("group id is required")
	}

	query := `
		UPDATE entries
		SET group_id = $2
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, entryID, groupID)
	if err != nil {
		return fmt.Errorf("failed to set group_id on entry %s: %w", entryID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("entry %s: %w", entryID, ErrNotFound)
	}

	return nil
}
