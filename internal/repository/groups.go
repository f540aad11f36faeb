package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pvmail/internal/models"
)

// GroupsRepository persists entry groups.
type GroupsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewGroupsRepository creates a groups repository.
func NewGroupsRepository(db *sql.DB, logger *zap.Logger) *GroupsRepository {
	return &GroupsRepository{
		db:     db,
		logger: logger,
	}
}

// GetGroup fetches a group by name. Returns ErrNotFound when no group
// carries the name.
func (r *GroupsRepository) GetGroup(ctx context.Context, name string) (*models.Group, error) {
	if name == "" {
		return nil, fmt.Errorf("group name is required")
	}

	query := `
		SELECT id, name, enabled
		FROM "groups"
		WHERE name = $1`

	var g models.Group
	err := r.db.QueryRowContext(ctx, query, name).Scan(&g.ID, &g.Name, &g.Enabled)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group %q: %w", name, err)
	}

	return &g, nil
}

// ListGroups returns all groups ordered by name.
func (r *GroupsRepository) ListGroups(ctx context.Context) ([]models.Group, error) {
	query := `
		SELECT id, name, enabled
		FROM "groups"
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Enabled); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return groups, nil
}

// CreateGroup inserts a group. A duplicate name is rejected by the
// uniqueness constraint and reported as ErrDuplicate.
func (r *GroupsRepository) CreateGroup(ctx context.Context, g *models.Group) (string, error) {
	if g.Name == "" {
		return "", fmt.Errorf("group name is required")
	}

	id := uuid.New().String()
	query := `
		INSERT INTO "groups" (id, name, enabled)
		VALUES ($1, $2, $3)`

	if _, err := r.db.ExecContext(ctx, query, id, g.Name, g.Enabled); err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("group %q: %w", g.Name, ErrDuplicate)
		}
		return "", fmt.Errorf("failed to create group %q: %w", g.Name, err)
	}

	r.logger.Info("group created",
		zap.String("group_id", id),
		zap.String("name", g.Name),
		zap.Bool("enabled", g.Enabled),
	)
	return id, nil
}

// SetEnabled flips the group's on/off toggle.
func (r *GroupsRepository) SetEnabled(ctx context.Context, name string, enabled bool) error {
	if name == "" {
		return fmt.Errorf("group name is required")
	}

	query := `
		UPDATE "groups"
		SET enabled = $2
		WHERE name = $1`

	result, err := r.db.ExecContext(ctx, query, name, enabled)
	if err != nil {
		return fmt.Errorf("failed to update group %q: %w", name, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("group %q: %w", name, ErrNotFound)
	}

	r.logger.Info("group toggled",
		zap.String("name", name),
		zap.Bool("enabled", enabled),
	)
	return nil
}
