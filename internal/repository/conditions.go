package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pvmail/internal/models"
)

// SupportedConditions returns the condition catalog the alerting engine
// understands. Seeded at provisioning time; entries reference these by name.
func SupportedConditions() []models.Condition {
	return []models.Condition{
		{Name: "out of range", Desc: "Value must remain between the two alarm values"},
		{Name: "superior than", Desc: "Value must remain below the alarm value"},
		{Name: "inferior than", Desc: "Value must remain above the alarm value"},
		{Name: "increasing step", Desc: "Notify whenever the value climbs past the next step level"},
		{Name: "decreasing step", Desc: "Notify whenever the value drops past the next step level"},
	}
}

// ConditionsRepository persists the condition catalog.
type ConditionsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewConditionsRepository creates a conditions repository.
func NewConditionsRepository(db *sql.DB, logger *zap.Logger) *ConditionsRepository {
	return &ConditionsRepository{
		db:     db,
		logger: logger,
	}
}

// GetCondition fetches a condition by name. Returns ErrNotFound when the
// name is not in the catalog.
func (r *ConditionsRepository) GetCondition(ctx context.Context, name string) (*models.Condition, error) {
	if name == "" {
		return nil, fmt.Errorf("condition name is required")
	}

	query := `
		SELECT id, name, "desc"
		FROM conditions
		WHERE name = $1`

	var c models.Condition
	err := r.db.QueryRowContext(ctx, query, name).Scan(&c.ID, &c.Name, &c.Desc)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("condition %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get condition %q: %w", name, err)
	}

	return &c, nil
}

// ListConditions returns the full catalog ordered by name.
func (r *ConditionsRepository) ListConditions(ctx context.Context) ([]models.Condition, error) {
	query := `
		SELECT id, name, "desc"
		FROM conditions
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list conditions: %w", err)
	}
	defer rows.Close()

	var conditions []models.Condition
	for rows.Next() {
		var c models.Condition
		if err := rows.Scan(&c.ID, &c.Name, &c.Desc); err != nil {
			return nil, fmt.Errorf("failed to scan condition: %w", err)
		}
		conditions = append(conditions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conditions: %w", err)
	}

	return conditions, nil
}

// CreateCondition inserts a condition. A duplicate name is rejected by the
// uniqueness constraint and reported as ErrDuplicate.
func (r *ConditionsRepository) CreateCondition(ctx context.Context, c *models.Condition) (string, error) {
	if c.Name == "" {
		return "", fmt.Errorf("condition name is required")
	}
	if c.Desc == "" {
		return "", fmt.Errorf("condition desc is required")
	}

	id := uuid.New().String()
	query := `
		INSERT INTO conditions (id, name, "desc")
		VALUES ($1, $2, $3)`

	if _, err := r.db.ExecContext(ctx, query, id, c.Name, c.Desc); err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("condition %q: %w", c.Name, ErrDuplicate)
		}
		return "", fmt.Errorf("failed to create condition %q: %w", c.Name, err)
	}

	r.logger.Info("condition created",
		zap.String("condition_id", id),
		zap.String("name", c.Name),
	)
	return id, nil
}

// SeedConditions inserts every supported condition that is not already
// present. Safe to call on a database that was seeded before.
func (r *ConditionsRepository) SeedConditions(ctx context.Context) (int, error) {
	seeded := 0
	for _, c := range SupportedConditions() {
		cond := c
		if _, err := r.CreateCondition(ctx, &cond); err != nil {
			if errors.Is(err, ErrDuplicate) {
				r.logger.Debug("condition already seeded", zap.String("name", c.Name))
				continue
			}
			return seeded, err
		}
		seeded++
	}
	return seeded, nil
}
