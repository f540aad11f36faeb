package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"pvmail/internal/models"
	"pvmail/internal/repository"
)

// Store is the application-level view of the alerting database. The schema
// deliberately enforces nothing across tables, so the consistency between an
// entry, its group and its condition is upheld here.
type Store struct {
	Conditions *repository.ConditionsRepository
	Groups     *repository.GroupsRepository
	Entries    *repository.EntriesRepository
	logger     *zap.Logger
}

// NewStore wires the three repositories over one connection.
func NewStore(db *sql.DB, logger *zap.Logger) *Store {
	return &Store{
		Conditions: repository.NewConditionsRepository(db, logger),
		Groups:     repository.NewGroupsRepository(db, logger),
		Entries:    repository.NewEntriesRepository(db, logger),
		logger:     logger,
	}
}

// CreateEntry inserts an alerting rule with the cross-table checks the
// schema omits: the named condition must exist in the catalog, and the
// owning group is created (enabled) when it is missing. The entry's
// group_id is always rewritten to the group actually stored.
func (s *Store) CreateEntry(ctx context.Context, e *models.Entry) (string, error) {
	if e.Group == "" {
		return "", fmt.Errorf("entry for %q has no group", e.Pvname)
	}

	if _, err := s.Conditions.GetCondition(ctx, e.Condition); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("entry for %q references unknown condition %q", e.Pvname, e.Condition)
		}
		return "", err
	}

	group, err := s.Groups.GetGroup(ctx, e.Group)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return "", err
		}
		groupID, err := s.Groups.CreateGroup(ctx, &models.Group{Name: e.Group, Enabled: true})
		if err != nil {
			return "", err
		}
		s.logger.Info("group auto-created for entry",
			zap.String("group", e.Group),
			zap.String("pvname", e.Pvname),
		)
		group = &models.Group{ID: groupID, Name: e.Group, Enabled: true}
	}

	e.GroupID = group.ID
	return s.Entries.Insert(ctx, e)
}

// BackfillGroupIDs resolves the owning group of every entry whose group_id
// is still the zero UUID, using the denormalized group name. Entries whose
// group no longer exists are left untouched and reported in the log.
// Returns the number of entries updated.
func (s *Store) BackfillGroupIDs(ctx context.Context) (int, error) {
	entries, err := s.Entries.ListMissingGroupID(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, e := range entries {
		group, err := s.Groups.GetGroup(ctx, e.Group)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.logger.Warn("entry references missing group, skipping",
					zap.String("entry_id", e.ID),
					zap.String("group", e.Group),
				)
				continue
			}
			return updated, err
		}

		if err := s.Entries.SetGroupID(ctx, e.ID, group.ID); err != nil {
			return updated, err
		}
		s.logger.Info("entry group_id backfilled",
			zap.String("entry_id", e.ID),
			zap.String("group_id", group.ID),
		)
		updated++
	}

	return updated, nil
}
