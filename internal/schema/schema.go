package schema

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Statement is one provisioning step, named for logging.
type Statement struct {
	Name string
	SQL  string
}

// createConditions: name and "desc" are the validated required fields,
// with uniqueness on name declared as a separate index. "desc" is a
// reserved word in PostgreSQL and stays quoted everywhere.
const createConditions = `
CREATE TABLE conditions (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	"desc" TEXT NOT NULL
)`

const createConditionsNameIndex = `
CREATE UNIQUE INDEX conditions_name_idx ON conditions (name)`

// "groups" is quoted: GROUPS became a reserved word in PostgreSQL 11.
const createGroups = `
CREATE TABLE "groups" (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	enabled BOOLEAN NOT NULL
)`

const createGroupsNameIndex = `
CREATE UNIQUE INDEX groups_name_idx ON "groups" (name)`

// createEntries declares all ten required rule fields. There is no
// uniqueness on entries: any number of rules may watch the same pvname.
// group_id is intentionally not a foreign key; consistency with "groups"
// is enforced by the repository layer, not the schema.
const createEntries = `
CREATE TABLE entries (
	id UUID PRIMARY KEY,
	pvname TEXT NOT NULL,
	alarm_values TEXT NOT NULL,
	condition TEXT NOT NULL,
	email_timeout INTEGER NOT NULL,
	emails TEXT NOT NULL,
	"group" TEXT NOT NULL,
	group_id UUID NOT NULL,
	subject TEXT NOT NULL,
	unit TEXT NOT NULL,
	warning_message TEXT NOT NULL
)`

// Statements returns the provisioning steps in execution order.
func Statements() []Statement {
	return []Statement{
		{Name: "create conditions", SQL: createConditions},
		{Name: "index conditions.name", SQL: createConditionsNameIndex},
		{Name: "create groups", SQL: createGroups},
		{Name: "index groups.name", SQL: createGroupsNameIndex},
		{Name: "create entries", SQL: createEntries},
	}
}

// Initializer provisions the pvmail tables on an empty database.
type Initializer struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewInitializer creates a schema initializer.
func NewInitializer(db *sql.DB, logger *zap.Logger) *Initializer {
	return &Initializer{
		db:     db,
		logger: logger,
	}
}

// Run executes the provisioning statements in order, stopping at the first
// failure. It is a one-shot setup action: running it against an already
// provisioned database fails on the first existing table, which is the
// expected signal that there is nothing to do.
func (i *Initializer) Run(ctx context.Context) error {
	for _, stmt := range Statements() {
		i.logger.Info("executing provisioning step", zap.String("step", stmt.Name))
		if _, err := i.db.ExecContext(ctx, stmt.SQL); err != nil {
			return fmt.Errorf("provisioning step %q failed: %w", stmt.Name, err)
		}
	}
	i.logger.Info("schema provisioned", zap.Int("steps", len(Statements())))
	return nil
}
