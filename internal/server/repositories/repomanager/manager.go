// Package repomanager hands out repositories bound to a database handle
// (either *sql.DB or a transaction) and owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/kairo-health/kairo-server/internal/dbx"
	"github.com/kairo-health/kairo-server/internal/server/repositories/authsessions"
	"github.com/kairo-health/kairo-server/internal/server/repositories/chats"
	"github.com/kairo-health/kairo-server/internal/server/repositories/users"
	"github.com/kairo-health/kairo-server/internal/server/repositories/wellbeing"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	AuthSessions(db dbx.DBTX) authsessions.Repository
	Chats(db dbx.DBTX) chats.Repository
	Wellbeing(db dbx.DBTX) wellbeing.Repository

	RunMigrations(ctx context.Context, db *sql.DB) error
}
