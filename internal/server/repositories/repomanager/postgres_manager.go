package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/kairo-health/kairo-server/internal/dbx"
	"github.com/kairo-health/kairo-server/internal/server/migrations"
	"github.com/kairo-health/kairo-server/internal/server/repositories/authsessions"
	"github.com/kairo-health/kairo-server/internal/server/repositories/chats"
	"github.com/kairo-health/kairo-server/internal/server/repositories/users"
	"github.com/kairo-health/kairo-server/internal/server/repositories/wellbeing"
)

type PostgresRepositoryManager struct {
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) AuthSessions(db dbx.DBTX) authsessions.Repository {
	return authsessions.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Chats(db dbx.DBTX) chats.Repository {
	return chats.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Wellbeing(db dbx.DBTX) wellbeing.Repository {
	return wellbeing.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}
