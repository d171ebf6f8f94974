package postgres

import (
	"beat-ingest/internal/core/port"
	"context"
	"database/sql"
)

type sqlUnitOfWork struct {
	db *sql.DB
	tx *sql.Tx
}

func NewUnitOfWork(db *sql.DB) port.UnitOfWork {
	return &sqlUnitOfWork{db: db}
}

func (u *sqlUnitOfWork) querier() SQLQuerier {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *sqlUnitOfWork) MediaAssetRepo() port.MediaAssetRepository {
	return NewSQLMediaAssetRepository(u.querier())
}

func (u *sqlUnitOfWork) HLSRenditionRepo() port.HLSRenditionRepository {
	return NewSQLHLSRenditionRepository(u.querier())
}

// Execute runs fn in a transaction. Nested calls join the outer transaction.
func (u *sqlUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	if u.tx != nil {
		return fn(u)
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	uowWithTx := &sqlUnitOfWork{db: u.db, tx: tx}

	if err := fn(uowWithTx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
