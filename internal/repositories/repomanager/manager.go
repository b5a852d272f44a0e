// Package repomanager bundles the journal's repositories behind a single
// constructor that owns the database handle and schema migrations.
package repomanager

import (
	"database/sql"

	"github.com/dmitrijs2005/stockjournal/internal/repositories/dailynotes"
	"github.com/dmitrijs2005/stockjournal/internal/repositories/trades"
)

type RepositoryManager interface {
	Conn() *sql.DB
	Trades() trades.Repository
	DailyNotes() dailynotes.Repository
	Close() error
}
