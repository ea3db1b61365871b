// Package storage provides database access for the export service.
//
// It supports two backends behind database/sql: MySQL (the production
// attendance database) and SQLite (local development and tests). The
// export handler never touches driver specifics; it executes the built
// query through QueryRowSet, which guarantees the underlying rows are
// closed on every exit path.
package storage
