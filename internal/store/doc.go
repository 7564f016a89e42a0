// Package store is the persistence layer over PostgreSQL.
//
// The prices table is keyed by (ticker, date) and written only through
// UpsertPrices, a chunked, transactional insert-or-update merge: re-running a
// crashed ingestion converges to the same end state. Tickers are registered
// insert-if-absent; signals and index tables follow the same keyed-merge
// discipline.
package store
