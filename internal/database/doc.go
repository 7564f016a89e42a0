// Package database provides connection pool management for PostgreSQL.
//
// One pool holds everything: tickers, prices, signals, and index tables.
// All writes to the prices table go through the store package's keyed-merge
// upsert; nothing else writes prices directly.
package database
