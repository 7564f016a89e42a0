// Package ingest implements the resilient daily-price ingestion pipeline.
//
// One run is a batch cascade: the planner computes the incremental date
// window and partitions the universe into fixed-size batches, the executor
// fetches each batch through the pacer and classifies failures, and the
// splitter retries failed batches by halving them down to singletons so one
// bad ticker cannot sink its batch. Normalized rows are merged into the
// prices table keyed by (ticker, date).
//
// Fetch failures degrade to partial coverage and a skip list; store failures
// abort the run.
package ingest
