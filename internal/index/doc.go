// Package index maintains the momentum index: daily top-N selection by
// score, equal-weight membership, and a chained level series.
package index
