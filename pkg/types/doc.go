// Package types contains the shared domain types for the ingestion and
// search pipeline: parsed documents, ingest results, search hits, events,
// and the error taxonomy used across packages.
package types
