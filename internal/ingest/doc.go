// Package ingest orchestrates the document pipeline: parse the input,
// normalize and hash the text, check the (hub, hash) dedup key, split
// into chunks, and persist document plus chunks in one transaction so a
// mid-pipeline failure leaves no partial state. Deduplication is a
// successful outcome, reported via IngestResult.Deduped rather than an
// error.
package ingest
