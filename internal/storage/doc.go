// Package storage provides SQLite-based persistence for hub-scoped
// documents, their chunks, and the FTS5 full-text index over chunk text.
//
// Tables:
//   - documents: one row per ingested unit, content hash written at
//     insert so the (hub_id, content_hash) dedup lookup is race-free
//   - chunks: ordered fragments of a document's text, hub_id
//     denormalized for scoped search
//   - chunks_fts: FTS5 external-content index over chunks.text, kept in
//     lockstep by insert/delete triggers
//
// Schema bootstrap is idempotent (create-if-absent everywhere) and runs
// on every open. All write paths bind parameters; no value is ever
// interpolated into query text.
//
// Two build configurations select the driver:
//
//	CGO_ENABLED=0 go build ./...                      (modernc.org/sqlite)
//	CGO_ENABLED=1 go build -tags "sqlite_cgo,fts5"    (mattn/go-sqlite3)
//
// The store assumes a single in-process writer; WAL mode lets reads
// proceed concurrently with writes.
package storage
