// Package storage persists finished runs.
//
// A [Store] writes one directory per run holding metadata.json and
// trajectory.csv (columns time, x0..xn, full float precision). A [Catalog]
// indexes run metadata in SQLite for filtering by model and status.
package storage
