// Package database provides the relational snapshot backend.
//
// The whole application state is stored as a single JSON document in the
// snapshots table, one row per key:
//
//	db, err := database.NewDatabase("./data/bookreviews.db")
//	repo := database.NewSnapshotRepository(db.DB, database.DefaultSnapshotKey)
//	snap, err := repo.Load(ctx)
//
// SnapshotRepository satisfies store.Gateway, so it can replace the JSON file
// gateway without any change to the store.
package database
