package dispatch

import "context"

// StorageClient performs the out-of-database side effects a dispatch can
// require before SQL runs, namely the recreate-with-location delete
// invariant (§8 invariant 8: a CreateTable with Recreate set and a
// non-empty Location must have its prior files deleted before the CREATE
// TABLE statement executes, and a deletion failure aborts the operation
// without issuing any SQL). A deployment with no object storage backing its
// tables can leave this nil; the dispatcher only calls it when an
// operation's fields require it.
type StorageClient interface {
	DeleteLocation(ctx context.Context, location string) error
}
