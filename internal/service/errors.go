package service

import "errors"

// ErrSyncInProgress is returned by Sync when another sync run already
// holds the single-flight lock. The caller should surface it rather than
// queue: concurrent swaps against one SQLite file are never safe.
var ErrSyncInProgress = errors.New("a sync run is already in progress")
