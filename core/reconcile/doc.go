// Package reconcile compares two snapshots of keyed records.
//
// The cache replaces its contents with what the remote returned; Diff tells
// the caller what that replacement changed so it can be logged and counted.
//
// # Usage Example
//
//	results := reconcile.Diff(cached, fetched, models.Key, models.Equal)
//	summary := reconcile.Summarize(results)
//	logger.Info("Snapshot replaced",
//	    zap.Int("added", summary.Added),
//	    zap.Int("removed", summary.Removed))
package reconcile
