// Package cache wraps the local relational cache behind a transaction-aware
// driver.
//
// A Driver serializes writers through one outermost transaction at a time.
// The transaction travels in the context; nested calls join it and share its
// physical transaction. Only the outermost scope commits or rolls back.
// Hooks and change notifications are collected on it and released once the
// physical transaction has finished. Query values re-run a read and can be observed as a stream
// of result lists.
package cache
