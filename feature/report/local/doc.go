// Package local is the on-device cache of reports, built on the cache driver.
//
// Every write runs inside a transaction and notifies observers of the
// reports table once it commits.
package local
