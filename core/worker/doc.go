// Package worker provides the fixed-size goroutine pool that background
// intents run on.
package worker
