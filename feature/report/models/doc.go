// Package models defines the report entity, its write inputs and the
// versioned layout of the cache table.
package models
