// Package remote defines the contract of the authoritative report store and
// its error taxonomy. The objectstore subpackage implements it over an
// S3-compatible bucket; mocks holds a testify double.
package remote
