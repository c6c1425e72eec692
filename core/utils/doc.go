// Package utils converts loosely typed document values (decoded JSON, hand
// edited records) into the concrete types the domain uses.
package utils
