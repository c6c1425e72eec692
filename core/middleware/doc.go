// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation, with public path prefixes.
//   - rayid: a request id stored in fiber locals and echoed in X-Ray-ID.
package middleware
