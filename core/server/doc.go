// Package server assembles the HTTP application.
//
// Config defines the port, the API key and the shutdown bound. New wires the
// middleware chain (ray id, request logging, auth) and the public /metrics
// and /swagger routes in front of the loaded features.
package server
