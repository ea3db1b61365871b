// Package auth implements the optional static API key check for the export
// endpoint.
//
// The key is compared with a constant-time match against the single
// configured value, and can be supplied either in a request header or as a
// query parameter, for BI tools that cannot set custom headers. When the
// check is disabled in configuration the middleware is simply not installed.
package auth
