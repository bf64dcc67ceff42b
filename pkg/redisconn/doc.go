// Package redisconn opens Redis connections for the shared loaded set,
// with URL-based configuration and startup retries.
package redisconn
