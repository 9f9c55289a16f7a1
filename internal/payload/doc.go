// Package payload encodes chapter batches for the external translation worker
// and decodes the worker's delimited responses.
package payload
