// Package backend is the HTTP client for the external project/chapter store:
// batch submission, completion polling, acknowledgment, and the activity log.
package backend
