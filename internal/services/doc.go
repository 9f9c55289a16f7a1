// Package services defines the shared error taxonomy for external-facing
// components and hosts the per-service client subpackages.
package services
