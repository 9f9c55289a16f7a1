// Package watch ingests uploads dropped into the inbox directory.
package watch
