// Package scheduler partitions chapter selections into fixed-size batches,
// drives their strictly ordered submission to the translation job queue, and
// polls completed translations back into the local store.
package scheduler
