// Package scheduler runs conversion jobs through a bounded worker pool.
// Admission happens in submission order; a semaphore channel caps the number
// of jobs in flight, so Submit blocks while the pool is at capacity. The
// first job failure stops further admission and becomes the batch result.
package scheduler
