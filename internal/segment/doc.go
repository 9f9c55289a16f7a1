// Package segment turns raw uploaded text into ordered chapter candidates
// using 第X章 heading detection.
package segment
