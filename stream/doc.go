// Package stream provides pull-based lazy iteration over input
// sequences. A runner consumes an Iterator one item at a time, so a
// bounded producer queue exerts backpressure on the source.
package stream
