// Package live provides reactive reads over the store.
//
// A Tracker learns about writes through gorm callbacks and wakes every
// Query that observes an affected table. Each Query subscription re-runs
// its fetch and delivers the newest result on a channel that holds at most
// one pending value: a slow consumer skips intermediate snapshots but
// always sees the latest one.
package live
