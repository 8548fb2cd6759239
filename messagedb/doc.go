// Package messagedb is a read-side gateway to a Message DB event store
// running on PostgreSQL.
//
// The package resolves stream name expressions into either a single stream
// read or a category read, fetches one page of messages through the store
// read functions and decodes the JSON columns of each row into a Message.
// It also lists the most recently written stream names.
//
// The package never writes to the store.
package messagedb
