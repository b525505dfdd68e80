// Package catalog holds the two durable in-memory stores of the application.
//
// [TagStore] is the ordered set of known tags offered when tagging an image. [HistoryStore] is the
// registry of every image ever seen, each with its name history. Both are backed by a
// [models.Collection] and write the whole collection back after every mutation.
//
// A store that cannot load its collection at construction fails with [shared.ErrConstruction];
// callers treat that as fatal. Later persist failures are returned wrapped in
// [shared.ErrPersistence] and leave the in-memory state as mutated.
package catalog
