// Package repositories implements the persistence backends for the tag and history stores.
//
// Every backend implements [models.Collection] and persists the whole collection on each Save:
//   - [JSONFile] : one JSON document per collection, replaced via temp file + rename (driver "file")
//   - [TagRepository], [ImageRepository] : SQLite tables rewritten inside one transaction (driver "sqlite")
//   - [BadgerCollection] : a JSON snapshot under a single key of a badger database (driver "badger")
//
// [Open] selects a backend from [shared.Config] and returns both collections as a [Backend].
package repositories
