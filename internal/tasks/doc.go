// Package tasks implements the tag-driven rename operations and the directory scan.
//
// # Filename Model
//
// A tagged image is named "<base> @tag1 @tag2<ext>", where the extension runs from the last "."
// to the end of the name. Tags are compared without regard to case.
//
// # Core Operations
//
// [RenameEngine] owns every rename:
//
//  1. [RenameEngine.Apply] : add tags to the record and append their markers to the name
//  2. [RenameEngine.Delete] : remove tags from the record and strip their markers from the name
//  3. [RenameEngine.Retag] : apply the selected tags and delete the other known tags
//  4. [RenameEngine.RevertTo] : reach the tag state encoded in a previous name
//
// Each operation renames the file at most once per phase and only when the computed name differs.
// A target that already exists is refused with [shared.ErrNameCollision]. A failed rename leaves the
// name, path and history untouched and returns a [RenameError]; tag set changes made before the
// rename are kept.
//
// # Observers
//
// After a successful rename every [Observer] is called synchronously with a [models.RenameEvent].
// [RenameLog] appends "old >>> new" to the rename log and [catalog.HistoryStore] rewrites the
// history. Observer errors go to the engine's [Reporter] and never undo the rename.
//
// # Progress Reporting
//
// [Scanner.Scan] and [Thumbnails] emit [ProgressUpdate] values on an optional channel. Sends never
// block; updates are dropped when the channel is full.
package tasks
