// Package models defines the domain values of the photo tagger and the persistence contract they share.
//
// The package contains:
//   - [Tag] : a case-insensitive label, encoded into filenames as " @" + name
//   - [TagSet] : an insertion-ordered, case-insensitively de-duplicated list of tags
//   - [ImageRecord] : one discovered image with its current name, tags, path and name history
//   - [Collection] : whole-collection load/save implemented by every storage backend
//
// Tag encoding follows the filename model "<base> @tag1 @tag2<ext>", where the extension runs from the
// last "." to the end of the name.
package models
