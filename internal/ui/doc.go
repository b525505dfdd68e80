// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for tagging images below a root directory:
//  1. [ScanView] : Monitor the directory scan
//  2. [ImageListView] : Browse and filter the scanned images
//  3. [ImageView] : Toggle tags for one image, retag it or create a tag and apply it at once
//  4. [HistoryView] : Revert the image to one of its previous names
//  5. [TagsView] : Add and delete known tags
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Scan progress flows through a channel from the [tasks.Scanner]. Renames run synchronously inside Update, one user action at a time;
// their failures, and failures reported by rename observers, are shown on the status line.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
