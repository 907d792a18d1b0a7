// Package changelog renders dated change summaries and inserts them into the
// changelog section of a README.
//
// This package implements:
//   - A fixed markdown template for one entry (Render)
//   - Newest-first insertion under a "## Changelog" heading (InsertEntry)
//   - A single atomic README update (UpdateFile)
//   - A terminal preview of the rendered entry (FormatPreview)
//
// InsertEntry never changes a byte outside its insertion point, so inserting
// twice leaves the first entry's text intact below the second.
package changelog
