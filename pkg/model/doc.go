// Package model defines the typed form model derived from a canvas layout.
// Builders reside in internal/model but return the types defined here.
//
// Fields are emitted in reading order (top to bottom, then left to right) and
// named after their labels ("Email Address" becomes "email_address", repeats
// get a numeric suffix). Canvas validation rules map onto canonical
// identifiers (min/max, minLength/maxLength, pattern, format) with string
// parameters so exporters and renderers can keep deterministic JSON
// snapshots. Each field and block carries its canvas geometry under the
// `layout.*` metadata keys; `layout.order` interleaves fields and blocks.
package model
