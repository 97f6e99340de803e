// Package sprite maps card-back and stake names to their rectangles in the
// two fixed sprite atlases.
//
// Both functions are pure: a name and a display scale always yield the same
// rectangle. Unknown names fall back to DefaultCardBack and DefaultStake.
package sprite
