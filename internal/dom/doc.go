// Package dom provides the node, range and selection primitives inkwell
// edits with.
//
// Trees are plain *html.Node trees from golang.org/x/net/html. A Point is a
// boundary inside a container: for text nodes the offset counts runes, for
// any other node it counts children. A Document pairs an editable root with
// a Selection and offers mutators that keep the selection's points live
// across structural edits, the way a browser adjusts live ranges.
//
// The package also defines the normalized text space used to address
// content independently of tree shape. Whitespace runs (newlines included)
// collapse to one space; a leading run is dropped when the previous sibling
// is a block or <br>, a trailing run when the next sibling is. Text inside
// <pre> is left as is.
package dom
