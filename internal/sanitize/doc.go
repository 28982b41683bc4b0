// Package sanitize normalizes a subtree to the whitelisted markup model.
//
// Clean runs six passes in a fixed order:
//
//  1. strip attributes (href on anchors and the pseudo-selection marker
//     survive; anchors left without an href are unwrapped in step 3)
//  2. collapse line breaks: <br><br> splits a paragraph, trailing and
//     orphaned breaks go
//  3. unwrap elements outside the whitelist, dropping comments and
//     script-like content
//  4. wrap orphaned inline runs at the root in the default block
//  5. keep blocks at the root: hoist misplaced blocks, unwrap paragraphs in
//     list items, blockquotes and headings
//  6. prune nodes without meaningful text, then merge adjacent inline
//     elements with the same tag and attributes
//
// Clean never fails; whatever shape it is given is coerced. Running it twice
// gives the same tree as running it once.
package sanitize
