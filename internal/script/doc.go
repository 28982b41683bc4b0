// Package script drives an editor from Lua.
//
// A State is a sandboxed gopher-lua runtime with the io, os, debug and
// package libraries left closed and the file loaders removed. Binding it to
// an editor installs the global inkwell table:
//
//	inkwell.load(html)            replace the content with sanitized markup
//	inkwell.select(a, b)          select normalized characters [a, b)
//	inkwell.select_text(s)        select the first occurrence of s
//	inkwell.apply(style[, href])  toggle a formatting operation
//	inkwell.can(style)            report whether style applies
//	inkwell.active(style)         report whether style is applied
//	inkwell.paste(html)           insert markup at the selection
//	inkwell.undo() / redo()
//	inkwell.html() / text()
//
// apply also accepts an options table as its second argument:
//
//	inkwell.apply("h1", {toggle = false})
//	inkwell.apply("link", {href = "example.com"})
//
// Errors raised by the editor surface as Lua errors, so scripts can guard
// with pcall. Execution honors the context passed to Run and is bounded by
// the state's timeout.
package script
