// Package script runs user Lua snippets in a restricted interpreter.
//
// A State opens only the base, table, string and math libraries and removes
// the loaders that could read arbitrary files. Each call is bounded by an
// execution timeout enforced through the interpreter's context.
//
// User scripts customize behavior such as image file naming:
//
//	function filename(docpath)
//	  return inklink.dirname(docpath) .. "/figures/" .. inklink.uuid() .. ".svg"
//	end
//
// gopher-lua states are not goroutine-safe; State serializes access with a
// mutex.
package script
