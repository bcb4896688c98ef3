package constant

// ScriptTemplate is a text/template for scaffolding Lua backend scripts.
// Every operation is stubbed out; delete the functions the backend should
// not support.
const ScriptTemplate = `{{ $divider := repeat "-" (plus (max (len .Name) (len .Author) 3) 12) }}{{ $divider }}
-- @name    {{ .Name }}
-- @author  {{ .Author }}
-- @license MIT
{{ $divider }}

-- Every global function named after an operation is exposed by the
-- backend. Operations without a function fail with "no such method".
--
-- Reads return nil when the path does not exist.
-- Raise error(...) to report a failure.

---@alias entry { name: string, isDirectory: boolean|nil, isFile: boolean|nil, isSymlink: boolean|nil }


----- MAIN -----
{{ range .Functions }}
{{ . }}
{{ end }}
--- END MAIN ---

-- ex: ts=4 sw=4 et filetype=lua
`

// ScriptFunctions holds the stub of every operation function, in operation order.
var ScriptFunctions = map[string]string{
	"text": `--- Reads a file as text.
-- @param path string
-- @return string|nil
function text(path)
	return nil
end`,
	"json": `--- Reads a file as JSON. May return a table or JSON text.
-- @param path string
-- @return table|string|nil
function json(path)
	return nil
end`,
	"bytes": `--- Reads a file as raw bytes.
-- @param path string
-- @return string|nil
function bytes(path)
	return nil
end`,
	"arrayBuffer": `--- Deprecated alias of bytes.
-- @param path string
-- @return string|nil
function arrayBuffer(path)
	return bytes(path)
end`,
	"write": `--- Writes data to a file.
-- @param path string
-- @param data string
function write(path, data)
	error("not implemented")
end`,
	"isFile": `--- @param path string
-- @return boolean
function isFile(path)
	return false
end`,
	"isDirectory": `--- @param path string
-- @return boolean
function isDirectory(path)
	return false
end`,
	"createDirectory": `--- Creates a directory and its parents.
-- @param path string
function createDirectory(path)
	error("not implemented")
end`,
	"delete": `--- Deletes a file or an empty directory.
-- @param path string
function delete(path)
	error("not implemented")
end`,
	"deleteAll": `--- Deletes a path recursively.
-- @param path string
function deleteAll(path)
	error("not implemented")
end`,
	"list": `--- Lists a directory.
-- @param path string
-- @return entry[]
function list(path)
	return {}
end`,
	"size": `--- @param path string
-- @return number|nil
function size(path)
	return nil
end`,
	"copy": `--- Copies a file.
-- @param src string
-- @param dst string
function copy(src, dst)
	error("not implemented")
end`,
	"copyAll": `--- Copies a file or a directory tree.
-- @param src string
-- @param dst string
function copyAll(src, dst)
	error("not implemented")
end`,
	"move": `--- Moves a file.
-- @param src string
-- @param dst string
function move(src, dst)
	error("not implemented")
end`,
}
