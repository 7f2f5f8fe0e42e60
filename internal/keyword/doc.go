// Package keyword discovers callable actions on devices, device managers,
// and use-case modules, and dispatches keyword calls to them.
//
// Discovery walks each registered source once: methods become keywords
// under the source's prefix, and non-scalar component fields (nbi, gui,
// sw, hw style sub-objects) contribute their methods one level deep under
// an extended prefix. Keyword names are produced by the naming package so
// protocol abbreviations like GPV keep their casing.
//
// The Router is the dispatch surface: it memoizes the discovery pass,
// resolves keyword names case-insensitively, re-binds lazily resolved
// sources on every call, and offers two generic keywords (Call Device
// Method, Call Component Method) that reach members by name without going
// through discovery at all.
package keyword
