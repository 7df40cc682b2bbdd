// Package pathmgr resolves URI-style paths through registered handlers.
//
// A Manager holds an explicit prefix -> Handler table; the longest
// matching prefix wins and unmatched paths fall back to the local
// filesystem handler. The HTTP handler downloads remote files once into
// a local cache and serves the cached copy afterwards:
//
//	m := pathmgr.NewManager()
//	m.Register(pathmgr.NewHTTPHandler(pathmgr.HTTPConfig{}), false)
//	local, err := m.LocalPath(ctx, "https://example.com/weights.bin")
package pathmgr
