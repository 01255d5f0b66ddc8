package rewrite

import "net/http"

// applyCORS echoes the caller's Origin back verbatim, so any developer tool
// on any origin can drive the rewrite endpoint (spec.md §4.G). Unlike the
// allowlist-based CORSMiddleware this package's predecessor used elsewhere,
// the rewrite endpoint has no notion of a trusted origin set — clientId
// scoping, not CORS, is what separates developers — so it echoes rather
// than checks against a config.
func applyCORS(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return
	}
	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Access-Control-Allow-Credentials", "true")
	w.Header().Set("Vary", "Origin")
}
