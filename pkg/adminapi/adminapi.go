// Package adminapi implements the rule-store collaborator surface spec.md
// leaves unspecified ("how rules are authored and uploaded is not this
// spec's concern"): a GET/PUT JSON endpoint over the client rule store, plus
// optional file-based import/export for a developer's rule set.
package adminapi

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/devproxy/rewriteproxy/internal/ruleset"
	"github.com/devproxy/rewriteproxy/pkg/rule"
	"github.com/devproxy/rewriteproxy/pkg/util"
	"gopkg.in/yaml.v3"
)

// Handler serves GET/PUT /api/rules?clientId=X.
type Handler struct {
	store   *ruleset.Store
	baseDir string // when non-empty, every accepted PUT is also snapshotted to disk
}

// New creates a rule-admin Handler over store. When baseDir is non-empty,
// a successful PUT also writes the client's rule list to
// "<baseDir>/<clientId>.json" as a convenience snapshot (spec.md §9
// "Single-process rule store" — the in-memory core stays non-persistent,
// but a collaborator may still keep a durable copy). A write failure is
// ignored rather than failing the request: the in-memory store is the
// authority the matcher reads from, and the snapshot is only a convenience.
func New(store *ruleset.Store, baseDir string) *Handler {
	return &Handler{store: store, baseDir: baseDir}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("clientId")
	if clientID == "" {
		writeJSONError(w, http.StatusBadRequest, "clientId query parameter is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, clientID)
	case http.MethodPut:
		h.handlePut(w, r, clientID)
	case http.MethodDelete:
		h.store.Delete(clientID)
		w.WriteHeader(http.StatusNoContent)
	default:
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, clientID string) {
	rules := h.store.Get(clientID)
	if rules == nil {
		rules = rule.RuleList{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rules)
}

func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request, clientID string) {
	var rules rule.RuleList
	if err := json.NewDecoder(r.Body).Decode(&rules); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed rule list: "+err.Error())
		return
	}

	// Store.Put validates the whole list and rejects it wholesale rather
	// than applying a partially valid set.
	if err := h.store.Put(clientID, rules); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if h.baseDir != "" {
		_ = ExportToFile(h.store, h.baseDir, clientID, clientID+".json")
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportToFile writes a client's current rule list to a JSON or YAML file
// under baseDir, selected by the file extension. Rejects any path that
// escapes baseDir.
func ExportToFile(store *ruleset.Store, baseDir, clientID, relPath string) error {
	safePath, ok := util.SafeFilePath(relPath)
	if !ok {
		return os.ErrInvalid
	}
	full := filepath.Join(baseDir, safePath)

	data, err := marshalRules(full, store.Get(clientID))
	if err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o600)
}

// ImportFromFile reads a rule list from a JSON or YAML file under baseDir
// and atomically replaces clientID's rules.
func ImportFromFile(store *ruleset.Store, baseDir, clientID, relPath string) error {
	safePath, ok := util.SafeFilePath(relPath)
	if !ok {
		return os.ErrInvalid
	}
	full := filepath.Join(baseDir, safePath)

	data, err := os.ReadFile(full)
	if err != nil {
		return err
	}

	var rules rule.RuleList
	if isYAMLPath(full) {
		err = yaml.Unmarshal(data, &rules)
	} else {
		err = json.Unmarshal(data, &rules)
	}
	if err != nil {
		return err
	}
	return store.Put(clientID, rules)
}

func marshalRules(path string, rules rule.RuleList) ([]byte, error) {
	if isYAMLPath(path) {
		return yaml.Marshal(rules)
	}
	return json.MarshalIndent(rules, "", "  ")
}

func isYAMLPath(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
