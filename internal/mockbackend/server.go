// Package mockbackend is an in-memory stand-in for the hosted backend. It
// serves the same auth and table endpoints the gateway talks to, so the app
// can run locally and in tests without a real project.
package mockbackend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"encore-rentals/internal/logger"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type Config struct {
	APIKey string
	// ServiceKey is accepted wherever APIKey is. Empty disables it.
	ServiceKey string
	JWTSecret string
	// AutoConfirm issues a session straight from sign-up. When false, sign-up
	// answers without a session until ConfirmEmail is called.
	AutoConfirm bool
	TokenTTL    time.Duration
}

type Server struct {
	cfg    Config
	tokens *tokenIssuer

	mu       sync.RWMutex
	tables   map[string][]map[string]any
	accounts map[string]*account // by lower-cased email
}

func New(cfg Config) *Server {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	return &Server{
		cfg: cfg,
		tokens: &tokenIssuer{
			secret: []byte(cfg.JWTSecret),
			ttl:    cfg.TokenTTL,
			now:    time.Now,
		},
		tables:   make(map[string][]map[string]any),
		accounts: make(map[string]*account),
	}
}

// Router returns the HTTP routes of the backend.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requireAPIKey)

	r.HandleFunc("/auth/v1/signup", s.handleSignUp).Methods(http.MethodPost)
	r.HandleFunc("/auth/v1/token", s.handleToken).Methods(http.MethodPost)

	rest := r.PathPrefix("/rest/v1").Subrouter()
	rest.Use(s.checkBearer)
	rest.HandleFunc("/{table}", s.handleSelect).Methods(http.MethodGet)
	rest.HandleFunc("/{table}", s.handleInsert).Methods(http.MethodPost)
	rest.HandleFunc("/{table}", s.handleUpdate).Methods(http.MethodPatch)

	return r
}

// Seed appends rows to a table, assigning ids where missing.
func (s *Server) Seed(table string, rows ...map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		s.tables[table] = append(s.tables[table], s.prepareRow(row))
	}
}

// SeedRecords seeds table from a slice of JSON-tagged structs.
func (s *Server) SeedRecords(table string, records any) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	s.Seed(table, rows...)
	return nil
}

// Rows returns a copy of every row currently stored in table.
func (s *Server) Rows(table string) []map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]map[string]any, 0, len(s.tables[table]))
	for _, row := range s.tables[table] {
		out = append(out, copyRow(row))
	}
	return out
}

func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("apikey")
		if key != s.cfg.APIKey && (s.cfg.ServiceKey == "" || key != s.cfg.ServiceKey) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid API key"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearer rejects bad tokens. Requests without one run as anonymous.
func (s *Server) checkBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			next.ServeHTTP(w, r)
			return
		}
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid authorization header format"})
			return
		}
		if _, err := s.tokens.validate(token); err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": err.Error()})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	table := mux.Vars(r)["table"]
	q, err := parseQuery(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	s.mu.RLock()
	matched := make([]map[string]any, 0)
	for _, row := range s.tables[table] {
		if q.matches(row) {
			matched = append(matched, copyRow(row))
		}
	}
	s.mu.RUnlock()

	q.sort(matched)
	if q.limit >= 0 && len(matched) > q.limit {
		matched = matched[:q.limit]
	}
	writeJSON(w, http.StatusOK, matched)
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	table := mux.Vars(r)["table"]
	rows, err := decodeRows(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	s.mu.Lock()
	created := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		row = s.prepareRow(row)
		if col, dup := s.duplicate(table, row, created); dup {
			s.mu.Unlock()
			writeJSON(w, http.StatusConflict, map[string]string{
				"code":    "23505",
				"message": fmt.Sprintf("duplicate key value violates unique constraint \"%s_%s_key\"", table, col),
			})
			return
		}
		created = append(created, row)
	}
	s.tables[table] = append(s.tables[table], created...)
	for i, row := range created {
		created[i] = copyRow(row)
	}
	s.mu.Unlock()

	logger.Debug("mock backend insert", "table", table, "rows", len(created))
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	table := mux.Vars(r)["table"]
	q, err := parseQuery(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	if len(q.conds) == 0 && len(q.ors) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "UPDATE requires a WHERE clause"})
		return
	}

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON body"})
		return
	}
	delete(patch, "id")

	s.mu.Lock()
	updated := make([]map[string]any, 0)
	for _, row := range s.tables[table] {
		if !q.matches(row) {
			continue
		}
		for k, v := range patch {
			row[k] = v
		}
		row["updated_at"] = time.Now().UTC().Format(time.RFC3339)
		updated = append(updated, copyRow(row))
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, updated)
}

// uniqueColumns lists the columns each table keeps unique besides id.
var uniqueColumns = map[string][]string{
	"reviews": {"rental_id"},
}

// duplicate reports the first unique column of row already taken in table or
// in pending. Callers hold s.mu.
func (s *Server) duplicate(table string, row map[string]any, pending []map[string]any) (string, bool) {
	cols := append([]string{"id"}, uniqueColumns[table]...)
	for _, col := range cols {
		v, ok := row[col]
		if !ok || v == nil {
			continue
		}
		for _, rows := range [][]map[string]any{s.tables[table], pending} {
			for _, existing := range rows {
				if stringify(existing[col]) == stringify(v) {
					return col, true
				}
			}
		}
	}
	return "", false
}

func (s *Server) prepareRow(row map[string]any) map[string]any {
	row = copyRow(row)
	if id, ok := row["id"]; !ok || id == nil || id == "" {
		row["id"] = uuid.NewString()
	}
	if _, ok := row["created_at"]; !ok {
		row["created_at"] = time.Now().UTC().Format(time.RFC3339)
	}
	return row
}

func decodeRows(r *http.Request) ([]map[string]any, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, errors.New("invalid JSON body")
	}
	if len(raw) > 0 && raw[0] == '[' {
		var rows []map[string]any
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, errors.New("invalid JSON body")
		}
		return rows, nil
	}
	var row map[string]any
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, errors.New("invalid JSON body")
	}
	return []map[string]any{row}, nil
}

func copyRow(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode mock backend response", "error", err)
	}
}
