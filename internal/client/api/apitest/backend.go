// Package apitest runs an in-memory imitation of the SAS backend for tests.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Resources served by the backend, by path segment.
var Resources = []string{"cere", "certl", "exportateur", "transitaire", "produit", "poste"}

// refFields maps multipart "<field>_id" values of a certificate to the
// resource the reference is resolved against.
var refFields = map[string]string{
	"exportateur":      "exportateur",
	"transitaire":      "transitaire",
	"produit":          "produit",
	"emis_a":           "poste",
	"operateur_minier": "exportateur",
	"destinateur":      "exportateur",
}

type Record = map[string]any

// Backend is a fake of the REST API mounted under /api/.
type Backend struct {
	Server *httptest.Server

	mu          sync.Mutex
	users       map[string]string
	access      map[string]bool // token -> still valid
	refresh     map[string]bool
	records     map[string][]Record
	nextID      int64
	forbidden   map[string]bool
	failing     map[string]int
	failRefresh bool
	requests    map[string]int
	refreshes   int
}

func NewBackend() *Backend {
	b := &Backend{
		users:     map[string]string{},
		access:    map[string]bool{},
		refresh:   map[string]bool{},
		records:   map[string][]Record{},
		forbidden: map[string]bool{},
		failing:   map[string]int{},
		requests:  map[string]int{},
	}
	b.Server = httptest.NewServer(b.routes())
	return b
}

func (b *Backend) Close() { b.Server.Close() }

// URL is the API base URL, with trailing slash.
func (b *Backend) URL() string { return b.Server.URL + "/api/" }

func (b *Backend) AddUser(username, password string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[username] = password
}

// Seed stores records under resource, assigning ids to those without one.
func (b *Backend) Seed(resource string, records ...Record) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range records {
		rec := Record{}
		for k, v := range r {
			rec[k] = v
		}
		if _, ok := rec["id"]; !ok {
			b.nextID++
			rec["id"] = b.nextID
		}
		b.nextID = max(b.nextID, recordID(rec))
		b.records[resource] = append(b.records[resource], rec)
	}
}

// Records returns a copy of the stored records of resource.
func (b *Backend) Records(resource string) []Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Record(nil), b.records[resource]...)
}

// ExpireAccessTokens invalidates every issued access token.
func (b *Backend) ExpireAccessTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for t := range b.access {
		b.access[t] = false
	}
}

func (b *Backend) RevokeRefreshTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failRefresh = true
}

// Forbid answers 403 for every request on resource.
func (b *Backend) Forbid(resource string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.forbidden[resource] = true
}

// FailNext makes the next n requests on resource answer 500.
func (b *Backend) FailNext(resource string, n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failing[resource] = n
}

// Requests counts requests by "METHOD /path/".
func (b *Backend) Requests(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[key]
}

func (b *Backend) RefreshCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refreshes
}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(b.count)
	r.Route("/api", func(r chi.Router) {
		r.Post("/token/", b.login)
		r.Post("/token/refresh/", b.refreshToken)

		r.Group(func(r chi.Router) {
			r.Use(b.authenticate)
			for _, name := range Resources {
				r.Route("/"+name, func(r chi.Router) {
					r.Use(b.guard(name))
					r.Get("/", b.list(name))
					r.Post("/", b.create(name))
					r.Get("/{id}/", b.get(name))
					r.Put("/{id}/", b.update(name))
					r.Delete("/{id}/", b.remove(name))
				})
			}
		})
	})
	return r
}

func (b *Backend) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests[r.Method+" "+r.URL.Path]++
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *Backend) issueAccess(username string) string {
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"token_type": "access",
		"username":   username,
		"user_id":    1,
		"jti":        uuid.NewString(),
		"exp":        time.Now().Add(5 * time.Minute).Unix(),
	}).SignedString([]byte("apitest"))
	b.access[tok] = true
	return tok
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, Record{"detail": "malformed body"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if pw, ok := b.users[in.Username]; !ok || pw != in.Password {
		writeJSON(w, http.StatusUnauthorized, Record{"detail": "No active account found with the given credentials"})
		return
	}
	refresh := uuid.NewString()
	b.refresh[refresh] = true
	writeJSON(w, http.StatusOK, Record{"access": b.issueAccess(in.Username), "refresh": refresh})
}

func (b *Backend) refreshToken(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Refresh string `json:"refresh"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.refreshes++
	if b.failRefresh || !b.refresh[in.Refresh] {
		writeJSON(w, http.StatusUnauthorized, Record{"detail": "Token is invalid or expired", "code": "token_not_valid"})
		return
	}
	writeJSON(w, http.StatusOK, Record{"access": b.issueAccess("refreshed")})
}

func (b *Backend) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, Record{"detail": "Authentication credentials were not provided."})
			return
		}
		b.mu.Lock()
		valid, known := b.access[token]
		b.mu.Unlock()
		if !known || !valid {
			writeJSON(w, http.StatusUnauthorized, Record{
				"detail": "Given token not valid for any token type",
				"code":   "token_not_valid",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) guard(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b.mu.Lock()
			forbidden := b.forbidden[name]
			failing := b.failing[name] > 0
			if failing {
				b.failing[name]--
			}
			b.mu.Unlock()

			switch {
			case forbidden:
				writeJSON(w, http.StatusForbidden, Record{"detail": "You do not have permission to perform this action."})
			case failing:
				writeJSON(w, http.StatusInternalServerError, Record{"detail": "Internal server error"})
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func (b *Backend) list(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := b.Records(name)
		q := r.URL.Query()
		if q.Get("page_size") == "" {
			writeJSON(w, http.StatusOK, items)
			return
		}

		size, _ := strconv.Atoi(q.Get("page_size"))
		if size <= 0 {
			size = 10
		}
		page, _ := strconv.Atoi(q.Get("page"))
		if page <= 0 {
			page = 1
		}
		start := min((page-1)*size, len(items))
		end := min(start+size, len(items))

		var next any
		if end < len(items) {
			nq := r.URL.Query()
			nq.Set("page", strconv.Itoa(page+1))
			next = b.Server.URL + r.URL.Path + "?" + nq.Encode()
		}
		writeJSON(w, http.StatusOK, Record{"count": len(items), "next": next, "previous": nil, "results": items[start:end]})
	}
}

func (b *Backend) find(name string, id int64) (int, bool) {
	for i, rec := range b.records[name] {
		if recordID(rec) == id {
			return i, true
		}
	}
	return 0, false
}

func recordID(rec Record) int64 {
	switch v := rec["id"].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id
}

func (b *Backend) get(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		i, ok := b.find(name, pathID(r))
		if !ok {
			writeJSON(w, http.StatusNotFound, Record{"detail": "Not found."})
			return
		}
		writeJSON(w, http.StatusOK, b.records[name][i])
	}
}

func (b *Backend) create(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := b.decode(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, Record{"detail": err.Error()})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if dup := b.duplicateNumber(name, rec, 0); dup != "" {
			writeJSON(w, http.StatusBadRequest, Record{dup: []string{"already exists."}})
			return
		}
		b.nextID++
		rec["id"] = b.nextID
		b.resolveRefs(rec)
		b.records[name] = append(b.records[name], rec)
		writeJSON(w, http.StatusCreated, rec)
	}
}

func (b *Backend) update(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := b.decode(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, Record{"detail": err.Error()})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		id := pathID(r)
		i, ok := b.find(name, id)
		if !ok {
			writeJSON(w, http.StatusNotFound, Record{"detail": "Not found."})
			return
		}
		if dup := b.duplicateNumber(name, rec, id); dup != "" {
			writeJSON(w, http.StatusBadRequest, Record{dup: []string{"already exists."}})
			return
		}
		rec["id"] = id
		b.resolveRefs(rec)
		if _, ok := rec["scan"]; !ok {
			if old, ok := b.records[name][i]["scan"]; ok {
				rec["scan"] = old
			}
		}
		b.records[name][i] = rec
		writeJSON(w, http.StatusOK, rec)
	}
}

func (b *Backend) remove(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		i, ok := b.find(name, pathID(r))
		if !ok {
			writeJSON(w, http.StatusNotFound, Record{"detail": "Not found."})
			return
		}
		b.records[name] = append(b.records[name][:i], b.records[name][i+1:]...)
		w.WriteHeader(http.StatusNoContent)
	}
}

// decode reads a JSON body or a multipart form into a record.
func (b *Backend) decode(r *http.Request) (Record, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			return nil, err
		}
		rec := Record{}
		keys := make([]string, 0, len(r.MultipartForm.Value))
		for k := range r.MultipartForm.Value {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			rec[k] = r.MultipartForm.Value[k][0]
		}
		if files := r.MultipartForm.File["scan"]; len(files) > 0 {
			rec["scan"] = "/media/scans/" + files[0].Filename
		}
		return rec, nil
	}

	var rec Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("malformed body: %w", err)
	}
	return rec, nil
}

// resolveRefs replaces "<field>_id" values by the nested referenced record.
// Callers hold b.mu.
func (b *Backend) resolveRefs(rec Record) {
	for field, resource := range refFields {
		raw, ok := rec[field+"_id"]
		if !ok {
			continue
		}
		delete(rec, field+"_id")
		id, _ := strconv.ParseInt(fmt.Sprint(raw), 10, 64)
		if i, found := b.find(resource, id); found {
			rec[field] = b.records[resource][i]
		} else {
			rec[field] = nil
		}
	}
}

// duplicateNumber reports the number field of rec that another record of
// name already uses. Callers hold b.mu.
func (b *Backend) duplicateNumber(name string, rec Record, selfID int64) string {
	field := map[string]string{"cere": "numero_cere", "certl": "numero_certificat"}[name]
	if field == "" || rec[field] == nil || rec[field] == "" {
		return ""
	}
	for _, other := range b.records[name] {
		if recordID(other) != selfID && other[field] == rec[field] {
			return field
		}
	}
	return ""
}
