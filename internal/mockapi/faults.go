package mockapi

import (
	"net/http"
	"sync"
	"time"
)

// Fault overrides the response of matching requests.
type Fault struct {
	// Status and Error form the error response. A zero Status only delays.
	Status  int
	Error   string
	Details string
	// Delay is applied before responding (or before the real handler when
	// Status is zero). It ends early if the client goes away.
	Delay time.Duration
	// Times limits how many requests the fault applies to; 0 means all.
	Times int
}

type faults struct {
	mu    sync.Mutex
	rules map[string]*Fault
	hits  map[string]int
}

func newFaults() *faults {
	return &faults{
		rules: make(map[string]*Fault),
		hits:  make(map[string]int),
	}
}

func faultKey(method, path string) string {
	return method + " " + path
}

// take returns the fault for a request, consuming one use.
func (f *faults) take(method, path string) (Fault, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := faultKey(method, path)
	f.hits[key]++

	rule, ok := f.rules[key]
	if !ok {
		return Fault{}, false
	}
	out := *rule
	if rule.Times > 0 {
		rule.Times--
		if rule.Times == 0 {
			delete(f.rules, key)
		}
	}
	return out, true
}

func (f *faults) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fault, ok := f.take(r.Method, r.URL.Path)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		if fault.Delay > 0 {
			select {
			case <-time.After(fault.Delay):
			case <-r.Context().Done():
				return
			}
		}
		if fault.Status == 0 {
			next.ServeHTTP(w, r)
			return
		}
		if fault.Status == http.StatusUnauthorized && fault.Error == "" {
			writeJWTError(w, "Token has expired")
			return
		}
		writeErrorWithDetails(w, fault.Status, fault.Error, fault.Details)
	})
}

// InjectFault makes requests to method and the full URL path (for example
// "PUT", "/api/projects/3") fail or stall as described by fault.
func (s *Server) InjectFault(method, path string, fault Fault) {
	s.faults.mu.Lock()
	defer s.faults.mu.Unlock()
	f := fault
	s.faults.rules[faultKey(method, path)] = &f
}

// ClearFaults removes all injected faults.
func (s *Server) ClearFaults() {
	s.faults.mu.Lock()
	defer s.faults.mu.Unlock()
	s.faults.rules = make(map[string]*Fault)
}

// Hits returns how many requests reached method and path.
func (s *Server) Hits(method, path string) int {
	s.faults.mu.Lock()
	defer s.faults.mu.Unlock()
	return s.faults.hits[faultKey(method, path)]
}

// RevokeToken invalidates one bearer token.
func (s *Server) RevokeToken(token string) {
	s.state.revokeToken(token)
}

// RevokeAllTokens invalidates every issued token.
func (s *Server) RevokeAllTokens() {
	s.state.revokeAll()
}

// CreateUser registers an account directly and returns it with a token.
func (s *Server) CreateUser(username, email, password, fullName string) (string, bool) {
	u, ok := s.state.createAccount(username, email, password, fullName)
	if !ok {
		return "", false
	}
	return s.state.issueToken(u.ID), true
}
