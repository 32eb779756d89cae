// Command stubapi is a development stand-in for the real HRM API: a
// handful of bcrypt-hashed demo accounts, cookie sessions, and canned
// resource data. It exists so the portal can be exercised end to end
// without the production backend.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const sessionCookie = "hrm_session"

type account struct {
	ID           string
	Email        string
	Name         string
	Role         string
	PasswordHash []byte
	// Deliberately mixed shapes: the portal must normalize strings and
	// code/name objects alike.
	Permissions []any
}

type stub struct {
	mu       sync.Mutex
	accounts map[string]*account
	sessions map[string]string
}

func newStub() *stub {
	hash := func(password string) []byte {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash seed password: %v", err)
		}
		return hashed
	}

	accounts := []*account{
		{
			ID: "u-admin", Email: "admin@example.com", Name: "Avery Admin", Role: "admin",
			PasswordHash: hash("admin123"),
			Permissions: []any{
				"manage_employees", "manage_users", "manage_roles", "manage_permissions",
				"manage_contracts", "manage_attendance", "manage_leave", "approve_leave",
				"manage_overtime", "manage_payroll", "view_payslips", "view_audit",
			},
		},
		{
			ID: "u-hr", Email: "hr@example.com", Name: "Holly Rivers", Role: "hr",
			PasswordHash: hash("hr123456"),
			Permissions: []any{
				map[string]string{"code": "manage_employees", "name": "Employees"},
				map[string]string{"code": "manage_contracts", "name": "Contracts"},
				map[string]string{"code": "manage_leave", "name": "Leave"},
				map[string]string{"code": "approve_leave", "name": "Leave Approval"},
				map[string]string{"name": "Manage_Attendance"},
				"view_payslips",
			},
		},
		{
			ID: "u-emp", Email: "employee@example.com", Name: "Enid Park", Role: "employee",
			PasswordHash: hash("emp123456"),
			Permissions:  []any{"checkin_checkout", "view_payslips"},
		},
	}

	byEmail := map[string]*account{}
	for _, acct := range accounts {
		byEmail[acct.Email] = acct
	}
	return &stub{accounts: byEmail, sessions: map[string]string{}}
}

func (s *stub) identity(acct *account) map[string]any {
	return map[string]any{
		"id":          acct.ID,
		"email":       acct.Email,
		"name":        acct.Name,
		"role":        acct.Role,
		"permissions": acct.Permissions,
	}
}

func (s *stub) authenticated(r *http.Request) *account {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}
	s.mu.Lock()
	email, ok := s.sessions[cookie.Value]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return s.accounts[email]
}

func (s *stub) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		failJSON(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	acct := s.accounts[body.Email]
	if acct == nil || bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(body.Password)) != nil {
		failJSON(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = acct.Email
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: token, Path: "/", HttpOnly: true})
	writeJSON(w, http.StatusOK, s.identity(acct))
}

func (s *stub) handleMe(w http.ResponseWriter, r *http.Request) {
	acct := s.authenticated(r)
	if acct == nil {
		failJSON(w, http.StatusUnauthorized, "unauthenticated")
		return
	}
	writeJSON(w, http.StatusOK, s.identity(acct))
}

func (s *stub) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		s.mu.Lock()
		delete(s.sessions, cookie.Value)
		s.mu.Unlock()
	}
	w.WriteHeader(http.StatusNoContent)
}

// canned serves a fixed collection for any authenticated list call and
// echoes creations back with a fresh ID. Enough behavior for portal
// development; nothing here persists.
func (s *stub) canned(collection []map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.authenticated(r) == nil {
			failJSON(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, collection)
		case http.MethodPost:
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body == nil {
				body = map[string]any{}
			}
			body["id"] = uuid.NewString()
			writeJSON(w, http.StatusOK, body)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			failJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func failJSON(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func main() {
	addr := flag.String("addr", ":9090", "listen address")
	flag.Parse()

	s := newStub()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/v1/auth/me", s.handleMe)
	mux.HandleFunc("POST /api/v1/auth/logout", s.handleLogout)

	mux.Handle("/api/v1/employees", s.canned([]map[string]any{
		{"id": "e1", "firstName": "Enid", "lastName": "Park", "email": "employee@example.com", "position": "Engineer", "department": "R&D", "active": true},
		{"id": "e2", "firstName": "Holly", "lastName": "Rivers", "email": "hr@example.com", "position": "HR Manager", "department": "People", "active": true},
	}))
	mux.Handle("/api/v1/users", s.canned([]map[string]any{
		{"id": "u-admin", "email": "admin@example.com", "name": "Avery Admin", "roles": []string{"admin"}, "active": true},
	}))
	mux.Handle("/api/v1/roles", s.canned([]map[string]any{
		{"id": "r1", "name": "admin", "permissions": []string{"manage_users", "manage_roles"}},
	}))
	mux.Handle("/api/v1/permissions", s.canned([]map[string]any{
		{"id": "p1", "code": "manage_employees", "name": "Employees"},
		{"id": "p2", "code": "manage_users", "name": "User Accounts"},
	}))
	mux.Handle("/api/v1/contracts", s.canned(nil))
	mux.Handle("/api/v1/attendance", s.canned(nil))
	mux.Handle("/api/v1/leave", s.canned(nil))
	mux.Handle("/api/v1/overtime", s.canned(nil))
	mux.Handle("/api/v1/payroll/periods", s.canned(nil))
	mux.Handle("/api/v1/payroll/payslips", s.canned([]map[string]any{
		{"id": "ps1", "employeeId": "e1", "employeeName": "Enid Park", "email": "employee@example.com",
			"periodStart": "2026-08-01", "periodEnd": "2026-08-31", "gross": 4200.0, "deductions": 900.0, "net": 3300.0, "currency": "EUR"},
	}))

	log.Printf("stub HRM API listening on %s", *addr)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		log.Fatalf("stubapi failed: %v", err)
	}
}
