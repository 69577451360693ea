// Package itf provides an in-process fake of the TasDoneNa REST API for
// tests. It keeps users, tasks and tokens in memory and records every call.
package itf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const DefaultOTP = "123456"

type User struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	Role               string  `json:"role"`
	Status             string  `json:"status"`
	IsActive           bool    `json:"is_active"`
	EmployeeID         string  `json:"employee_id"`
	Position           string  `json:"position"`
	Division           string  `json:"division"`
	SchoolName         string  `json:"school_name"`
	RejectionReason    *string `json:"rejection_reason"`
	DeactivationReason *string `json:"deactivation_reason"`
	Remarks            *string `json:"remarks"`

	Password string `json:"-"`
	Verified bool   `json:"-"`
}

type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	Accept        string
	RequestID     string
	Body          []byte
}

// JSON decodes the recorded body into a generic map.
func (r RecordedRequest) JSON() map[string]any {
	out := map[string]any{}
	_ = json.Unmarshal(r.Body, &out)
	return out
}

type failure struct {
	status int
	body   any
	raw    string
}

type Server struct {
	*httptest.Server

	mu          sync.Mutex
	users       map[int]*User
	nextUserID  int
	tasks       map[int]map[string]any
	nextTaskID  int
	tokens      map[string]int
	otps        map[string]string
	resetTokens map[string]string
	requests    []RecordedRequest
	failures    map[string][]failure
}

// NewServer starts a fake API and closes it when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		users:       map[int]*User{},
		nextUserID:  1,
		tasks:       map[int]map[string]any{},
		nextTaskID:  1,
		tokens:      map[string]int{},
		otps:        map[string]string{},
		resetTokens: map[string]string{},
		failures:    map[string][]failure{},
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.record, s.injectFailures)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/verify-email", s.handleVerifyEmail).Methods(http.MethodPost)
	api.HandleFunc("/resend-otp", s.handleResendOTP).Methods(http.MethodPost)
	api.HandleFunc("/forgot-password", s.handleForgotPassword).Methods(http.MethodPost)
	api.HandleFunc("/reset-password", s.handleResetPassword).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(s.requireAuth)
	authed.HandleFunc("/user", s.handleUser).Methods(http.MethodGet)
	authed.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(s.requireAuth, s.requireAdmin)
	admin.HandleFunc("/pending-users", s.handlePendingUsers).Methods(http.MethodGet)
	admin.HandleFunc("/officers", s.handleOfficers).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id:[0-9]+}/approve", s.handleApprove).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id:[0-9]+}/reject", s.handleReject).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id:[0-9]+}/deactivate", s.handleDeactivate).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id:[0-9]+}/activate", s.handleActivate).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id:[0-9]+}", s.handleDeleteUser).Methods(http.MethodDelete)
	admin.HandleFunc("/tasks", s.handleListTasks).Methods(http.MethodGet)
	admin.HandleFunc("/tasks/officers", s.handleAssignableOfficers).Methods(http.MethodGet)
	admin.HandleFunc("/tasks", s.handleCreateTask).Methods(http.MethodPost)
	admin.HandleFunc("/tasks/{id:[0-9]+}", s.handleUpdateTask).Methods(http.MethodPut)
	admin.HandleFunc("/tasks/{id:[0-9]+}", s.handleDeleteTask).Methods(http.MethodDelete)
	return r
}

// AddUser stores u, assigning an id when zero. Users are verified unless
// added through /register.
func (s *Server) AddUser(u User) User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.nextUserID
	}
	if u.ID >= s.nextUserID {
		s.nextUserID = u.ID + 1
	}
	if u.Role == "" {
		u.Role = "officer"
	}
	if u.Status == "" {
		u.Status = "pending"
	}
	u.Verified = true
	cp := u
	s.users[u.ID] = &cp
	return cp
}

// AddAdmin stores an approved admin and returns it with a fresh token.
func (s *Server) AddAdmin(email, password string) (User, string) {
	u := s.AddUser(User{Name: "Admin User", Email: email, Password: password, Role: "admin", Status: "approved", IsActive: true})
	return u, s.IssueToken(u.ID)
}

func (s *Server) IssueToken(userID int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok := uuid.NewString()
	s.tokens[tok] = userID
	return tok
}

func (s *Server) User(id int) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return User{}, false
	}
	return *u, true
}

func (s *Server) AddTask(task map[string]any) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextTaskID
	s.nextTaskID++
	stored := cloneMap(task)
	stored["id"] = id
	castDates(stored)
	if _, ok := stored["status"]; !ok {
		stored["status"] = "pending"
	}
	if _, ok := stored["priority"]; !ok {
		stored["priority"] = "medium"
	}
	s.tasks[id] = stored
	return id
}

func (s *Server) Task(id int) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, false
	}
	return cloneMap(t), true
}

func (s *Server) ResetToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resetTokens[strings.ToLower(email)]
}

func (s *Server) TokenValid(tok string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tokens[tok]
	return ok
}

// FailNext makes the next call to method+path answer with status and body.
func (s *Server) FailNext(method, path string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	s.failures[key] = append(s.failures[key], failure{status: status, body: body})
}

// FailNextRaw is FailNext with a literal, possibly non-JSON, body.
func (s *Server) FailNextRaw(method, path string, status int, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	s.failures[key] = append(s.failures[key], failure{status: status, raw: raw})
}

func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// Calls counts recorded requests matching method and path.
func (s *Server) Calls(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) LastRequest(method, path string) (RecordedRequest, bool) {
	reqs := s.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method && reqs[i].Path == path {
			return reqs[i], true
		}
	}
	return RecordedRequest{}, false
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))
		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
			Accept:        r.Header.Get("Accept"),
			RequestID:     r.Header.Get("X-Request-ID"),
			Body:          body,
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		s.mu.Lock()
		queue := s.failures[key]
		var f *failure
		if len(queue) > 0 {
			f = &queue[0]
			s.failures[key] = queue[1:]
		}
		s.mu.Unlock()
		if f == nil {
			next.ServeHTTP(w, r)
			return
		}
		if f.body == nil {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(f.status)
			_, _ = io.WriteString(w, f.raw)
			return
		}
		writeJSON(w, f.status, f.body)
	})
}

type ctxUserKey struct{}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		id, ok := s.tokens[tok]
		s.mu.Unlock()
		if tok == "" || !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthenticated."})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, id)))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := s.currentUser(r)
		if !ok || u.Role != "admin" {
			writeJSON(w, http.StatusForbidden, map[string]any{"message": "Forbidden."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) currentUser(r *http.Request) (User, bool) {
	id, ok := r.Context().Value(ctxUserKey{}).(int)
	if !ok {
		return User{}, false
	}
	return s.User(id)
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	u, ok := s.currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthenticated."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)

	u, ok := s.userByEmail(in.Email)
	if !ok || u.Password != in.Password {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "The provided credentials are incorrect.",
			"errors":  map[string][]string{"email": {"Invalid credentials."}},
		})
		return
	}
	switch {
	case !u.Verified:
		writeJSON(w, http.StatusForbidden, map[string]any{"message": "Please verify your email address first.", "status": "unverified"})
		return
	case u.Status == "pending":
		writeJSON(w, http.StatusForbidden, map[string]any{"message": "Your account is pending approval.", "status": "pending"})
		return
	case u.Status == "rejected":
		body := map[string]any{"status": "rejected"}
		if u.RejectionReason != nil {
			body["reason"] = *u.RejectionReason
		}
		writeJSON(w, http.StatusForbidden, body)
		return
	case !u.IsActive:
		writeJSON(w, http.StatusForbidden, map[string]any{"message": "Your account has been deactivated.", "status": "deactivated"})
		return
	}
	tok := s.IssueToken(u.ID)
	writeJSON(w, http.StatusOK, map[string]any{"token": tok, "user": u})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.mu.Lock()
	delete(s.tokens, tok)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"message": "Logged out."})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name                 string `json:"name"`
		Email                string `json:"email"`
		Password             string `json:"password"`
		PasswordConfirmation string `json:"password_confirmation"`
		EmployeeID           string `json:"employee_id"`
		Position             string `json:"position"`
		Division             string `json:"division"`
		SchoolName           string `json:"school_name"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)

	if _, exists := s.userByEmail(in.Email); exists {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "The email has already been taken.",
			"errors":  map[string][]string{"email": {"The email has already been taken."}},
		})
		return
	}
	if in.Password != in.PasswordConfirmation {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "The password field confirmation does not match.",
			"errors":  map[string][]string{"password": {"The password field confirmation does not match."}},
		})
		return
	}
	u := s.AddUser(User{
		Name: in.Name, Email: in.Email, Password: in.Password,
		EmployeeID: in.EmployeeID, Position: in.Position, Division: in.Division, SchoolName: in.SchoolName,
	})
	s.mu.Lock()
	s.users[u.ID].Verified = false
	s.otps[strings.ToLower(in.Email)] = DefaultOTP
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Registration successful. Check your email for the 6-digit code.",
		"email":   in.Email,
	})
}

func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)

	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(in.Email)
	if want, ok := s.otps[key]; !ok || want != in.OTP {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"errors": map[string][]string{"otp": {"The code is invalid or has expired."}},
		})
		return
	}
	delete(s.otps, key)
	for _, u := range s.users {
		if strings.EqualFold(u.Email, in.Email) {
			u.Verified = true
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Email verified."})
}

func (s *Server) handleResendOTP(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	if _, ok := s.userByEmail(in.Email); !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"errors": map[string][]string{"email": {"We could not find an account with that email."}},
		})
		return
	}
	s.mu.Lock()
	s.otps[strings.ToLower(in.Email)] = DefaultOTP
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"message": "A new code has been sent to your email."})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	if _, ok := s.userByEmail(in.Email); ok {
		s.mu.Lock()
		s.resetTokens[strings.ToLower(in.Email)] = uuid.NewString()
		s.mu.Unlock()
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "If an account exists, a reset link has been sent."})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email                string `json:"email"`
		Token                string `json:"token"`
		Password             string `json:"password"`
		PasswordConfirmation string `json:"password_confirmation"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)

	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(in.Email)
	if want, ok := s.resetTokens[key]; !ok || want != in.Token {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"errors": map[string][]string{"token": {"This password reset token is invalid."}},
		})
		return
	}
	delete(s.resetTokens, key)
	for _, u := range s.users {
		if strings.EqualFold(u.Email, in.Email) {
			u.Password = in.Password
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Your password has been reset."})
}

func (s *Server) handlePendingUsers(w http.ResponseWriter, r *http.Request) {
	users := s.filterUsers(func(u *User) bool { return u.Status == "pending" && u.Verified })
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (s *Server) handleOfficers(w http.ResponseWriter, r *http.Request) {
	users := s.filterUsers(func(u *User) bool { return u.Role != "admin" })
	writeJSON(w, http.StatusOK, map[string]any{"officers": users})
}

func (s *Server) handleAssignableOfficers(w http.ResponseWriter, r *http.Request) {
	users := s.filterUsers(func(u *User) bool {
		return u.Role != "admin" && u.Status == "approved" && u.IsActive
	})
	writeJSON(w, http.StatusOK, map[string]any{"officers": users})
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Remarks string `json:"remarks"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	s.mutateUser(w, r, "User approved.", func(u *User) {
		u.Status = "approved"
		u.IsActive = true
		u.RejectionReason = nil
		u.Remarks = strPtr(in.Remarks)
	})
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	s.mutateUser(w, r, "User rejected.", func(u *User) {
		u.Status = "rejected"
		u.IsActive = false
		u.RejectionReason = strPtr(in.Reason)
	})
}

func (s *Server) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	s.mutateUser(w, r, "User deactivated.", func(u *User) {
		u.IsActive = false
		u.DeactivationReason = strPtr(in.Reason)
	})
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	s.mutateUser(w, r, "User activated.", func(u *User) {
		u.IsActive = true
		u.DeactivationReason = nil
	})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	s.mu.Lock()
	_, ok := s.users[id]
	delete(s.users, id)
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "User not found."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "User deleted."})
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	ids := make([]int, 0, len(s.tasks))
	for id := range s.tasks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	tasks := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		tasks = append(tasks, cloneMap(s.tasks[id]))
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	in := map[string]any{}
	_ = json.NewDecoder(r.Body).Decode(&in)
	if title, _ := in["title"].(string); strings.TrimSpace(title) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "The title field is required.",
			"errors":  map[string][]string{"title": {"The title field is required."}},
		})
		return
	}
	id := s.AddTask(in)
	task, _ := s.Task(id)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Task created.", "task": task})
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	in := map[string]any{}
	_ = json.NewDecoder(r.Body).Decode(&in)

	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Task not found."})
		return
	}
	for k, v := range in {
		task[k] = v
	}
	task["id"] = id
	castDates(task)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Task updated.", "task": cloneMap(task)})
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	s.mu.Lock()
	_, ok := s.tasks[id]
	delete(s.tasks, id)
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Task not found."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Task deleted."})
}

func (s *Server) mutateUser(w http.ResponseWriter, r *http.Request, message string, fn func(u *User)) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	s.mu.Lock()
	u, ok := s.users[id]
	if ok {
		fn(u)
	}
	var out User
	if ok {
		out = *u
	}
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": fmt.Sprintf("User %d not found.", id)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": message, "user": out})
}

func (s *Server) userByEmail(email string) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			return *u, true
		}
	}
	return User{}, false
}

func (s *Server) filterUsers(keep func(u *User) bool) []User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		if keep(u) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

var taskDateFields = []string{"due_date", "cutoff_date", "timeline_start", "timeline_end"}

// castDates stores plain dates as the API serializes them, with a midnight
// UTC time part.
func castDates(task map[string]any) {
	for _, key := range taskDateFields {
		v, ok := task[key].(string)
		if !ok || len(v) != len("2006-01-02") {
			continue
		}
		if _, err := time.Parse("2006-01-02", v); err == nil {
			task[key] = v + "T00:00:00.000000Z"
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func cloneMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func strPtr(s string) *string {
	return &s
}
