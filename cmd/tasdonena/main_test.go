package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasdonena/admin-console/modules/personnel/presentation/viewmodels"
	"github.com/tasdonena/admin-console/pkg/apiclient"
	"github.com/tasdonena/admin-console/pkg/configuration"
	"github.com/tasdonena/admin-console/pkg/inflight"
	"github.com/tasdonena/admin-console/pkg/itf"
	"github.com/tasdonena/admin-console/pkg/logging"
	"github.com/tasdonena/admin-console/pkg/tokenstore"
)

type harness struct {
	t     *testing.T
	srv   *itf.Server
	store *tokenstore.MemoryStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{t: t, srv: itf.NewServer(t), store: tokenstore.NewMemoryStore("")}
}

// signInAdmin seeds an admin and stores its token.
func (h *harness) signInAdmin() {
	h.t.Helper()
	_, tok := h.srv.AddAdmin("admin@deped.gov.ph", "secret123")
	require.NoError(h.t, h.store.Save(tok))
}

type result struct {
	stdout string
	stderr string
	err    error
}

func (r result) code() int { return exitCode(r.err) }

func (h *harness) run(stdin string, args ...string) result {
	h.t.Helper()
	var out, errOut bytes.Buffer
	c := newCLI(strings.NewReader(stdin), &out, &errOut)
	c.setup = func(c *cli) (*runtime, error) {
		client, err := apiclient.New(h.srv.URL,
			apiclient.WithTokenSource(h.store),
			apiclient.WithLogger(logging.Discard()),
		)
		if err != nil {
			return nil, err
		}
		conf := &configuration.Configuration{
			PageSize:   10,
			Prometheus: configuration.PrometheusOptions{Path: "/metrics"},
		}
		return buildRuntime(c, client, h.store, conf, logging.Discard())
	}
	root := c.newRootCmd()
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	c.close()
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func TestLogin_StoresToken(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.srv.AddUser(itf.User{Name: "Maria Santos", Email: "maria@deped.gov.ph", Password: "abcdefg1", Status: "approved", IsActive: true})

	res := h.run("", "auth", "login", "--email", "maria@deped.gov.ph", "--password", "abcdefg1")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Signed in as Maria Santos")

	tok, err := h.store.Load()
	require.NoError(t, err)
	assert.True(t, h.srv.TokenValid(tok))
}

func TestLogin_PromptsForPassword(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.srv.AddUser(itf.User{Name: "Maria Santos", Email: "maria@deped.gov.ph", Password: "abcdefg1", Status: "approved", IsActive: true})

	res := h.run("abcdefg1\n", "auth", "login", "--email", "maria@deped.gov.ph")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "Password: ")
}

func TestLogin_Failures(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	reason := "Incomplete documents"
	h.srv.AddUser(itf.User{Name: "Jose Rizal", Email: "jose@deped.gov.ph", Password: "abcdefg1", Status: "rejected", RejectionReason: &reason})

	res := h.run("", "auth", "login", "--email", "jose@deped.gov.ph", "--password", "abcdefg1")
	require.Error(t, res.err)
	assert.Equal(t, exitAPI, res.code())
	assert.Equal(t, "Account rejected: Rejected: Incomplete documents", res.err.Error())

	res = h.run("", "auth", "login", "--email", "jose@deped.gov.ph", "--password", "wrong")
	assert.Equal(t, exitAPI, res.code())
	assert.Equal(t, "Invalid credentials.", res.err.Error())

	res = h.run("", "auth", "login", "--email", "", "--password", "x")
	assert.Equal(t, exitValidation, res.code())
	assert.Equal(t, "Please fill in all fields", res.err.Error())
	assert.Equal(t, 2, h.srv.Calls(http.MethodPost, "/api/login"), "validation failures never reach the API")
}

func TestGuards(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	res := h.run("", "approvals", "list")
	assert.Equal(t, exitUsage, res.code())
	assert.Contains(t, res.err.Error(), "login required")

	officer := h.srv.AddUser(itf.User{Name: "Ana Cruz", Email: "ana@deped.gov.ph", Status: "approved", IsActive: true})
	require.NoError(t, h.store.Save(h.srv.IssueToken(officer.ID)))

	res = h.run("", "tasks", "list")
	assert.Equal(t, exitUsage, res.code())
	assert.Equal(t, refusedAdmin, res.err.Error())
	assert.Zero(t, h.srv.Calls(http.MethodGet, "/api/admin/tasks"))

	res = h.run("", "auth", "forgot-password", "--email", "ana@deped.gov.ph")
	assert.Equal(t, exitUsage, res.code())
	assert.Equal(t, refusedSignedIn, res.err.Error())

	res = h.run("", "whoami")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "ana@deped.gov.ph")
}

func TestGuards_StaleTokenIsForgotten(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	require.NoError(t, h.store.Save("expired-token"))

	res := h.run("", "personnel", "list")
	assert.Equal(t, exitUsage, res.code())
	tok, err := h.store.Load()
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestApprovals_ListAndApprove(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.signInAdmin()
	pending := h.srv.AddUser(itf.User{Name: "Maria Santos", Email: "maria@deped.gov.ph", Division: "Cebu"})

	res := h.run("", "--json", "approvals", "list")
	require.NoError(t, res.err)
	var page viewmodels.AccountsPage
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &page))
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "Maria Santos", page.Rows[0].Name)

	res = h.run("", "approvals", "approve", "2", "--remarks", "Complete requirements", "--yes")
	require.NoError(t, res.err)
	assert.Equal(t, "Maria Santos has been approved.\n", res.stdout)

	u, ok := h.srv.User(pending.ID)
	require.True(t, ok)
	assert.Equal(t, "approved", u.Status)
	require.NotNil(t, u.Remarks)
	assert.Equal(t, "Complete requirements", *u.Remarks)

	res = h.run("", "approvals", "list")
	require.NoError(t, res.err)
	assert.Equal(t, "No pending approvals.\n", res.stdout)
}

func TestApprovals_RejectPromptDeclined(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.signInAdmin()
	pending := h.srv.AddUser(itf.User{Name: "Maria Santos", Email: "maria@deped.gov.ph"})

	res := h.run("Missing documents\nn\n", "approvals", "reject", "2")
	assert.Equal(t, exitUsage, res.code())
	assert.Contains(t, res.stderr, "Reject personnel?")
	assert.Zero(t, h.srv.Calls(http.MethodPost, "/api/admin/users/2/reject"))

	res = h.run("Missing documents\ny\n", "approvals", "reject", "2")
	require.NoError(t, res.err)
	assert.Equal(t, "User rejected.\n", res.stdout)
	u, _ := h.srv.User(pending.ID)
	assert.Equal(t, "rejected", u.Status)
	require.NotNil(t, u.RejectionReason)
	assert.Equal(t, "Missing documents", *u.RejectionReason)
}

func TestApprovals_UnknownID(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.signInAdmin()

	res := h.run("", "approvals", "approve", "42", "--yes")
	assert.Equal(t, exitUsage, res.code())
	assert.Equal(t, "no pending user with id 42", res.err.Error())

	res = h.run("", "approvals", "approve", "abc")
	assert.Equal(t, exitUsage, res.code())
}

func TestApprovals_WatchPrintsChanges(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.signInAdmin()
	h.srv.AddUser(itf.User{Name: "Maria Santos", Email: "maria@deped.gov.ph"})

	res := h.run("", "--json", "approvals", "watch", "--interval", "1ms", "--iterations", "3")
	require.NoError(t, res.err)
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 1, "unchanged counts are not repeated")
	assert.JSONEq(t, `{"pending":1,"badge":"1"}`, lines[0])
	assert.Equal(t, 3, h.srv.Calls(http.MethodGet, "/api/admin/pending-users"))
}

func TestApprovals_WatchRejectsBadInterval(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.signInAdmin()

	res := h.run("", "approvals", "watch", "--interval", "0s")
	assert.Equal(t, exitUsage, res.code())
}

func TestPersonnel_DeleteNeedsExactWord(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.signInAdmin()
	officer := h.srv.AddUser(itf.User{Name: "Ana Cruz", Email: "ana@deped.gov.ph", Status: "approved", IsActive: true})

	for _, word := range []string{"delete", "DELETE!", " DELETE", ""} {
		res := h.run("", "personnel", "delete", "2", "--confirm", word, "--yes")
		assert.Equal(t, exitUsage, res.code(), word)
		_, ok := h.srv.User(officer.ID)
		assert.True(t, ok, word)
	}

	res := h.run("", "personnel", "delete", "2", "--confirm", "DELETE")
	require.NoError(t, res.err)
	assert.Equal(t, "Personnel removed from directory.\n", res.stdout)
	_, ok := h.srv.User(officer.ID)
	assert.False(t, ok)
}

func TestPersonnel_ActionsRequireStatus(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.signInAdmin()
	h.srv.AddUser(itf.User{Name: "Jose Rizal", Email: "jose@deped.gov.ph", Status: "rejected"})

	res := h.run("", "personnel", "deactivate", "2", "--yes")
	assert.Equal(t, exitUsage, res.code())
	assert.ErrorIs(t, res.err, errWrongState)
	assert.Zero(t, h.srv.Calls(http.MethodPost, "/api/admin/users/2/deactivate"))

	res = h.run("", "personnel", "reapprove", "2", "--remarks", "", "--yes")
	require.NoError(t, res.err)
	assert.Equal(t, "Jose Rizal has been approved.\n", res.stdout)
}

func TestPersonnel_ServerFailureMessage(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.signInAdmin()
	h.srv.AddUser(itf.User{Name: "Ana Cruz", Email: "ana@deped.gov.ph", Status: "approved", IsActive: true})
	h.srv.FailNext(http.MethodPost, "/api/admin/users/2/deactivate", http.StatusUnprocessableEntity,
		map[string]any{"message": "Cannot deactivate this account."})

	res := h.run("", "personnel", "deactivate", "2", "--reason", "Retired", "--yes")
	assert.Equal(t, exitAPI, res.code())
	assert.Equal(t, "Cannot deactivate this account.", res.err.Error())
}

func TestPersonnel_ListAndStats(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.signInAdmin()
	h.srv.AddUser(itf.User{Name: "Ana Cruz", Email: "ana@deped.gov.ph", Status: "approved", IsActive: true})
	h.srv.AddUser(itf.User{Name: "Jose Rizal", Email: "jose@deped.gov.ph", Status: "rejected"})
	h.srv.AddUser(itf.User{Name: "Pending Person", Email: "pending@deped.gov.ph"})

	res := h.run("", "personnel", "list", "--status", "Rejected")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Jose Rizal")
	assert.NotContains(t, res.stdout, "Ana Cruz")
	assert.NotContains(t, res.stdout, "Pending Person")

	res = h.run("", "personnel", "list", "--status", "Pending")
	assert.Equal(t, exitUsage, res.code())

	res = h.run("", "personnel", "list", "--query", "nobody")
	require.NoError(t, res.err)
	assert.Equal(t, "No personnel match your filters.\n", res.stdout)

	res = h.run("", "--json", "personnel", "stats")
	require.NoError(t, res.err)
	var cards []viewmodels.StatsCard
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &cards))
	require.Len(t, cards, 4)
	assert.Equal(t, "2", cards[0].Value)
	assert.Equal(t, "1", cards[3].Value)
}

func TestTasks_CreateFromFlags(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.signInAdmin()
	h.srv.AddUser(itf.User{Name: "Maria Clara Santos", Email: "maria@deped.gov.ph", Status: "approved", IsActive: true})

	res := h.run("", "tasks", "create",
		"--title", "Classroom observation",
		"--kra-weight", "12.345",
		"--mov", "A", "--mov", "", "--mov", "B",
		"--assign-to", "maria clara",
	)
	require.NoError(t, res.err)
	assert.Equal(t, "Task created successfully.\n", res.stdout)

	req, ok := h.srv.LastRequest(http.MethodPost, "/api/admin/tasks")
	require.True(t, ok)
	body := req.JSON()
	assert.Equal(t, 12.35, body["kra_weight"])
	assert.Equal(t, []any{"A", "B"}, body["movs"])
	assert.Equal(t, float64(2), body["assigned_to"])
	assert.Nil(t, body["description"])
}

func TestTasks_CreateValidatesFirst(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.signInAdmin()

	res := h.run("", "tasks", "create", "--kra-weight", "150")
	assert.Equal(t, exitValidation, res.code())
	assert.Equal(t, "Task title is required.", res.err.Error())
	assert.Zero(t, h.srv.Calls(http.MethodPost, "/api/admin/tasks"))
}

func TestTasks_UnknownAssignee(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.signInAdmin()

	res := h.run("", "tasks", "create", "--title", "Observe", "--assign-to", "Nobody")
	assert.Equal(t, exitUsage, res.code())
	assert.Zero(t, h.srv.Calls(http.MethodPost, "/api/admin/tasks"))
}

func TestTasks_UpdateDryRun(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.signInAdmin()
	h.srv.AddTask(map[string]any{"title": "Submit lesson plans", "kra": "KRA 1: Teaching", "due_date": "2026-03-01"})

	res := h.run("", "tasks", "update", "1", "--priority", "high", "--dry-run")
	require.NoError(t, res.err)
	var patch []map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &patch))
	require.Len(t, patch, 1)
	assert.Equal(t, "replace", patch[0]["op"])
	assert.Equal(t, "/priority", patch[0]["path"])
	assert.Equal(t, "high", patch[0]["value"])
	assert.Zero(t, h.srv.Calls(http.MethodPut, "/api/admin/tasks/1"))

	res = h.run("", "tasks", "update", "1", "--priority", "high")
	require.NoError(t, res.err)
	stored, _ := h.srv.Task(1)
	assert.Equal(t, "high", stored["priority"])
	assert.Equal(t, "KRA 1: Teaching", stored["kra"], "unchanged fields are resent as they were")
	req, ok := h.srv.LastRequest(http.MethodPut, "/api/admin/tasks/1")
	require.True(t, ok)
	assert.Equal(t, "2026-03-01", req.JSON()["due_date"])
}

func TestTasks_DeleteAndList(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.signInAdmin()
	h.srv.AddTask(map[string]any{"title": "Submit lesson plans", "status": "in_progress"})
	h.srv.AddTask(map[string]any{"title": "Parent conference"})

	res := h.run("", "tasks", "list", "--status", "in_progress")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Submit lesson plans")
	assert.NotContains(t, res.stdout, "Parent conference")

	res = h.run("", "tasks", "list", "--status", "finished")
	assert.Equal(t, exitUsage, res.code())

	res = h.run("", "tasks", "delete", "2", "--yes")
	require.NoError(t, res.err)
	assert.Equal(t, "Task deleted successfully.\n", res.stdout)
	_, ok := h.srv.Task(2)
	assert.False(t, ok)
}

func TestNav_AdminSeesBadge(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.signInAdmin()
	h.srv.AddUser(itf.User{Name: "Maria Santos", Email: "maria@deped.gov.ph"})

	res := h.run("", "--json", "nav")
	require.NoError(t, res.err)
	var entries []navEntry
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &entries))
	var badge string
	for _, e := range entries {
		if e.Href == "/account-approvals" {
			badge = e.Badge
		}
	}
	assert.Equal(t, "1", badge)
}

func TestLogout(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.signInAdmin()
	tok, _ := h.store.Load()

	res := h.run("", "logout")
	require.NoError(t, res.err)
	assert.False(t, h.srv.TokenValid(tok))
	tok, _ = h.store.Load()
	assert.Empty(t, tok)

	res = h.run("", "whoami")
	assert.Equal(t, exitUsage, res.code())
}

func TestRegisterAndVerify(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	res := h.run("", "auth", "register",
		"--name", "Ana Cruz", "--email", "ana@deped.gov.ph",
		"--password", "abcdefg1", "--password-confirmation", "abcdefg1",
		"--employee-id", "E-1", "--position", "Teacher I", "--division", "Cebu", "--school", "Cebu Central ES",
	)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "ana@deped.gov.ph")

	res = h.run("", "auth", "verify-email", "--email", "ana@deped.gov.ph", "--otp", "12")
	assert.Equal(t, exitValidation, res.code())

	res = h.run("", "auth", "verify-email", "--email", "ana@deped.gov.ph", "--otp", itf.DefaultOTP)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Email verified.")

	res = h.run("", "auth", "register", "--name", "Ana Cruz", "--email", "ana@deped.gov.ph", "--password", "abcdefgh")
	assert.Equal(t, exitValidation, res.code())
	assert.Equal(t, "Please enter your employee ID", res.err.Error())
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitTransport, exitCode(&apiclient.TransportError{Err: context.DeadlineExceeded}))
	assert.Equal(t, exitAPI, exitCode(&apiclient.APIError{StatusCode: 500}))
	assert.Equal(t, exitGeneric, exitCode(assert.AnError))
	assert.Equal(t, exitValidation, exitCode(withCode(exitValidation, assert.AnError)))

	err := userError(&apiclient.TransportError{Err: context.DeadlineExceeded}, nil, "Failed to load.")
	assert.Equal(t, exitTransport, exitCode(err))
	assert.Equal(t, apiclient.ConnectionMessage, err.Error())
}

func TestPromptConfirmer_NonInteractive(t *testing.T) {
	t.Parallel()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer w.Close()
	defer r.Close()

	var prompts bytes.Buffer
	p := newPromptConfirmer(r, &prompts)
	require.False(t, p.terminal)

	_, err = p.Confirm(context.Background(), inflight.Prompt{Title: "Approve personnel?"})
	require.ErrorIs(t, err, errNeedsConfirmation)

	p.assumeYes = true
	conf, err := p.Confirm(context.Background(), inflight.Prompt{Title: "Approve personnel?"})
	require.NoError(t, err)
	assert.True(t, conf.Confirmed)
}
