package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/untibullet/bug-tracker/internal/github"
	"github.com/untibullet/bug-tracker/internal/models"
	"github.com/untibullet/bug-tracker/internal/service"
	"go.uber.org/zap"
)

const (
	validToken = "valid-token"
	userID     = "0b9c1d2e-3f40-4a5b-8c6d-7e8f90a1b2c3"
	projectID  = "1c2d3e4f-5a6b-4c7d-8e9f-0a1b2c3d4e5f"
	bugID      = "2d3e4f5a-6b7c-4d8e-9f0a-1b2c3d4e5f60"
)

type testServer struct {
	e            *echo.Echo
	accounts     *MockAccounts
	membership   *MockMembership
	bugs         *MockBugs
	integrations *MockIntegrations
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	s := &testServer{
		e:            echo.New(),
		accounts:     new(MockAccounts),
		membership:   new(MockMembership),
		bugs:         new(MockBugs),
		integrations: new(MockIntegrations),
	}
	tokens := new(MockTokens)
	tokens.On("Verify", validToken).Return(userID, nil)
	tokens.On("Verify", mock.Anything).Return("", errors.New("token is expired"))

	h := New(s.accounts, s.membership, s.bugs, s.integrations, tokens, zap.NewNop())
	h.RegisterRoutes(s.e)
	return s
}

func (s *testServer) do(method, path, body string, authorized bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if authorized {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+validToken)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/projects", "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "UNAUTHENTICATED", resp.Error.Code)
	assert.Equal(t, "Missing Authorization header.", resp.Message)

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer forged")
	rec = httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token.", decodeError(t, rec).Error.Message)

	s.membership.AssertNotCalled(t, "ListForUser", mock.Anything, mock.Anything)
}

func TestRegister(t *testing.T) {
	s := newTestServer(t)

	name := "Ann"
	s.accounts.On("Register", mock.Anything, "ann@example.com", "s3cret", &name).
		Return(&service.Session{User: &models.User{ID: userID, Email: "ann@example.com", PasswordHash: "hash"}, Token: "jwt"}, nil)

	rec := s.do(http.MethodPost, "/auth/register", `{"email":"ann@example.com","password":"s3cret","name":"Ann"}`, false)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token":"jwt"`)
	assert.NotContains(t, rec.Body.String(), "hash")
}

func TestRegister_Conflict(t *testing.T) {
	s := newTestServer(t)

	s.accounts.On("Register", mock.Anything, "ann@example.com", "s3cret", (*string)(nil)).Return(nil, service.ErrEmailTaken)

	rec := s.do(http.MethodPost, "/auth/register", `{"email":"ann@example.com","password":"s3cret"}`, false)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "EMAIL_TAKEN", decodeError(t, rec).Error.Code)
}

func TestLogin_InvalidBody(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/auth/login", `{"email":`, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrCodeBadRequest, decodeError(t, rec).Error.Code)
	s.accounts.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateProject(t *testing.T) {
	s := newTestServer(t)

	project := &models.Project{
		ID:      projectID,
		Name:    "Widgets",
		RepoURL: "github.com/acme/widgets",
		Members: []models.ProjectMember{{ProjectID: projectID, UserID: userID, Role: models.RoleMaintainer}},
	}
	s.membership.On("CreateWithOwner", mock.Anything, userID, "Widgets", "github.com/acme/widgets").Return(project, nil)

	rec := s.do(http.MethodPost, "/projects", `{"name":"Widgets","repoUrl":"github.com/acme/widgets"}`, true)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Project models.Project `json:"project"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, projectID, resp.Project.ID)
	require.Len(t, resp.Project.Members, 1)
	assert.Equal(t, models.RoleMaintainer, resp.Project.Members[0].Role)
}

func TestJoinProject_AlreadyMember(t *testing.T) {
	s := newTestServer(t)

	s.membership.On("Join", mock.Anything, projectID, userID).Return(nil, service.ErrAlreadyMember)

	rec := s.do(http.MethodPost, "/projects/"+projectID+"/join-tester", "", true)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_MEMBER", decodeError(t, rec).Error.Code)
}

func TestReportBug(t *testing.T) {
	s := newTestServer(t)

	expected := service.ReportInput{
		ProjectID:         projectID,
		ReporterID:        userID,
		Severity:          "HIGH",
		Priority:          "P1",
		Description:       "crash on save",
		CommitURLReported: "github.com/acme/widgets/commit/abc123",
	}
	s.bugs.On("Report", mock.Anything, expected).
		Return(&models.Bug{ID: bugID, ProjectID: projectID, Status: models.StatusOpen}, nil)

	rec := s.do(http.MethodPost, "/projects/"+projectID+"/bugs",
		`{"severity":"HIGH","priority":"P1","description":"crash on save","commitUrlReported":"github.com/acme/widgets/commit/abc123"}`, true)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"OPEN"`)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", service.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
		{"missing fix", service.ErrMissingFixCommit, http.StatusBadRequest, "MISSING_FIX_COMMIT"},
		{"external validation", service.ErrInvalidCommit, http.StatusBadRequest, "INVALID_COMMIT"},
		{"not a member", service.ErrNotAMember, http.StatusForbidden, "NOT_A_MEMBER"},
		{"wrong role", service.ErrInsufficientRole, http.StatusForbidden, "INSUFFICIENT_PERMISSIONS"},
		{"not found", service.ErrBugNotFound, http.StatusNotFound, "BUG_NOT_FOUND"},
		{"conflict", service.ErrAssignedElsewhere, http.StatusConflict, "ASSIGNED_ELSEWHERE"},
		{"provider down", service.ErrProviderUnavailable, http.StatusBadGateway, "PROVIDER_UNAVAILABLE"},
		{"internal", service.WrapError(service.ErrInternal, errors.New("pg: connection reset")), http.StatusInternalServerError, ErrCodeInternal},
		{"untyped", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.bugs.On("UpdateStatus", mock.Anything, mock.Anything).Return(nil, nil, tt.err)

			rec := s.do(http.MethodPost, "/bugs/"+bugID+"/status", `{"status":"FIXED"}`, true)
			assert.Equal(t, tt.status, rec.Code)

			resp := decodeError(t, rec)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, resp.Error.Message, resp.Message)
			assert.NotContains(t, rec.Body.String(), "connection reset")
		})
	}
}

func TestUpdateBugStatus(t *testing.T) {
	s := newTestServer(t)

	fix := "github.com/acme/widgets/commit/zzz999"
	bug := &models.Bug{ID: bugID, Status: models.StatusFixed, AssignedToUserID: &[]string{userID}[0]}
	update := &models.BugStatusUpdate{BugID: bugID, Status: models.StatusFixed, FixCommitURL: &fix, CreatedByUserID: userID}
	s.bugs.On("UpdateStatus", mock.Anything, mock.MatchedBy(func(in service.StatusInput) bool {
		return in.BugID == bugID && in.UserID == userID && in.Status == "FIXED" &&
			in.FixCommitURL != nil && *in.FixCommitURL == fix && in.Comment == nil
	})).Return(bug, update, nil)

	rec := s.do(http.MethodPost, "/bugs/"+bugID+"/status", `{"status":"FIXED","fixCommitUrl":"`+fix+`"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Bug    models.Bug             `json:"bug"`
		Update models.BugStatusUpdate `json:"update"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusFixed, resp.Bug.Status)
	assert.Equal(t, fix, *resp.Update.FixCommitURL)
}

func TestAssignToMe(t *testing.T) {
	s := newTestServer(t)

	s.bugs.On("AssignToSelf", mock.Anything, bugID, userID).
		Return(&models.Bug{ID: bugID, Status: models.StatusAssigned, AssignedToUserID: &[]string{userID}[0]}, nil)

	rec := s.do(http.MethodPost, "/bugs/"+bugID+"/assign-to-me", "", true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"assignedToUserId":"`+userID+`"`)
}

func TestListBugs_Empty(t *testing.T) {
	s := newTestServer(t)

	s.bugs.On("ListForProject", mock.Anything, projectID, userID).Return([]models.BugWithPeople{}, nil)

	rec := s.do(http.MethodGet, "/projects/"+projectID+"/bugs", "", true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"bugs":[]}`, rec.Body.String())
}

func TestListCommits_LimitParsing(t *testing.T) {
	s := newTestServer(t)

	s.integrations.On("Commits", mock.Anything, "github.com/acme/widgets", 5).Return([]github.CommitInfo{{SHA: "a1"}}, nil)
	s.integrations.On("Commits", mock.Anything, "github.com/acme/widgets", 0).Return([]github.CommitInfo{}, nil)

	rec := s.do(http.MethodGet, "/integrations/github/commits?repoUrl=github.com/acme/widgets&limit=5", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"a1"`)

	rec = s.do(http.MethodGet, "/integrations/github/commits?repoUrl=github.com/acme/widgets&limit=lots", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	s.integrations.AssertExpectations(t)
}

func TestValidateCommit_Rejected(t *testing.T) {
	s := newTestServer(t)

	s.integrations.On("ValidateCommit", mock.Anything, "github.com/acme/widgets", "github.com/acme/widgets/commit/nope00").
		Return(nil, service.ErrInvalidCommit)

	rec := s.do(http.MethodGet,
		"/integrations/github/validate-commit?repoUrl=github.com/acme/widgets&commitUrl=github.com/acme/widgets/commit/nope00", "", false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_COMMIT", decodeError(t, rec).Error.Code)
}
