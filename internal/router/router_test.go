package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"project-task-api/internal/auth"
	"project-task-api/internal/client"
	"project-task-api/internal/database"
	"project-task-api/internal/dto"
	"project-task-api/internal/metrics"
	"project-task-api/internal/response"
)

// setupTestRouter creates a router over an in-memory SQLite database
func setupTestRouter(t *testing.T, basePath string) (*gin.Engine, *prometheus.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.New(database.Config{
		Driver: database.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	registry := prometheus.NewRegistry()
	logger := zap.NewNop()
	m := metrics.NewWithRegistry(registry, logger)

	r := Setup(Config{
		DB:       db,
		Logger:   logger,
		Metrics:  m,
		Gatherer: registry,
		Tokens:   auth.NewTokenManager("test-secret", time.Hour),
		S3Client: client.NewMockS3Client(),
		BasePath: basePath,
	})
	return r, registry
}

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

func (a apiClient) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func (a apiClient) register(username string) dto.AuthResponse {
	a.t.Helper()
	w := a.do(http.MethodPost, "/register/", "", dto.RegisterRequest{Username: username, Password: "password123"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var resp dto.AuthResponse
	decodeData(a.t, w, &resp)
	return resp
}

func TestMetricsEndpoint_RootPath(t *testing.T) {
	router, _ := setupTestRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	body := w.Body.String()
	assert.Contains(t, body, "# HELP")
	assert.Contains(t, body, "# TYPE")
	assert.Contains(t, body, "task_service_projects_total")
}

func TestMetricsEndpoint_WithBasePath(t *testing.T) {
	basePath := "/api/tasks"
	router, _ := setupTestRouter(t, basePath)

	for _, path := range []string{"/metrics", basePath + "/metrics"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestMetricsEndpoint_ContainsBusinessMetrics(t *testing.T) {
	_, registry := setupTestRouter(t, "")

	metricFamilies, err := registry.Gather()
	require.NoError(t, err)

	metricNames := make(map[string]bool)
	for _, mf := range metricFamilies {
		metricNames[mf.GetName()] = true
	}

	for _, metric := range []string{
		"task_service_db_connections_open",
		"task_service_db_connections_max",
		"task_service_projects_total",
		"task_service_tasks_total",
		"task_service_project_created_total",
		"task_service_task_created_total",
	} {
		assert.True(t, metricNames[metric], "Registry should contain metric: %s", metric)
	}
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := setupTestRouter(t, "")

	for _, path := range []string{"/health", "/ready"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestProtectedRoutes_RequireAuthentication(t *testing.T) {
	router, _ := setupTestRouter(t, "")
	api := apiClient{t: t, router: router}

	for _, path := range []string{"/dashboard/", "/projects/", "/tasks/"} {
		t.Run(path, func(t *testing.T) {
			w := api.do(http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "/login/", w.Header().Get("Location"))

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "/login/", body["loginUrl"])
		})
	}

	w := api.do(http.MethodGet, "/dashboard/", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProjectOwnershipFlow(t *testing.T) {
	router, _ := setupTestRouter(t, "")
	api := apiClient{t: t, router: router}

	alice := api.register("alice")
	bob := api.register("bob")

	// alice creates a project and adds bob
	w := api.do(http.MethodPost, "/projects/create/", alice.AccessToken, dto.CreateProjectRequest{Name: "Launch"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var project dto.ProjectResponse
	decodeData(t, w, &project)
	assert.Equal(t, alice.User.UserID, project.OwnerID)
	projectPath := "/projects/" + project.ProjectID.String()

	w = api.do(http.MethodPost, projectPath+"/members", alice.AccessToken, dto.AddMemberRequest{UserID: bob.User.UserID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var bobMember dto.MemberResponse
	decodeData(t, w, &bobMember)
	assert.Equal(t, "member", bobMember.Role)

	// bob sees the project but cannot edit it
	w = api.do(http.MethodGet, "/projects/", bob.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var bobProjects []dto.ProjectResponse
	decodeData(t, w, &bobProjects)
	require.Len(t, bobProjects, 1)

	name := "Hijacked"
	w = api.do(http.MethodPost, projectPath+"/update", bob.AccessToken, dto.UpdateProjectRequest{Name: &name})
	require.Equal(t, http.StatusForbidden, w.Code)
	var errResp response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "Only owner can edit this project", errResp.Error.Message)

	// alice sees bob as the only transfer choice
	w = api.do(http.MethodGet, projectPath+"/update", alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var form dto.ProjectEditFormResponse
	decodeData(t, w, &form)
	require.Len(t, form.TransferChoices, 2)
	assert.Equal(t, "", form.TransferChoices[0].Value)
	assert.Equal(t, "Do not change", form.TransferChoices[0].Label)
	assert.Equal(t, bobMember.MemberID.String(), form.TransferChoices[1].Value)

	// alice renames and hands the project to bob
	name = "Launch v2"
	w = api.do(http.MethodPost, projectPath+"/update", alice.AccessToken, dto.UpdateProjectRequest{
		Name:     &name,
		NewOwner: bobMember.MemberID.String(),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated dto.ProjectUpdateResponse
	decodeData(t, w, &updated)
	assert.Equal(t, "Launch v2", updated.Project.Name)
	assert.Equal(t, bob.User.UserID, updated.Project.OwnerID)
	texts := make([]string, 0, len(updated.Notices))
	for _, n := range updated.Notices {
		texts = append(texts, n.Text)
	}
	assert.Contains(t, texts, "Ownership is given to bob")

	// alice is no longer allowed to edit
	w = api.do(http.MethodPost, projectPath+"/update", alice.AccessToken, dto.UpdateProjectRequest{Name: &name})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// bob's detail view reports him as owner
	w = api.do(http.MethodGet, projectPath+"/", bob.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var detail dto.ProjectDetailResponse
	decodeData(t, w, &detail)
	assert.Equal(t, "owner", detail.MyRole)
	assert.True(t, detail.CanEdit)
}

func TestTaskFlow(t *testing.T) {
	router, _ := setupTestRouter(t, "")
	api := apiClient{t: t, router: router}

	alice := api.register("alice")

	w := api.do(http.MethodPost, "/projects/create/", alice.AccessToken, dto.CreateProjectRequest{Name: "Ops"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var project dto.ProjectResponse
	decodeData(t, w, &project)
	tasksPath := "/projects/" + project.ProjectID.String() + "/tasks"

	past := time.Now().Add(-time.Hour)
	w = api.do(http.MethodPost, tasksPath, alice.AccessToken, dto.CreateTaskRequest{Title: "Late", DueDate: &past})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "Due date cannot be in the past"))

	future := time.Now().Add(48 * time.Hour)
	w = api.do(http.MethodPost, tasksPath, alice.AccessToken, dto.CreateTaskRequest{Title: "On time", DueDate: &future})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var task dto.TaskResponse
	decodeData(t, w, &task)
	assert.Equal(t, 3, task.Priority)

	w = api.do(http.MethodGet, "/tasks/", alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []dto.TaskResponse
	decodeData(t, w, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, task.TaskID, mine[0].TaskID)

	w = api.do(http.MethodGet, "/tasks/"+task.TaskID.String()+"/activities", alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var activities []dto.ActivityResponse
	decodeData(t, w, &activities)
	require.Len(t, activities, 1)
	assert.Equal(t, "created", activities[0].Action)
}
