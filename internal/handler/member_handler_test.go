package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-task-api/internal/domain"
	"project-task-api/internal/dto"
	"project-task-api/internal/repository"
	"project-task-api/internal/response"
	"project-task-api/internal/service"
)

func TestMemberHandler_TransferOwnership(t *testing.T) {
	projectID := uuid.New()
	ownerID := uuid.New()
	memberID := uuid.New()

	tests := []struct {
		name           string
		mockService    func(*MockMembershipService)
		expectedStatus int
		expectedNotice *dto.Notice
	}{
		{
			name: "성공: 소유권 이전",
			mockService: func(m *MockMembershipService) {
				m.TransferOwnershipFunc = func(ctx context.Context, pid, requester, mid uuid.UUID) (*service.TransferResult, error) {
					return &service.TransferResult{Owner: dto.MemberResponse{MemberID: mid, Username: "bob", Role: "owner"}}, nil
				}
			},
			expectedStatus: http.StatusOK,
			expectedNotice: &dto.Notice{Level: dto.NoticeSuccess, Text: "Ownership is given to bob"},
		},
		{
			name: "성공: 이미 owner인 경우 경고",
			mockService: func(m *MockMembershipService) {
				m.TransferOwnershipFunc = func(ctx context.Context, pid, requester, mid uuid.UUID) (*service.TransferResult, error) {
					return &service.TransferResult{Owner: dto.MemberResponse{MemberID: mid, Username: "alice", Role: "owner"}, AlreadyOwner: true}, nil
				}
			},
			expectedStatus: http.StatusOK,
			expectedNotice: &dto.Notice{Level: dto.NoticeWarning, Text: "User is already the owner"},
		},
		{
			name: "실패: owner가 아님",
			mockService: func(m *MockMembershipService) {
				m.TransferOwnershipFunc = func(ctx context.Context, pid, requester, mid uuid.UUID) (*service.TransferResult, error) {
					return nil, response.NewForbiddenError("Only owner can transfer ownership", "")
				}
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "실패: 멤버 없음",
			mockService: func(m *MockMembershipService) {
				m.TransferOwnershipFunc = func(ctx context.Context, pid, requester, mid uuid.UUID) (*service.TransferResult, error) {
					return nil, response.NewNotFoundError("Project member does not exist", "")
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			membership := &MockMembershipService{}
			tt.mockService(membership)
			h := NewMemberHandler(membership)

			router := setupTestRouter()
			router.POST("/projects/:projectId/transfer-ownership", withUser(ownerID), h.TransferOwnership)

			body, _ := json.Marshal(dto.TransferOwnershipRequest{MemberID: memberID})
			req := httptest.NewRequest(http.MethodPost, "/projects/"+projectID.String()+"/transfer-ownership", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedNotice != nil {
				var resp struct {
					Data dto.TransferOwnershipResponse `json:"data"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				require.Len(t, resp.Data.Notices, 1)
				assert.Equal(t, *tt.expectedNotice, resp.Data.Notices[0])
				assert.Equal(t, memberID, resp.Data.Owner.MemberID)
			}
		})
	}
}

func TestMemberHandler_ListMembers(t *testing.T) {
	projectID := uuid.New()
	userID := uuid.New()

	var excludingCalled, allCalled bool
	membership := &MockMembershipService{
		ListMembersFunc: func(ctx context.Context, pid, requester uuid.UUID) ([]dto.MemberResponse, error) {
			allCalled = true
			return []dto.MemberResponse{{Role: "owner"}, {Role: "member"}}, nil
		},
		ListMembersExcludingOwnerFunc: func(ctx context.Context, pid, requester uuid.UUID) ([]dto.MemberResponse, error) {
			excludingCalled = true
			return []dto.MemberResponse{{Role: "member"}}, nil
		},
	}
	h := NewMemberHandler(membership)

	router := setupTestRouter()
	router.GET("/projects/:projectId/members", withUser(userID), h.ListMembers)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects/"+projectID.String()+"/members?excludeOwner=true", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, excludingCalled)
	assert.False(t, allCalled)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects/"+projectID.String()+"/members", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, allCalled)
}

func TestMemberHandler_AddMember(t *testing.T) {
	projectID := uuid.New()
	userID := uuid.New()
	newUserID := uuid.New()

	tests := []struct {
		name           string
		requestBody    interface{}
		mockService    func(*MockMembershipService)
		expectedStatus int
	}{
		{
			name:        "성공: 기본 역할로 추가",
			requestBody: dto.AddMemberRequest{UserID: newUserID},
			mockService: func(m *MockMembershipService) {
				m.AddMemberFunc = func(ctx context.Context, pid, requester, uid uuid.UUID, role domain.MemberRole) (*dto.MemberResponse, error) {
					assert.Equal(t, domain.MemberRole(""), role)
					return &dto.MemberResponse{UserID: uid, Role: string(domain.MemberRoleMember)}, nil
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "실패: owner 역할은 요청할 수 없음",
			requestBody:    map[string]string{"userId": newUserID.String(), "role": "owner"},
			mockService:    func(m *MockMembershipService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "실패: 이미 멤버",
			requestBody: dto.AddMemberRequest{UserID: newUserID, Role: "viewer"},
			mockService: func(m *MockMembershipService) {
				m.AddMemberFunc = func(ctx context.Context, pid, requester, uid uuid.UUID, role domain.MemberRole) (*dto.MemberResponse, error) {
					return nil, response.NewConflictError("User is already a member of this project", "")
				}
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:        "실패: 처리되지 않은 저장소 오류",
			requestBody: dto.AddMemberRequest{UserID: newUserID},
			mockService: func(m *MockMembershipService) {
				m.AddMemberFunc = func(ctx context.Context, pid, requester, uid uuid.UUID, role domain.MemberRole) (*dto.MemberResponse, error) {
					return nil, repository.ErrNotProjectOwner
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			membership := &MockMembershipService{}
			tt.mockService(membership)
			h := NewMemberHandler(membership)

			router := setupTestRouter()
			router.POST("/projects/:projectId/members", withUser(userID), h.AddMember)

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest(http.MethodPost, "/projects/"+projectID.String()+"/members", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}
}
