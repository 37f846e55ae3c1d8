package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"project-task-api/internal/domain"
	"project-task-api/internal/dto"
	"project-task-api/internal/repository"
	"project-task-api/internal/response"
)

// projectAccess resolves the requester's membership and role in a project.
// Non-members are told the project does not exist.
type projectAccess struct {
	memberRepo repository.MemberRepository
}

func (a projectAccess) member(ctx context.Context, projectID, userID uuid.UUID) (*domain.ProjectMember, error) {
	member, err := a.memberRepo.FindByProjectAndUser(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Project not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check project membership", err.Error())
	}
	return member, nil
}

func (a projectAccess) writer(ctx context.Context, projectID, userID uuid.UUID) (*domain.ProjectMember, error) {
	member, err := a.member(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !member.Role.CanWrite() {
		return nil, response.NewForbiddenError("Viewers cannot modify this project", "")
	}
	return member, nil
}

func (a projectAccess) manager(ctx context.Context, projectID, userID uuid.UUID) (*domain.ProjectMember, error) {
	member, err := a.member(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !member.Role.CanManageMembers() {
		return nil, response.NewForbiddenError("Only owner or admin can manage this project", "")
	}
	return member, nil
}

func (a projectAccess) owner(ctx context.Context, projectID, userID uuid.UUID, message string) (*domain.ProjectMember, error) {
	member, err := a.member(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if member.Role != domain.MemberRoleOwner {
		return nil, response.NewForbiddenError(message, "")
	}
	return member, nil
}

// taskAccess loads a task and checks the requester's role in its project.
// A task in a project the requester does not belong to is reported as missing.
type taskAccess struct {
	taskRepo repository.TaskRepository
	access   projectAccess
}

func (a taskAccess) load(ctx context.Context, taskID, userID uuid.UUID, write bool) (*domain.Task, *domain.ProjectMember, error) {
	task, err := a.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, nil, internalError(err, "Failed to fetch task", "Task not found")
	}
	member, err := a.access.member(ctx, task.ProjectID, userID)
	if err != nil {
		if response.HasCode(err, response.ErrCodeNotFound) {
			return nil, nil, response.NewNotFoundError("Task not found", "")
		}
		return nil, nil, err
	}
	if write && !member.Role.CanWrite() {
		return nil, nil, response.NewForbiddenError("Viewers cannot modify this project", "")
	}
	return task, member, nil
}

// internalError wraps a store failure; record-not-found becomes notFoundMessage
func internalError(err error, message, notFoundMessage string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewNotFoundError(notFoundMessage, "")
	}
	return response.NewAppError(response.ErrCodeInternal, message, err.Error())
}

func toUserResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{UserID: user.ID, Username: user.Username}
}

func toProjectResponse(project *domain.Project) dto.ProjectResponse {
	resp := dto.ProjectResponse{
		ProjectID:   project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
	if project.Owner != nil {
		resp.OwnerName = project.Owner.Username
	}
	return resp
}

func toProjectResponses(projects []*domain.Project) []dto.ProjectResponse {
	result := make([]dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		result = append(result, toProjectResponse(p))
	}
	return result
}

func toMemberResponse(member *domain.ProjectMember) dto.MemberResponse {
	resp := dto.MemberResponse{
		MemberID:  member.ID,
		ProjectID: member.ProjectID,
		UserID:    member.UserID,
		Role:      string(member.Role),
		JoinedAt:  member.JoinedAt,
	}
	if member.User != nil {
		resp.Username = member.User.Username
	}
	return resp
}

func toMemberResponses(members []*domain.ProjectMember) []dto.MemberResponse {
	result := make([]dto.MemberResponse, 0, len(members))
	for _, m := range members {
		result = append(result, toMemberResponse(m))
	}
	return result
}

func toStatusResponse(status *domain.Status) dto.StatusResponse {
	return dto.StatusResponse{StatusID: status.ID, Name: status.Name, Order: status.Order}
}

func toStatusResponses(statuses []*domain.Status) []dto.StatusResponse {
	result := make([]dto.StatusResponse, 0, len(statuses))
	for _, s := range statuses {
		result = append(result, toStatusResponse(s))
	}
	return result
}

func toLabelResponse(label *domain.Label) dto.LabelResponse {
	return dto.LabelResponse{LabelID: label.ID, Name: label.Name, Color: label.Color}
}

func toLabelResponses(labels []*domain.Label) []dto.LabelResponse {
	result := make([]dto.LabelResponse, 0, len(labels))
	for _, l := range labels {
		result = append(result, toLabelResponse(l))
	}
	return result
}

func toAssigneeResponse(assignee *domain.Assignee) dto.AssigneeResponse {
	resp := dto.AssigneeResponse{
		UserID:     assignee.UserID,
		Role:       string(assignee.Role),
		AssignedAt: assignee.AssignedAt,
	}
	if assignee.User != nil {
		resp.Username = assignee.User.Username
	}
	return resp
}

func toTaskResponse(task *domain.Task) dto.TaskResponse {
	resp := dto.TaskResponse{
		TaskID:            task.ID,
		ProjectID:         task.ProjectID,
		CreatorID:         task.CreatorID,
		Title:             task.Title,
		Description:       task.Description,
		Order:             task.Order,
		Priority:          int(task.Priority),
		PriorityLabel:     task.Priority.String(),
		DueDate:           task.DueDate,
		EstimatedDuration: formatDuration(task.EstimatedDuration),
		ActualDuration:    formatDuration(task.ActualDuration),
		CreatedAt:         task.CreatedAt,
		UpdatedAt:         task.UpdatedAt,
	}
	if task.Status != nil {
		status := toStatusResponse(task.Status)
		resp.Status = &status
	}
	for i := range task.Assignees {
		resp.Assignees = append(resp.Assignees, toAssigneeResponse(&task.Assignees[i]))
	}
	for _, tl := range task.TaskLabels {
		if tl.Label != nil {
			resp.Labels = append(resp.Labels, toLabelResponse(tl.Label))
		}
	}
	return resp
}

func toTaskResponses(tasks []*domain.Task) []dto.TaskResponse {
	result := make([]dto.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		result = append(result, toTaskResponse(t))
	}
	return result
}

func toCommentResponse(comment *domain.Comment) dto.CommentResponse {
	resp := dto.CommentResponse{
		CommentID: comment.ID,
		TaskID:    comment.TaskID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
	if comment.Author != nil {
		resp.AuthorName = comment.Author.Username
	}
	return resp
}

func toActivityResponse(activity *domain.Activity) dto.ActivityResponse {
	return dto.ActivityResponse{
		ActivityID: activity.ID,
		TaskID:     activity.TaskID,
		UserID:     activity.UserID,
		Action:     string(activity.Action),
		OldValues:  decodeJSON(activity.OldValues),
		NewValues:  decodeJSON(activity.NewValues),
		CreatedAt:  activity.CreatedAt,
	}
}

func formatDuration(d *time.Duration) string {
	if d == nil {
		return ""
	}
	return d.String()
}

// parseDuration reads Go duration syntax; empty input means unset
func parseDuration(field, raw string) (*time.Duration, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return nil, response.NewValidationError("Invalid "+field, `use a non-negative duration such as "1h30m"`)
	}
	return &d, nil
}

func encodeJSON(values map[string]interface{}) datatypes.JSON {
	if len(values) == 0 {
		return nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func decodeJSON(raw datatypes.JSON) map[string]interface{} {
	if len(raw) == 0 {
		return nil
	}
	var values map[string]interface{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	return values
}
