package server

import (
	"context"
	"net/http"
	"time"

	"github.com/splitspend/splitspend/internal/errs"
	"github.com/splitspend/splitspend/internal/models"
)

type createGroupRequest struct {
	GroupName   string `json:"groupName"`
	CreatedByID int64  `json:"createdById"`
}

func (r *createGroupRequest) validate() map[string]string {
	fields := make(map[string]string)
	switch {
	case r.GroupName == "":
		fields["groupName"] = "Group name is required"
	case len(r.GroupName) < 2 || len(r.GroupName) > 100:
		fields["groupName"] = "Group name must be between 2 and 100 characters"
	}
	if r.CreatedByID == 0 {
		fields["createdById"] = "Creator user ID is required"
	}
	return fields
}

type addMemberRequest struct {
	GroupID int64 `json:"groupId"`
	UserID  int64 `json:"userId"`
}

func (r *addMemberRequest) validate() map[string]string {
	fields := make(map[string]string)
	if r.GroupID == 0 {
		fields["groupId"] = "Group ID is required"
	}
	if r.UserID == 0 {
		fields["userId"] = "User ID is required"
	}
	return fields
}

// groupResponse is the group projection returned by create and list.
type groupResponse struct {
	GroupID     int64     `json:"groupId"`
	GroupName   string    `json:"groupName"`
	CreatedByID int64     `json:"createdById"`
	CreatedAt   time.Time `json:"createdAt"`
	MemberCount int       `json:"memberCount"`
}

func newGroupResponse(g *models.Group) groupResponse {
	return groupResponse{
		GroupID:     g.ID,
		GroupName:   g.Name,
		CreatedByID: g.CreatedByID,
		CreatedAt:   g.CreatedAt,
		MemberCount: len(g.Members),
	}
}

// memberResponse is one entry in the membership projection.
type memberResponse struct {
	UserID   int64       `json:"userId"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	JoinedAt time.Time   `json:"joinedAt"`
}

// groupMembersResponse is the membership projection returned by add-member.
type groupMembersResponse struct {
	GroupName   string           `json:"groupName"`
	Members     []memberResponse `json:"members"`
	MemberCount int              `json:"memberCount"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decode(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if fields := req.validate(); len(fields) > 0 {
		writeError(w, &errs.ValidationError{Fields: fields})
		return
	}

	group, err := s.groups.CreateGroup(r.Context(), req.GroupName, req.CreatedByID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newGroupResponse(group))
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groups.ListGroups(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]groupResponse, len(groups))
	for i, g := range groups {
		resp[i] = newGroupResponse(g)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := decode(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if fields := req.validate(); len(fields) > 0 {
		writeError(w, &errs.ValidationError{Fields: fields})
		return
	}

	group, err := s.groups.AddMember(r.Context(), req.GroupID, req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp, err := s.membersProjection(r.Context(), group)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// membersProjection resolves the member list's user details for the
// add-member response.
func (s *Server) membersProjection(ctx context.Context, group *models.Group) (groupMembersResponse, error) {
	resp := groupMembersResponse{
		GroupName:   group.Name,
		Members:     make([]memberResponse, 0, len(group.Members)),
		MemberCount: len(group.Members),
	}
	for _, m := range group.Members {
		user, err := s.users.GetUser(ctx, m.UserID)
		if err != nil {
			return groupMembersResponse{}, err
		}
		resp.Members = append(resp.Members, memberResponse{
			UserID:   m.UserID,
			Name:     user.Name,
			Email:    user.Email,
			Role:     m.Role,
			JoinedAt: m.CreatedAt,
		})
	}
	return resp, nil
}
