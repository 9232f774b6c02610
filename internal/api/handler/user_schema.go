package handler

import (
	"time"

	"github.com/weyoung/user-center/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type registerRequest struct {
	Account         string `json:"account"          validate:"required"`
	Password        string `json:"password"         validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type loginRequest struct {
	Account  string `json:"account"  validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type createUserRequest struct {
	Account     string   `json:"account"      validate:"required,min=4"`
	Password    string   `json:"password"     validate:"required,min=8"`
	DisplayName string   `json:"display_name"`
	Role        string   `json:"role"         validate:"omitempty,oneof=user admin ban"`
	AvatarURL   string   `json:"avatar_url"`
	Profile     string   `json:"profile"`
	Tags        []string `json:"tags"`
}

type updateUserRequest struct {
	DisplayName *string  `json:"display_name"`
	Role        *string  `json:"role" validate:"omitempty,oneof=user admin ban"`
	AvatarURL   *string  `json:"avatar_url"`
	Profile     *string  `json:"profile"`
	Tags        []string `json:"tags"`
}

// --- Response types ---
// Response-only types owned by the transport layer, kept separate from the
// domain types so the JSON contract is not coupled to internal changes.

type registerResponse struct {
	ID int64 `json:"id"`
}

type loginResponse struct {
	Token    string       `json:"token"`
	IssuedAt time.Time    `json:"issued_at"`
	User     userResponse `json:"user"`
}

// userResponse is the full record as seen by admins and the account owner.
type userResponse struct {
	ID          int64     `json:"id"`
	Account     string    `json:"account"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Profile     string    `json:"profile,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// profileResponse is the sanitized public projection: no account name, no
// timestamps beyond creation.
type profileResponse struct {
	ID          int64     `json:"id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Profile     string    `json:"profile,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listUsersResponse struct {
	Data       []userResponse     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type listProfilesResponse struct {
	Data       []profileResponse  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// --- Mappers ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Account:     u.Account,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		AvatarURL:   u.AvatarURL,
		Profile:     u.Profile,
		Tags:        u.Tags,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func toProfileResponse(u *domain.User) profileResponse {
	return profileResponse{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		Profile:     u.Profile,
		Tags:        u.Tags,
		CreatedAt:   u.CreatedAt,
	}
}

func toPagination(total int64, page, limit int) paginationResponse {
	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}
	return paginationResponse{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
