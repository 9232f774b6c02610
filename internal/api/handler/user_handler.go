package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/weyoung/user-center/internal/api/metrics"
	"github.com/weyoung/user-center/internal/core/domain"
	"github.com/weyoung/user-center/internal/core/ports"
	"github.com/weyoung/user-center/internal/infrastructure/queue"
)

// maxProfilePageSize caps the public listing page size; full records behind
// the admin gate use defaultPageSize as a soft default only.
const (
	defaultPageSize    = 10
	maxProfilePageSize = 20
)

// Revoker enqueues asynchronous session revocations.
type Revoker interface {
	Enqueue(rev queue.Revocation)
}

// UserHandler serves the admin-side user CRUD and the public profile
// projections.
type UserHandler struct {
	users   ports.UserService
	revoker Revoker
}

func NewUserHandler(users ports.UserService, revoker Revoker) *UserHandler {
	return &UserHandler{users: users, revoker: revoker}
}

// Create creates a user with an admin-chosen role.
//
// @Summary      Create user (admin)
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.Create(c.Request().Context(), ports.CreateUserInput{
		Account:     req.Account,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        domain.Role(req.Role),
		AvatarURL:   req.AvatarURL,
		Profile:     req.Profile,
		Tags:        req.Tags,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Get returns the full record for a user id.
//
// @Summary      Get user (admin)
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Update mutates display name, role, and profile fields. Setting role to
// "ban" enqueues a session revocation so the ban bites immediately even
// before the next fresh read.
//
// @Summary      Update user (admin)
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.UpdateUserInput{
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
		Profile:     req.Profile,
		Tags:        req.Tags,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		input.Role = &role
	}

	user, err := h.users.Update(c.Request().Context(), id, input)
	if err != nil {
		return err
	}

	if input.Role != nil && *input.Role == domain.RoleBan {
		h.revoker.Enqueue(queue.Revocation{UserID: user.ID, Account: user.Account})
		metrics.SessionsRevokedTotal.Inc()
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Delete removes a user and enqueues revocation of its live sessions.
//
// @Summary      Delete user (admin)
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	h.revoker.Enqueue(queue.Revocation{UserID: user.ID, Account: user.Account})
	metrics.SessionsRevokedTotal.Inc()
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// List returns a page of full user records.
//
// @Summary      List users (admin)
// @Tags         users
// @Produce      json
// @Param        page   query     int  false  "Page number (1-based)"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  listUsersResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	page, limit := pageParams(c)

	users, total, err := h.users.List(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}

	data := make([]userResponse, 0, len(users))
	for i := range users {
		data = append(data, toUserResponse(&users[i]))
	}
	return c.JSON(http.StatusOK, listUsersResponse{
		Data:       data,
		Pagination: toPagination(total, page, limit),
	})
}

// GetProfile returns the sanitized public projection of a user.
//
// @Summary      Get public profile
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  profileResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id}/profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(user))
}

// ListProfiles returns a page of sanitized profiles. The page size is capped
// to keep bulk scraping cheap to refuse.
//
// @Summary      List public profiles
// @Tags         users
// @Produce      json
// @Param        page   query     int  false  "Page number (1-based)"
// @Param        limit  query     int  false  "Page size (max 20)"
// @Success      200    {object}  listProfilesResponse
// @Failure      400    {object}  errorResponse
// @Router       /users/profiles [get]
func (h *UserHandler) ListProfiles(c echo.Context) error {
	page, limit := pageParams(c)
	if limit > maxProfilePageSize {
		return echo.NewHTTPError(http.StatusBadRequest, "page size too large")
	}

	users, total, err := h.users.List(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}

	data := make([]profileResponse, 0, len(users))
	for i := range users {
		data = append(data, toProfileResponse(&users[i]))
	}
	return c.JSON(http.StatusOK, listProfilesResponse{
		Data:       data,
		Pagination: toPagination(total, page, limit),
	})
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return id, nil
}

// pageParams parses the page/limit query parameters with 1-based defaults.
func pageParams(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = defaultPageSize
	}
	return page, limit
}
