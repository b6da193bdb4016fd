package handlers

import (
	"context"
	"net/http"

	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// UsersStore is the slice of user.Store the HTTP handlers need.
type UsersStore interface {
	List(ctx context.Context) ([]user.Summary, error)
	Get(ctx context.Context, email string) (user.User, bool, error)
	Insert(ctx context.Context, email, name, bio string) error
	Update(ctx context.Context, oldEmail, newEmail, name, bio string) error
	Delete(ctx context.Context, email string) error
}

type UsersHandler struct {
	repo UsersStore
}

func NewUsersHandler(repo UsersStore) *UsersHandler {
	return &UsersHandler{repo: repo}
}

func (h *UsersHandler) ListUsers(ctx *gin.Context) {
	if err := user.ValidateList(); err != nil {
		RespondDomainError(ctx, err, "Could not list users")
		return
	}

	users, err := h.repo.List(ctx.Request.Context())

	if err != nil {
		RespondDomainError(ctx, err, "Could not list users")
		return
	}

	if users == nil {
		users = []user.Summary{}
	}

	ctx.JSON(http.StatusOK, users)
}

func (h *UsersHandler) CreateUser(ctx *gin.Context) {
	var req user.CreateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if err := user.ValidateCreate(req); err != nil {
		RespondDomainError(ctx, err, "Could not create user")
		return
	}

	u := user.User{Email: req.Email, Name: req.Name, Bio: req.BioOrDefault()}

	err := h.repo.Insert(ctx.Request.Context(), u.Email, u.Name, u.Bio)

	if err != nil {
		RespondDomainError(ctx, err, "Could not create user")
		return
	}

	ctx.Header("Location", "/api/users/"+u.Email)
	ctx.JSON(http.StatusCreated, u)
}

func (h *UsersHandler) GetUser(ctx *gin.Context) {
	email := ctx.Param("email")

	if err := user.ValidateLookup(email); err != nil {
		RespondDomainError(ctx, err, "Could not fetch user")
		return
	}

	u, ok, err := h.repo.Get(ctx.Request.Context(), email)

	if err != nil {
		RespondDomainError(ctx, err, "Could not fetch user")
		return
	}

	if !ok {
		RespondNotFound(ctx, "User "+email+" not found")
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *UsersHandler) UpdateUser(ctx *gin.Context) {
	email := ctx.Param("email")

	var req user.UpdateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if err := user.ValidateUpdate(email, req); err != nil {
		RespondDomainError(ctx, err, "Could not update user")
		return
	}

	u := req.Resolve(email)

	err := h.repo.Update(ctx.Request.Context(), email, u.Email, u.Name, u.Bio)

	if err != nil {
		RespondDomainError(ctx, err, "Could not update user")
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *UsersHandler) DeleteUser(ctx *gin.Context) {
	email := ctx.Param("email")

	if err := user.ValidateDelete(email); err != nil {
		RespondDomainError(ctx, err, "Could not delete user")
		return
	}

	err := h.repo.Delete(ctx.Request.Context(), email)

	if err != nil {
		RespondDomainError(ctx, err, "Could not delete user")
		return
	}

	ctx.Status(http.StatusNoContent)
}
