package httpx

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-shop-api.git/internal/auth"
	"github.com/ariefcatur/go-shop-api.git/internal/users"
)

type UsersHandler struct {
	Users  users.Store
	Tokens auth.TokenStore
}

func (h *UsersHandler) Register(r *chi.Mux) {
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
	r.Post("/auth/logout", h.logout)
	r.Post("/auth/password/reset", h.passwordReset)
	r.Post("/auth/password/reset/confirm", h.passwordResetConfirm)

	r.Get("/users", h.list)
	r.Get("/users/{id}", h.get)
	r.Put("/users/{id}", h.update)
	r.Delete("/users/{id}", h.delete)
}

type registerReq struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (h *UsersHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if !decodeJSON(w, r, &req) || !checkStruct(w, &req) {
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	u := &users.User{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	}
	if err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, users.ErrUsernameTaken) {
			writeFieldErrors(w, map[string]string{"username": "username already taken"})
			return
		}
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// login answers 401 on bad credentials; wrong password and unknown
// username are indistinguishable to the caller.
func (h *UsersHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !decodeJSON(w, r, &req) || !checkStruct(w, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if errors.Is(err, users.ErrNotFound) || (err == nil && !auth.CheckPassword(u.PasswordHash, req.Password)) {
		writeDetail(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	token, err := h.Tokens.Issue(ctx, u.ID)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *UsersHandler) logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Tokens.Revoke(ctx, tokenFrom(r)); err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type passwordResetReq struct {
	Email string `json:"email" validate:"required,email"`
}

// passwordReset always answers 204 so callers cannot probe which emails
// exist. There is no mailer; the token lands in the service log.
func (h *UsersHandler) passwordReset(w http.ResponseWriter, r *http.Request) {
	var req passwordResetReq
	if !decodeJSON(w, r, &req) || !checkStruct(w, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err == nil {
		token, terr := h.Tokens.IssueReset(ctx, u.ID)
		if terr != nil {
			writeDetail(w, http.StatusInternalServerError, terr.Error())
			return
		}
		log.Printf("password reset token for %s: %s", req.Email, token)
	}
	w.WriteHeader(http.StatusNoContent)
}

type passwordResetConfirmReq struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

func (h *UsersHandler) passwordResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req passwordResetConfirmReq
	if !decodeJSON(w, r, &req) || !checkStruct(w, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	userID, err := h.Tokens.ResolveReset(ctx, req.Token)
	if errors.Is(err, auth.ErrTokenInvalid) {
		writeFieldErrors(w, map[string]string{"token": "invalid or expired token"})
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := h.Users.UpdatePassword(ctx, userID, hash); err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UsersHandler) list(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r, auth.CanManageUsers); !ok {
		return
	}
	pp, err := parsePageParams(r)
	if err != nil {
		writeFieldErrors(w, map[string]string{"page": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	us, total, err := h.Users.List(ctx, pp.offset(), pp.size)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	if pp.outOfRange(total) {
		writeDetail(w, http.StatusNotFound, "page not found")
		return
	}
	writeJSON(w, http.StatusOK, newPage(r, pp, total, us))
}

func (h *UsersHandler) get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if !auth.CanViewUser(actor, id) {
		writeDetail(w, http.StatusForbidden, "cannot view other users")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if errors.Is(err, users.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type userPatch struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

func (h *UsersHandler) update(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r, auth.CanManageUsers); !ok {
		return
	}
	var req userPatch
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, users.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if err := h.Users.Update(ctx, u); err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UsersHandler) delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r, auth.CanManageUsers); !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	err := h.Users.Delete(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, users.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
