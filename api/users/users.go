package users

import (
	"dallasdresses_server/api/middleware"
	"dallasdresses_server/handling"
	"dallasdresses_server/lib"
	"dallasdresses_server/structs"
	"net/http"
	"strings"

	"github.com/MonkyMars/gecho"
)

func (ur *UserRoutesManager) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := handling.ParsePage(r)
	if err != nil {
		handling.WriteError(err, "parse page", ur.logger, w)
		return
	}

	users, err := ur.userService.GetAll(r.Context(), page, pageSize)
	if err != nil {
		handling.WriteError(err, "list users", ur.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(users), gecho.Send())
}

func (ur *UserRoutesManager) SearchUser(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		gecho.BadRequest(w, gecho.WithMessage("Query parameter 'email' is required"), gecho.Send())
		return
	}

	user, err := ur.userService.GetByEmail(r.Context(), email)
	if err != nil {
		handling.WriteError(err, "search user", ur.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(user), gecho.Send())
}

func (ur *UserRoutesManager) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := ur.ownUserID(w, r, "id")
	if !ok {
		return
	}

	user, err := ur.userService.GetByID(r.Context(), id)
	if err != nil {
		handling.WriteError(err, "get user", ur.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(user), gecho.Send())
}

func (ur *UserRoutesManager) CreateUser(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.UserCreateRequest](r)
	if err != nil {
		handling.WriteError(err, "decode user", ur.logger, w)
		return
	}

	if claims, ok := middleware.GetClaimsFromContext(r.Context()); !ok || !claims.IsAdmin() {
		body.Role = structs.RoleCustomer
	}

	user, err := ur.userService.Create(r.Context(), body)
	if err != nil {
		handling.WriteError(err, "create user", ur.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(user),
		gecho.WithMessage("User created successfully"),
		gecho.Send(),
	)
}

func (ur *UserRoutesManager) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := ur.ownUserID(w, r, "id")
	if !ok {
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UserUpdateRequest](r)
	if err != nil {
		handling.WriteError(err, "decode user update", ur.logger, w)
		return
	}

	if claims, _ := middleware.GetClaimsFromContext(r.Context()); body.Role != nil && !claims.IsAdmin() {
		gecho.Forbidden(w, gecho.WithMessage("Only administrators can change roles"), gecho.Send())
		return
	}

	user, err := ur.userService.Update(r.Context(), id, body)
	if err != nil {
		handling.WriteError(err, "update user", ur.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(user),
		gecho.WithMessage("User updated successfully"),
		gecho.Send(),
	)
}

func (ur *UserRoutesManager) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := ur.ownUserID(w, r, "id")
	if !ok {
		return
	}

	if err := ur.userService.Delete(r.Context(), id); err != nil {
		handling.WriteError(err, "delete user", ur.logger, w)
		return
	}

	gecho.Success(w, gecho.WithMessage("User deleted successfully"), gecho.Send())
}

// ownUserID parses a user id route parameter and checks that the caller is
// that user or an administrator
func (ur *UserRoutesManager) ownUserID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := handling.ParseID(r, param)
	if err != nil {
		handling.WriteError(err, "parse user id", ur.logger, w)
		return 0, false
	}

	claims, _ := middleware.GetClaimsFromContext(r.Context())
	if !claims.CanActFor(id) {
		gecho.Forbidden(w, gecho.WithMessage("Access denied"), gecho.Send())
		return 0, false
	}
	return id, true
}
