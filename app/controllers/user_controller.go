package controllers

import (
	"net/http"

	"inkwell/app/models"
	"inkwell/app/services"

	"go.uber.org/zap"
)

// UserController handles HTTP requests for user accounts
type UserController struct {
	base
	userService *services.UserService
}

func NewUserController(userService *services.UserService, logger *zap.SugaredLogger) *UserController {
	return &UserController{base: base{logger: logger}, userService: userService}
}

// Search handles GET /users/search. The requester is never listed.
func (uc *UserController) Search(w http.ResponseWriter, r *http.Request) {
	actor, err := actorOf(r)
	if err != nil {
		uc.sendError(w, r, err)
		return
	}
	page, err := uc.userService.SearchUsers(r.Context(), actor, r.URL.Query())
	if err != nil {
		uc.sendError(w, r, err)
		return
	}
	sendPage(uc.base, w, page, "Users")
}

func (uc *UserController) Create(w http.ResponseWriter, r *http.Request) {
	var in models.UserInput
	if err := decodeBody(r, &in); err != nil {
		uc.sendError(w, r, err)
		return
	}
	user, err := uc.userService.CreateUser(r.Context(), in)
	if err != nil {
		uc.sendError(w, r, err)
		return
	}
	uc.sendJSON(w, http.StatusCreated, "User created successfully", user)
}

func (uc *UserController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId", "User")
	if err != nil {
		uc.sendError(w, r, err)
		return
	}
	actor, err := actorOf(r)
	if err != nil {
		uc.sendError(w, r, err)
		return
	}
	user, err := uc.userService.GetUser(r.Context(), actor, id)
	if err != nil {
		uc.sendError(w, r, err)
		return
	}
	uc.sendJSON(w, http.StatusOK, "User retrieved successfully", user)
}

func (uc *UserController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId", "User")
	if err != nil {
		uc.sendError(w, r, err)
		return
	}
	var in models.UserUpdate
	if err := decodeBody(r, &in); err != nil {
		uc.sendError(w, r, err)
		return
	}
	user, err := uc.userService.UpdateUser(r.Context(), id, in)
	if err != nil {
		uc.sendError(w, r, err)
		return
	}
	uc.sendJSON(w, http.StatusOK, "User updated successfully", user)
}

func (uc *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId", "User")
	if err != nil {
		uc.sendError(w, r, err)
		return
	}
	actor, err := actorOf(r)
	if err != nil {
		uc.sendError(w, r, err)
		return
	}
	var in models.ProfileUpdate
	if err := decodeBody(r, &in); err != nil {
		uc.sendError(w, r, err)
		return
	}
	user, err := uc.userService.UpdateProfile(r.Context(), actor, id, in)
	if err != nil {
		uc.sendError(w, r, err)
		return
	}
	uc.sendJSON(w, http.StatusOK, "Profile updated successfully", user)
}

func (uc *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId", "User")
	if err != nil {
		uc.sendError(w, r, err)
		return
	}
	actor, err := actorOf(r)
	if err != nil {
		uc.sendError(w, r, err)
		return
	}
	if err := uc.userService.DeleteUser(r.Context(), actor, id); err != nil {
		uc.sendError(w, r, err)
		return
	}
	uc.sendJSON(w, http.StatusOK, "User deleted successfully", nil)
}
