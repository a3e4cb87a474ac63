package controllers

import (
	"net/http"

	"inkwell/app/models"
	"inkwell/app/services"

	"go.uber.org/zap"
)

// RoleController handles HTTP requests for roles
type RoleController struct {
	base
	roleService *services.RoleService
}

func NewRoleController(roleService *services.RoleService, logger *zap.SugaredLogger) *RoleController {
	return &RoleController{base: base{logger: logger}, roleService: roleService}
}

func (rc *RoleController) Index(w http.ResponseWriter, r *http.Request) {
	roles, err := rc.roleService.ListRoles(r.Context())
	if err != nil {
		rc.sendError(w, r, err)
		return
	}
	message := "Roles retrieved successfully"
	if len(roles) == 0 {
		message = "No roles found"
	}
	rc.sendJSON(w, http.StatusOK, message, roles)
}

func (rc *RoleController) Search(w http.ResponseWriter, r *http.Request) {
	page, err := rc.roleService.SearchRoles(r.Context(), r.URL.Query())
	if err != nil {
		rc.sendError(w, r, err)
		return
	}
	sendPage(rc.base, w, page, "Roles")
}

func (rc *RoleController) Create(w http.ResponseWriter, r *http.Request) {
	var in models.RoleInput
	if err := decodeBody(r, &in); err != nil {
		rc.sendError(w, r, err)
		return
	}
	role, err := rc.roleService.CreateRole(r.Context(), in)
	if err != nil {
		rc.sendError(w, r, err)
		return
	}
	rc.sendJSON(w, http.StatusCreated, "Role created successfully", role)
}

func (rc *RoleController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "roleId", "Role")
	if err != nil {
		rc.sendError(w, r, err)
		return
	}
	role, err := rc.roleService.GetRole(r.Context(), id)
	if err != nil {
		rc.sendError(w, r, err)
		return
	}
	rc.sendJSON(w, http.StatusOK, "Role retrieved successfully", role)
}

func (rc *RoleController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "roleId", "Role")
	if err != nil {
		rc.sendError(w, r, err)
		return
	}
	var in models.RoleInput
	if err := decodeBody(r, &in); err != nil {
		rc.sendError(w, r, err)
		return
	}
	role, err := rc.roleService.UpdateRole(r.Context(), id, in)
	if err != nil {
		rc.sendError(w, r, err)
		return
	}
	rc.sendJSON(w, http.StatusOK, "Role updated successfully", role)
}

func (rc *RoleController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "roleId", "Role")
	if err != nil {
		rc.sendError(w, r, err)
		return
	}
	if err := rc.roleService.DeleteRole(r.Context(), id); err != nil {
		rc.sendError(w, r, err)
		return
	}
	rc.sendJSON(w, http.StatusOK, "Role deleted successfully", nil)
}
