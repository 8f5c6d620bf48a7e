package authz

import "github.com/go-playground/validator/v10"

var validate = validator.New(validator.WithRequiredStructEnabled())

type grantRoleRequest struct {
	Subject string `json:"subject" validate:"required"`
	Role    string `json:"role" validate:"required"`
	Domain  string `json:"domain,omitempty"`
}

type subjectRequest struct {
	Subject string `json:"subject" validate:"required"`
}

type roleRequest struct {
	Role string `json:"role" validate:"required"`
}

type permissionRequest struct {
	Subject    string   `json:"subject" validate:"required"`
	Permission []string `json:"permission" validate:"required,min=2,dive,required"`
}

type permissionOnlyRequest struct {
	Permission []string `json:"permission" validate:"required,min=2,dive,required"`
}

type enforceRequest struct {
	Request []string `json:"request" validate:"required,min=2,dive,required"`
}

type changedResponse struct {
	Changed bool `json:"changed"`
}

type rolesResponse struct {
	Roles []string `json:"roles"`
}

type usersResponse struct {
	Users []string `json:"users"`
}

type permissionsResponse struct {
	Permissions [][]string `json:"permissions"`
}

type allowedResponse struct {
	Allowed bool `json:"allowed"`
}
