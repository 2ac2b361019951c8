package handler

// --- Request types ---

type registerCustomerRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=8,max=72"`
}

type updateCustomerRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Email    string `json:"email"     validate:"required,email"`
	Active   bool   `json:"active"`
}

// patchCustomerRequest carries optional fields; absent fields are left
// untouched.
type patchCustomerRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email,omitempty"     validate:"omitempty,email"`
	Active   *bool   `json:"active,omitempty"`
}

type pageQuery struct {
	Page int `query:"page"`
	Size int `query:"size"`
}
