package contract

type InviteUserRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=80"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=admin supervisor inspector"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin supervisor inspector"`
}

type UserResponse struct {
	ID            int64  `json:"id,string"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	Active        bool   `json:"active"`
	EmailVerified bool   `json:"email_verified"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}
