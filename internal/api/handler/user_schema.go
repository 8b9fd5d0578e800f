package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=50"`
	Lastname string `json:"lastname" validate:"required,max=50"`
	Email    string `json:"email"    validate:"required,email,max=100"`
	Role     string `json:"role"     validate:"omitempty,oneof=user admin"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

// updateUserRequest is sparse: absent fields decode to nil and are left untouched.
type updateUserRequest struct {
	Name     *string `json:"name"      validate:"omitempty,min=1,max=50"`
	Lastname *string `json:"lastname"  validate:"omitempty,min=1,max=50"`
	Email    *string `json:"email"     validate:"omitempty,email,max=100"`
	Role     *string `json:"role"      validate:"omitempty,oneof=user admin"`
	IsActive *bool   `json:"is_active"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type messageResponse struct {
	Message string `json:"message"`
}
