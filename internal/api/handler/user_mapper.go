package handler

import (
	"github.com/authlab/auth-backend/internal/core/domain"
	"github.com/authlab/auth-backend/internal/core/ports"
)

// toUserResponse builds the public view of a user. The password digest never leaves the service.
func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Name:     u.Name,
		Lastname: u.Lastname,
		Email:    u.Email,
		Role:     string(u.Role),
		IsActive: u.IsActive,
	}
}

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Name:     req.Name,
		Lastname: req.Lastname,
		Email:    req.Email,
		Role:     domain.Role(req.Role),
		Password: req.Password,
	}
}

func toUserPatch(req updateUserRequest) domain.UserPatch {
	patch := domain.UserPatch{
		Name:     req.Name,
		Lastname: req.Lastname,
		Email:    req.Email,
		IsActive: req.IsActive,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		patch.Role = &role
	}
	return patch
}
