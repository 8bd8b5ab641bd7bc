package handler

import "github.com/unityscripts/script-library/internal/core/domain"

// messageResponse is the envelope for acknowledgements and errors.
type messageResponse struct {
	Message string `json:"message"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// userResponse is the public profile; the password hash never leaves the server.
type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type createScriptRequest struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description" validate:"required,min=10"`
	Code        string `json:"code"        validate:"required,min=10"`
}

type scriptResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Code        string `json:"code"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username}
}

func toScriptResponse(s *domain.Script) scriptResponse {
	return scriptResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Code:        s.Code,
	}
}

func toScriptListResponse(scripts []*domain.Script) []scriptResponse {
	out := make([]scriptResponse, len(scripts))
	for i, s := range scripts {
		out[i] = toScriptResponse(s)
	}
	return out
}
