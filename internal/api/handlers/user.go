package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/calebw/tasklist-api/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type RegisterRequest struct {
	Fullname *string `json:"fullname"`
	Username *string `json:"username"`
	Password *string `json:"password"`
}

type RegisterResponse struct {
	UserID   int64  `json:"user_id"`
	Fullname string `json:"fullname"`
	Username string `json:"username"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Request body is not valid JSON")
		return
	}

	var messages []string
	messages = appendRequired(messages, req.Fullname, "Full name")
	messages = appendRequired(messages, req.Username, "Username")
	messages = appendRequired(messages, req.Password, "Password")
	if len(messages) > 0 {
		respondError(w, http.StatusBadRequest, messages...)
		return
	}

	user, err := h.userService.Register(r.Context(), service.RegisterInput{
		Fullname: *req.Fullname,
		Username: *req.Username,
		Password: *req.Password,
	})
	if err != nil {
		respondDomainError(w, err, "There was an issue creating a user account - please try again")
		return
	}

	respondSuccess(w, http.StatusCreated, RegisterResponse{
		UserID:   user.ID,
		Fullname: user.Fullname,
		Username: user.Username,
	}, "User created")
}

// appendRequired enforces the 1..255 character bound shared by every
// user-supplied credential field.
func appendRequired(messages []string, value *string, field string) []string {
	switch {
	case value == nil:
		return append(messages, field+" not supplied")
	case len(*value) < 1:
		return append(messages, field+" cannot be blank")
	case len(*value) > 255:
		return append(messages, field+" cannot be greater than 255 characters")
	}
	return messages
}
