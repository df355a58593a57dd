package server

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"time"

	"github.com/splitspend/splitspend/internal/errs"
	"github.com/splitspend/splitspend/internal/models"
)

type signupRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

func (r *signupRequest) validate() map[string]string {
	fields := make(map[string]string)
	if r.Name == "" {
		fields["name"] = "Name cannot be blank"
	}
	if r.Email == "" {
		fields["email"] = "Email is required"
	} else if !validEmail(r.Email) {
		fields["email"] = "Invalid email format"
	}
	switch {
	case r.PhoneNumber == "":
		fields["phoneNumber"] = "Phone number is required"
	case !digitsOnly(r.PhoneNumber):
		fields["phoneNumber"] = "Phone number must contain only digits"
	case len(r.PhoneNumber) != 10:
		fields["phoneNumber"] = "Phone number must be 10 digits"
	}
	switch {
	case r.Password == "":
		fields["password"] = "Password is required"
	case len(r.Password) < 8 || len(r.Password) > 15:
		fields["password"] = "Password must be between 8 and 15 characters"
	}
	return fields
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *loginRequest) validate() map[string]string {
	fields := make(map[string]string)
	if r.Email == "" {
		fields["email"] = "Email is required"
	} else if !validEmail(r.Email) {
		fields["email"] = "Invalid email format"
	}
	if r.Password == "" {
		fields["password"] = "Password is required"
	}
	return fields
}

// userResponse is the outward-facing user projection. It never carries the
// password hash.
type userResponse struct {
	UserID      int64     `json:"userId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		UserID:      u.ID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		CreatedAt:   u.CreatedAt,
	}
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decode(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if fields := req.validate(); len(fields) > 0 {
		writeError(w, &errs.ValidationError{Fields: fields})
		return
	}

	user, err := s.users.CreateUser(r.Context(), req.Name, req.Email, req.PhoneNumber, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newUserResponse(user))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if fields := req.validate(); len(fields) > 0 {
		writeError(w, &errs.ValidationError{Fields: fields})
		return
	}

	user, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(user))
}

func decode(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
