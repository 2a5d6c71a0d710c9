package domain

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance for request payloads
var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrInvalidInput is returned when a request payload fails validation
var ErrInvalidInput = errors.New("invalid input")

// Credentials is the login request body
type Credentials struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// RegisterRequest is the registration request body. InviteToken links the
// registrant to an existing couple; ColorCode is the display color shown to
// the partner.
type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Password    string `json:"password" validate:"required,min=6,max=128"`
	ColorCode   string `json:"colorCode,omitempty" validate:"omitempty,hexcolor"`
	InviteToken string `json:"inviteToken,omitempty"`
}

// AuthResponse is the payload returned by the login and register endpoints.
// InviteToken is only present when the registrant became the inviter of a
// new couple; callers carry it verbatim into the invite-sharing flow.
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserID       int64  `json:"userId,omitempty"`
	Username     string `json:"username,omitempty"`
	InviteToken  string `json:"inviteToken,omitempty"`
}

// LogoutRequest carries the refresh token to the server-side invalidation
// endpoint
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// CreateTodoListRequest is the body for creating or updating a list
type CreateTodoListRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description,omitempty" validate:"max=1000"`
	ColorCode   string `json:"colorCode,omitempty" validate:"omitempty,hexcolor"`
}

// CreateTodoItemRequest is the body for creating or updating an item
type CreateTodoItemRequest struct {
	Title       string       `json:"title" validate:"required,max=200"`
	Description string       `json:"description,omitempty" validate:"max=1000"`
	Priority    ItemPriority `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Order       int          `json:"order,omitempty" validate:"gte=0"`
}

// Validate checks the credentials before they are sent to the backend
func (c Credentials) Validate() error {
	return wrapValidation(validate.Struct(c))
}

// Validate checks the registration payload before it is sent to the backend
func (r RegisterRequest) Validate() error {
	return wrapValidation(validate.Struct(r))
}

// Validate checks the list payload before it is sent to the backend
func (r CreateTodoListRequest) Validate() error {
	return wrapValidation(validate.Struct(r))
}

// Validate checks the item payload before it is sent to the backend
func (r CreateTodoItemRequest) Validate() error {
	return wrapValidation(validate.Struct(r))
}

// wrapValidation converts validator errors into ErrInvalidInput with a
// human-readable field message
func wrapValidation(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: field %s: %s", ErrInvalidInput, fe.Field(), validationMessage(fe.Tag()))
	}
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

// validationMessages maps validator tags to user-friendly messages
var validationMessages = map[string]string{
	"required": "this field is required",
	"min":      "below minimum length",
	"max":      "exceeds maximum length",
	"alphanum": "must contain only alphanumeric characters",
	"hexcolor": "must be a valid hex color",
	"oneof":    "must be one of the allowed values",
	"gte":      "must be greater than or equal to minimum value",
}

func validationMessage(tag string) string {
	if msg, ok := validationMessages[tag]; ok {
		return msg
	}
	return "validation failed: " + tag
}
