package auth

import "github.com/frahmantamala/training-management/internal/core/common/validation"

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refreshToken"`
}

type ForgotPasswordDTO struct {
	Email string `json:"email"`
}

type ResetPasswordDTO struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (d RefreshTokenDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("refreshToken", d.RefreshToken).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (d ForgotPasswordDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (d ResetPasswordDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("token", d.Token).Required()
	v.Field("password", d.Password).Required().MinLength(8).MaxLength(72)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
