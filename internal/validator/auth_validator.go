package validator

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"app/internal/repository"
	"app/internal/usecase"
)

type authValidator struct {
	users repository.UserRepository
}

// NewAuthValidator wires the duplicate-email check against the user store.
func NewAuthValidator(users repository.UserRepository) usecase.AuthValidator {
	return &authValidator{users: users}
}

func (v *authValidator) ValidateRegister(ctx context.Context, name string, email string, password string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" || email == "" || password == "" {
		return usecase.NewHTTPError(http.StatusBadRequest, "nome, email e senha são obrigatórios")
	}

	if !isEmailLike(email) {
		return usecase.NewHTTPError(http.StatusBadRequest, "email inválido")
	}

	// duplicate email check needs the store
	u, err := v.users.FindByEmail(ctx, email)
	if err != nil {
		return usecase.NewHTTPError(http.StatusInternalServerError, "erro no banco de dados")
	}
	if u != nil {
		return usecase.NewHTTPError(http.StatusConflict, "já existe um usuário com esse email")
	}

	return nil
}

func (v *authValidator) ValidateLogin(ctx context.Context, email string, password string) error {
	email = strings.TrimSpace(email)

	if email == "" || password == "" {
		return usecase.NewHTTPError(http.StatusBadRequest, "email e senha são obrigatórios")
	}

	return nil
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func isEmailLike(s string) bool {
	return emailRe.MatchString(s)
}
