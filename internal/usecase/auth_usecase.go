package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"
)

// AuthValidator checks the request inputs before the usecase runs.
type AuthValidator interface {
	ValidateRegister(ctx context.Context, name string, email string, password string) error
	ValidateLogin(ctx context.Context, email string, password string) error
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain string, digest string) bool
}

type TokenIssuer interface {
	Issue(userID int64, ttl time.Duration) (string, error)
}

type AuthUsecase struct {
	users      repository.UserRepository
	hasher     PasswordHasher
	tokens     TokenIssuer
	validator  AuthValidator
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthUsecase(
	users repository.UserRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	validator AuthValidator,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) *AuthUsecase {
	return &AuthUsecase{
		users:      users,
		hasher:     hasher,
		tokens:     tokens,
		validator:  validator,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Active   *bool
	Admin    *bool
}

type RegisterOutput struct {
	Message string `json:"mensagem"`
	UserID  int64  `json:"usuario_id"`
	Email   string `json:"email"`
}

type LoginOutput struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
}

func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (RegisterOutput, error) {
	// normalize once: the duplicate check, the stored row and the login
	// lookup must all see the same email
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if err := u.validator.ValidateRegister(ctx, in.Name, in.Email, in.Password); err != nil {
		return RegisterOutput{}, err
	}

	pwHash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return RegisterOutput{}, NewHTTPError(http.StatusInternalServerError, "erro interno")
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: pwHash,
		Active:       true,
		Admin:        false,
	}
	if in.Active != nil {
		user.Active = *in.Active
	}
	if in.Admin != nil {
		user.Admin = *in.Admin
	}

	if err := u.users.Create(ctx, user); err != nil {
		// unique index race: two registrations with the same email
		if errors.Is(err, repository.ErrDuplicate) {
			return RegisterOutput{}, NewHTTPError(http.StatusConflict, "já existe um usuário com esse email")
		}
		return RegisterOutput{}, NewHTTPError(http.StatusInternalServerError, "erro no banco de dados")
	}

	return RegisterOutput{
		Message: "usuário cadastrado com sucesso",
		UserID:  user.ID,
		Email:   user.Email,
	}, nil
}

// Login resolves the user by email and verifies the password. Unknown email,
// wrong password and inactive account all produce the same 401 so nothing
// distinguishes the cases to the caller.
func (u *AuthUsecase) Login(ctx context.Context, email string, password string, withRefresh bool) (LoginOutput, error) {
	email = strings.TrimSpace(email)

	if err := u.validator.ValidateLogin(ctx, email, password); err != nil {
		return LoginOutput{}, err
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "erro interno")
	}
	if user == nil || !user.Active || !u.hasher.Verify(password, user.PasswordHash) {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "email ou senha incorretos")
	}

	accessToken, err := u.tokens.Issue(user.ID, u.accessTTL)
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "erro interno")
	}

	out := LoginOutput{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}

	if withRefresh {
		refreshToken, err := u.tokens.Issue(user.ID, u.refreshTTL)
		if err != nil {
			return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "erro interno")
		}
		out.RefreshToken = refreshToken
	}

	return out, nil
}

// Refresh issues a new access token for an already-authenticated actor. The
// middleware accepts either token class, so a refresh credential (or a still
// valid access one) exchanges for a fresh access token without the password.
func (u *AuthUsecase) Refresh(ctx context.Context, actor *model.User) (LoginOutput, error) {
	if actor == nil {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "não autenticado")
	}

	accessToken, err := u.tokens.Issue(actor.ID, u.accessTTL)
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "erro interno")
	}

	return LoginOutput{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}, nil
}
