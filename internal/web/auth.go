package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Roma7-7-7/vocab-trainer/internal/auth"
	"github.com/Roma7-7-7/vocab-trainer/internal/dal"
)

type (
	CredentialsForm struct {
		Username string `form:"username" validate:"required,min=3,max=80"`
		Password string `form:"password" validate:"required,min=6,max=72"`
	}

	authPage struct {
		Flash string
	}

	AuthDependencies struct {
		Repo             dal.UsersRepository
		Hasher           *auth.PasswordHasher
		JWTProcessor     *JWTProcessor
		CookiesProcessor *CookiesProcessor
		Logger           *slog.Logger
	}

	AuthHandler struct {
		repo             dal.UsersRepository
		hasher           *auth.PasswordHasher
		jwtProcessor     *JWTProcessor
		cookiesProcessor *CookiesProcessor

		log *slog.Logger
	}
)

func NewAuthHandler(deps AuthDependencies) *AuthHandler {
	return &AuthHandler{
		repo:             deps.Repo,
		hasher:           deps.Hasher,
		jwtProcessor:     deps.JWTProcessor,
		cookiesProcessor: deps.CookiesProcessor,

		log: deps.Logger,
	}
}

func (h *AuthHandler) SignUpPage(c echo.Context) error {
	return c.Render(http.StatusOK, "signup.html", authPage{Flash: h.cookiesProcessor.PopFlash(c)})
}

func (h *AuthHandler) SignUp(c echo.Context) error {
	ctx := c.Request().Context()

	form, ok := h.bindCredentials(c)
	if !ok {
		h.cookiesProcessor.SetFlash(c, "Username must be 3-80 characters and password 6-72 characters.")
		return c.Redirect(http.StatusFound, "/signup")
	}

	hash, err := h.hasher.Hash(form.Password)
	if err != nil {
		h.log.ErrorContext(ctx, "failed to hash password", "error", err)
		return err
	}

	user, err := h.repo.CreateUser(ctx, form.Username, hash)
	if err != nil {
		if errors.Is(err, dal.ErrAlreadyExists) {
			h.cookiesProcessor.SetFlash(c, "Username already exists.")
			return c.Redirect(http.StatusFound, "/signup")
		}
		h.log.ErrorContext(ctx, "failed to create user", "error", err)
		return err
	}

	h.log.InfoContext(ctx, "user signed up", "user_id", user.ID)
	h.cookiesProcessor.SetFlash(c, "Account created, please log in.")
	return redirectToLogin(c)
}

func (h *AuthHandler) LogInPage(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", authPage{Flash: h.cookiesProcessor.PopFlash(c)})
}

func (h *AuthHandler) LogIn(c echo.Context) error {
	ctx := c.Request().Context()

	form, ok := h.bindCredentials(c)
	if !ok {
		h.cookiesProcessor.SetFlash(c, "Invalid username or password.")
		return redirectToLogin(c)
	}

	user, err := h.repo.FindUserByUsername(ctx, form.Username)
	switch {
	case errors.Is(err, dal.ErrNotFound):
		err = h.hasher.Authenticate(nil, form.Password)
	case err != nil:
		h.log.ErrorContext(ctx, "failed to find user", "error", err)
		return err
	default:
		err = h.hasher.Authenticate(user, form.Password)
	}
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.log.DebugContext(ctx, "invalid credentials", "username", form.Username)
			h.cookiesProcessor.SetFlash(c, "Invalid username or password.")
			return redirectToLogin(c)
		}
		h.log.ErrorContext(ctx, "failed to authenticate", "error", err)
		return err
	}

	token, err := h.jwtProcessor.ToAccessToken(user.ID, user.Username)
	if err != nil {
		h.log.ErrorContext(ctx, "failed to create access token", "error", err)
		return err
	}
	c.SetCookie(h.cookiesProcessor.NewAccessTokenCookie(token))

	return redirectHome(c)
}

func (h *AuthHandler) LogOut(c echo.Context) error {
	c.SetCookie(h.cookiesProcessor.ExpireAccessTokenCookie())
	return redirectToLogin(c)
}

func (h *AuthHandler) bindCredentials(c echo.Context) (CredentialsForm, bool) {
	var form CredentialsForm
	if err := c.Bind(&form); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to bind credentials", "error", err)
		return form, false
	}
	form.Username = strings.TrimSpace(form.Username)
	if err := c.Validate(&form); err != nil {
		h.log.DebugContext(c.Request().Context(), "invalid credentials form", "error", err)
		return form, false
	}
	return form, true
}
