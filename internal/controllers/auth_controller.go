package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"cemetery_api/internal/apperrors"
	"cemetery_api/internal/middleware"
	"cemetery_api/internal/serializers"
	"cemetery_api/internal/store"
)

var errBadCredentials = apperrors.NewValidation(apperrors.NonFieldErrors, "Unable to log in with provided credentials.")

type AuthController struct {
	Accounts store.AccountRepository
	Tokens   store.TokenStore
	Signer   *middleware.TokenSigner
}

// Login checks username and password and returns the account's token,
// creating it on the first successful login.
func (a *AuthController) Login(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	var creds serializers.Credentials
	if err := serializers.Decode(body, &creds); err != nil {
		middleware.Abort(c, err)
		return
	}

	ctx := c.Request.Context()
	account, err := a.Accounts.FindByUsername(ctx, creds.Username)
	if errors.Is(err, apperrors.ErrNotFound) {
		middleware.Abort(c, errBadCredentials)
		return
	}
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(creds.Password)); err != nil {
		logrus.WithField("username", creds.Username).Info("login: incorrect password")
		middleware.Abort(c, errBadCredentials)
		return
	}
	if !account.IsActive {
		middleware.Abort(c, apperrors.NewValidation(apperrors.NonFieldErrors, "User account is disabled."))
		return
	}

	tok, err := a.Tokens.GetOrCreate(ctx, account.ID, func() (string, error) {
		return a.Signer.Issue(account.ID)
	})
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, serializers.LoginRead{
		Token:    tok.Key,
		UserID:   account.ID,
		Username: account.Username,
		IsStaff:  account.IsStaff,
	})
}

// Me returns the authenticated account.
func (a *AuthController) Me(c *gin.Context) {
	p := middleware.CurrentPrincipal(c)
	if !p.Authenticated() {
		middleware.Abort(c, apperrors.ErrUnauthorized)
		return
	}
	account, err := a.Accounts.Get(c.Request.Context(), p.AccountID)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, serializers.ReadAccount(account))
}
