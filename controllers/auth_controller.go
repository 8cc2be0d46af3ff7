package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"restaurant-service/apperrors"
)

// TokenIssuer is satisfied by services.TokenService.
type TokenIssuer interface {
	Issue(claims map[string]interface{}) (string, error)
}

type AuthController struct {
	Tokens TokenIssuer
}

func NewAuthController(tokens TokenIssuer) *AuthController {
	return &AuthController{Tokens: tokens}
}

// IssueToken signs the posted identity claims into a one day bearer token.
func (ac *AuthController) IssueToken(c *gin.Context) {
	var claims map[string]interface{}
	if !bindJSON(c, &claims) {
		return
	}
	email, _ := claims["email"].(string)
	if strings.TrimSpace(email) == "" {
		apperrors.Abort(c, apperrors.New(http.StatusBadRequest, "email is required", nil))
		return
	}

	token, err := ac.Tokens.Issue(claims)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
