package api

import (
	"context"
	"fmt"

	"github.com/cgea-sas/console/internal/client/client"
	"github.com/cgea-sas/console/internal/client/models"
)

const (
	loginPath   = "token/"
	refreshPath = "token/refresh/"
)

type AuthAPI struct {
	c *client.Client
}

func NewAuthAPI(c *client.Client) *AuthAPI {
	return &AuthAPI{c: c}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

func (a *AuthAPI) Login(ctx context.Context, creds models.Credentials) (models.TokenPair, error) {
	var pair models.TokenPair
	if err := a.c.PostJSON(ctx, loginPath, loginRequest{Username: creds.Username, Password: creds.Password}, &pair); err != nil {
		return models.TokenPair{}, fmt.Errorf("login: %w", err)
	}
	if pair.Access == "" || pair.Refresh == "" {
		return models.TokenPair{}, fmt.Errorf("login: response without tokens")
	}
	return pair, nil
}

// Refresh implements client.Refresher.
func (a *AuthAPI) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var out refreshResponse
	if err := a.c.PostJSON(ctx, refreshPath, refreshRequest{Refresh: refreshToken}, &out); err != nil {
		return "", fmt.Errorf("refresh: %w", err)
	}
	if out.Access == "" {
		return "", fmt.Errorf("refresh: response without access token")
	}
	return out.Access, nil
}
