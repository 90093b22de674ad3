package controllers

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type UserController struct {
	service *services.AuthService
}

func NewUserController(service *services.AuthService) *UserController {
	return &UserController{service: service}
}

func (h *UserController) Register(c *ctx.Context) {
	var in services.RegisterInput
	if !c.BindJSON(&in) {
		return
	}
	u, err := h.service.Register(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created("User register successfully", u)
}

func (h *UserController) Login(c *ctx.Context) {
	var in services.LoginInput
	if !c.BindJSON(&in) {
		return
	}
	tokens, err := h.service.Login(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success("Login successfully", tokens)
}

// RefreshToken accepts the refresh token as a bearer header or in the body.
func (h *UserController) RefreshToken(c *ctx.Context) {
	var in struct {
		RefreshToken string `json:"refreshToken"`
	}
	token := bearer(c.Header("Authorization"))
	if token == "" {
		if !c.BindJSON(&in) {
			return
		}
		token = in.RefreshToken
	}
	if token == "" {
		c.Unauthorized("Refresh token is required")
		return
	}
	access, err := h.service.Refresh(c.Context(), token)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success("New access token generated", map[string]string{"accessToken": access})
}

func (h *UserController) Details(c *ctx.Context) {
	u, err := h.service.Profile(c.Context(), c.UserID())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success("User details", u)
}

func bearer(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
