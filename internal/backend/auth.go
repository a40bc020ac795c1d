package backend

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/example/campus-events/internal/session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleLoginRequest struct {
	IDToken string `json:"idToken"`
}

type loginDTO struct {
	Token       string   `json:"token"`
	AccessToken string   `json:"accessToken"`
	UserID      flexID   `json:"userId"`
	UserName    string   `json:"userName"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	RoleName    string   `json:"roleName"`
	Role        string   `json:"role"`
	ExpiresAt   string   `json:"expiresAt"`
	Expiration  string   `json:"expiration"`
	User        *userDTO `json:"user"`
}

func (d loginDTO) toSession() session.Session {
	result := session.Session{
		Token:     firstString(d.Token, d.AccessToken),
		UserID:    string(d.UserID),
		UserName:  firstString(d.UserName, d.Name),
		Email:     strings.TrimSpace(d.Email),
		RoleName:  firstString(d.RoleName, d.Role),
		ExpiresAt: firstString(d.ExpiresAt, d.Expiration),
	}
	if d.User != nil {
		user := d.User.toDomain()
		if result.UserID == "" {
			result.UserID = user.ID
		}
		if result.UserName == "" {
			result.UserName = user.Name
		}
		if result.Email == "" {
			result.Email = user.Email
		}
		if result.RoleName == "" {
			result.RoleName = user.RoleName
		}
	}
	if result.ExpiresAt == "" {
		result.ExpiresAt = TokenExpiry(result.Token)
	}
	return result
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature;
// the backend owns verification. It returns "" when the token carries no
// usable exp.
func TokenExpiry(token string) string {
	if strings.TrimSpace(token) == "" {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return ""
	}
	return exp.Time.UTC().Format(time.RFC3339)
}

// Login exchanges email and password for a session. A 401 here is a failed
// attempt and does not trigger the unauthorized hook.
func (c *Client) Login(ctx context.Context, email, password string) (session.Session, error) {
	var payload loginDTO
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/Auth/login",
		body:   loginRequest{Email: email, Password: password},
		login:  true,
	}, &payload)
	if err != nil {
		return session.Session{}, err
	}
	return payload.toSession(), nil
}

// GoogleLogin exchanges a Google identity token for a session.
func (c *Client) GoogleLogin(ctx context.Context, idToken string) (session.Session, error) {
	var payload loginDTO
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/Auth/google-login",
		body:   googleLoginRequest{IDToken: idToken},
		login:  true,
	}, &payload)
	if err != nil {
		return session.Session{}, err
	}
	return payload.toSession(), nil
}
