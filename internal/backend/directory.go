package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/example/campus-events/internal/domain"
)

// NewUser carries the fields needed to create an account.
type NewUser struct {
	Name     string
	Email    string
	Password string
	RoleName string
	Phone    string
}

// ListUsers returns every account.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var payload []userDTO
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/User"}, &payload); err != nil {
		return nil, err
	}
	return convert(payload, userDTO.toDomain), nil
}

// CreateUser creates an account.
func (c *Client) CreateUser(ctx context.Context, user NewUser) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/User",
		body: userRequest{
			UserName: user.Name,
			Email:    user.Email,
			Password: user.Password,
			RoleName: user.RoleName,
			Phone:    user.Phone,
		},
	}, nil)
}

// UpdateUser replaces the profile fields of an account.
func (c *Client) UpdateUser(ctx context.Context, user domain.User) error {
	return c.do(ctx, call{
		method: http.MethodPut,
		path:   "/api/User/" + url.PathEscape(user.ID),
		body: userRequest{
			UserName: user.Name,
			Email:    user.Email,
			RoleName: user.RoleName,
			Phone:    user.Phone,
		},
	}, nil)
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/api/User/" + url.PathEscape(userID)}, nil)
}

// ListSpeakers returns every speaker.
func (c *Client) ListSpeakers(ctx context.Context) ([]domain.Speaker, error) {
	var payload []speakerDTO
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/Speaker"}, &payload); err != nil {
		return nil, err
	}
	return convert(payload, speakerDTO.toDomain), nil
}

// CreateSpeaker registers a speaker.
func (c *Client) CreateSpeaker(ctx context.Context, speaker domain.Speaker) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/Speaker",
		body:   speakerRequest{SpeakerName: speaker.Name, Email: speaker.Email, Bio: speaker.Bio},
	}, nil)
}

// UpdateSpeaker replaces a speaker's details.
func (c *Client) UpdateSpeaker(ctx context.Context, speaker domain.Speaker) error {
	return c.do(ctx, call{
		method: http.MethodPut,
		path:   "/api/Speaker/" + url.PathEscape(speaker.ID),
		body:   speakerRequest{SpeakerName: speaker.Name, Email: speaker.Email, Bio: speaker.Bio},
	}, nil)
}

// DeleteSpeaker removes a speaker.
func (c *Client) DeleteSpeaker(ctx context.Context, speakerID string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/api/Speaker/" + url.PathEscape(speakerID)}, nil)
}
