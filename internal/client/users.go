package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"hackline/internal/domain"
)

type credentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type authRequest struct {
	User credentialsPayload `json:"user"`
}

type authResponse struct {
	User  userRecord `json:"user"`
	Token string     `json:"token"`
}

type userResponse struct {
	User userRecord `json:"user"`
}

type tokenPayload struct {
	Token string `json:"token"`
}

// Signup creates a remote account and returns the new user with the issued
// token attached.
func (c *Client) Signup(
	ctx context.Context,
	username string,
	password string,
	name string,
) (*domain.User, error) {
	req := authRequest{User: credentialsPayload{
		Username: username,
		Password: password,
		Name:     name,
	}}

	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/signup", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	return userFromRecord(resp.User, resp.Token), nil
}

// Login authenticates an existing account. The returned user carries the
// issued token and the favorites and own stories embedded in the response.
func (c *Client) Login(
	ctx context.Context,
	username string,
	password string,
) (*domain.User, error) {
	req := authRequest{User: credentialsPayload{
		Username: username,
		Password: password,
	}}

	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/login", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	return userFromRecord(resp.User, resp.Token), nil
}

// LoggedInUser rehydrates a user from persisted credentials. When either
// credential is empty it returns (nil, nil) without touching the network;
// absent credentials are a normal state, not a failure.
func (c *Client) LoggedInUser(
	ctx context.Context,
	token string,
	username string,
) (*domain.User, error) {
	token = strings.TrimSpace(token)
	username = strings.TrimSpace(username)

	if token == "" || username == "" {
		return nil, nil
	}

	query := url.Values{"token": {token}}

	var resp userResponse
	if err := c.doJSON(ctx, http.MethodGet, "/users/"+url.PathEscape(username), query, nil, &resp); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return userFromRecord(resp.User, token), nil
}

// AddFavorite marks the story as one of the user's favorites. The local list
// is updated before the request settles and is not rolled back on failure;
// the next rehydration reconciles with the server.
func (c *Client) AddFavorite(ctx context.Context, user *domain.User, story domain.Story) error {
	user.Favorite(story)

	return c.toggleFavorite(ctx, user, story.StoryID, http.MethodPost)
}

// RemoveFavorite is the inverse of AddFavorite, with the same optimistic
// local update.
func (c *Client) RemoveFavorite(ctx context.Context, user *domain.User, story domain.Story) error {
	user.Unfavorite(story.StoryID)

	return c.toggleFavorite(ctx, user, story.StoryID, http.MethodDelete)
}

func (c *Client) toggleFavorite(
	ctx context.Context,
	user *domain.User,
	storyID string,
	method string,
) error {
	path := "/users/" + url.PathEscape(user.Username) + "/favorites/" + url.PathEscape(storyID)

	if err := c.doJSON(ctx, method, path, nil, tokenPayload{Token: user.Token}, nil); err != nil {
		return fmt.Errorf("toggle favorite: %w", err)
	}

	return nil
}
