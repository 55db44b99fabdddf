package client_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"hackline/internal/client"
	"hackline/internal/domain"
)

func storyJSON(id string, title string) string {
	return fmt.Sprintf(`{
		"storyId": %q,
		"author": "Author of %s",
		"title": %q,
		"url": "https://example.com/%s",
		"username": "bob",
		"createdAt": "2024-01-02T03:04:05.000Z",
		"updatedAt": "2024-01-02T03:04:05.000Z"
	}`, id, id, title, id)
}

func newTestClient(t *testing.T, handler http.Handler) *client.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return client.New(server.URL, slog.Default())
}

func TestSignupReturnsUserWithToken(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/signup" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		body, _ := io.ReadAll(r.Body)
		var payload struct {
			User struct {
				Username string `json:"username"`
				Password string `json:"password"`
				Name     string `json:"name"`
			} `json:"user"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("decode signup payload: %v", err)
		}
		if payload.User.Username != "bob" || payload.User.Password != "secret" || payload.User.Name != "Bob" {
			t.Errorf("unexpected signup payload: %+v", payload.User)
		}

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{
			"token": "tok-123",
			"user": {
				"username": "bob",
				"name": "Bob",
				"createdAt": "2024-01-02T03:04:05.000Z",
				"updatedAt": "2024-01-02T03:04:05.000Z",
				"favorites": [],
				"stories": []
			}
		}`)
	})

	c := newTestClient(t, handler)

	user, err := c.Signup(t.Context(), "bob", "secret", "Bob")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if user.Username != "bob" || user.Name != "Bob" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if user.Token == "" {
		t.Fatalf("expected a non-empty token after signup")
	}
}

func TestLoginPopulatesFavoritesAndOwnStories(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		fmt.Fprintf(w, `{
			"token": "tok-123",
			"user": {
				"username": "bob",
				"name": "Bob",
				"createdAt": "2024-01-02T03:04:05.000Z",
				"updatedAt": "2024-01-02T03:04:05.000Z",
				"favorites": [%s, %s],
				"stories": [%s]
			}
		}`, storyJSON("f1", "Fav one"), storyJSON("f2", "Fav two"), storyJSON("s1", "Own one"))
	})

	c := newTestClient(t, handler)

	user, err := c.Login(t.Context(), "bob", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if got := len(user.Favorites); got != 2 {
		t.Fatalf("expected 2 favorites, got %d", got)
	}

	if got := len(user.OwnStories); got != 1 {
		t.Fatalf("expected 1 own story, got %d", got)
	}

	if user.Favorites[0].StoryID != "f1" || user.Favorites[1].StoryID != "f2" {
		t.Fatalf("unexpected favorite IDs: %+v", user.Favorites)
	}

	if user.OwnStories[0].StoryID != "s1" {
		t.Fatalf("unexpected own story ID: %q", user.OwnStories[0].StoryID)
	}

	if user.Token != "tok-123" {
		t.Fatalf("expected issued token to be attached, got %q", user.Token)
	}
}

func TestLoggedInUserMissingCredentialsSkipsNetwork(t *testing.T) {
	requests := 0
	handler := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		requests++
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
	})

	c := newTestClient(t, handler)

	for _, tc := range []struct {
		name     string
		token    string
		username string
	}{
		{name: "missing token", token: "", username: "bob"},
		{name: "missing username", token: "tok-123", username: ""},
		{name: "missing both", token: "", username: ""},
	} {
		user, err := c.LoggedInUser(t.Context(), tc.token, tc.username)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if user != nil {
			t.Fatalf("%s: expected nil user, got %+v", tc.name, user)
		}
	}

	if requests != 0 {
		t.Fatalf("expected no network calls, got %d", requests)
	}
}

func TestLoggedInUserFetchesByUsername(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/users/bob" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("token"); got != "tok-123" {
			t.Errorf("expected token query param, got %q", got)
		}

		fmt.Fprintf(w, `{
			"user": {
				"username": "bob",
				"name": "Bob",
				"createdAt": "2024-01-02T03:04:05.000Z",
				"updatedAt": "2024-01-02T03:04:05.000Z",
				"favorites": [%s],
				"stories": []
			}
		}`, storyJSON("f1", "Fav one"))
	})

	c := newTestClient(t, handler)

	user, err := c.LoggedInUser(t.Context(), "tok-123", "bob")
	if err != nil {
		t.Fatalf("logged in user: %v", err)
	}

	if user == nil {
		t.Fatalf("expected a user")
	}

	if user.Token != "tok-123" {
		t.Fatalf("expected the given token to be attached, got %q", user.Token)
	}

	if got := len(user.Favorites); got != 1 {
		t.Fatalf("expected 1 favorite, got %d", got)
	}
}

func TestAddStoryPrependsToListAndOwnStories(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/stories" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		body, _ := io.ReadAll(r.Body)
		var payload struct {
			Token string `json:"token"`
			Story struct {
				Author string `json:"author"`
				Title  string `json:"title"`
				URL    string `json:"url"`
			} `json:"story"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("decode create payload: %v", err)
		}
		if payload.Token != "tok-123" {
			t.Errorf("expected token in body, got %q", payload.Token)
		}
		if payload.Story.Title != "T" || payload.Story.Author != "A" || payload.Story.URL != "https://u.example" {
			t.Errorf("unexpected story payload: %+v", payload.Story)
		}

		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"story": %s}`, storyJSON("new1", "T"))
	})

	c := newTestClient(t, handler)

	user := &domain.User{Username: "bob", Token: "tok-123"}
	list := &domain.StoryList{Stories: []domain.Story{{StoryID: "old1"}}}

	story, err := c.AddStory(t.Context(), user, list, domain.StoryDraft{
		Author: "A",
		Title:  "T",
		URL:    "https://u.example",
	})
	if err != nil {
		t.Fatalf("add story: %v", err)
	}

	if story.StoryID != "new1" {
		t.Fatalf("unexpected story ID: %q", story.StoryID)
	}

	if got := len(list.Stories); got != 2 {
		t.Fatalf("expected list to grow by one, got %d stories", got)
	}

	if list.Stories[0].StoryID != "new1" {
		t.Fatalf("expected new story first in list, got %q", list.Stories[0].StoryID)
	}

	if len(user.OwnStories) != 1 || user.OwnStories[0].StoryID != "new1" {
		t.Fatalf("expected new story first in own stories, got %+v", user.OwnStories)
	}
}

func TestRemoveStoryClearsAllThreeLists(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/stories/sid1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		body, _ := io.ReadAll(r.Body)
		var payload struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(body, &payload); err != nil || payload.Token != "tok-123" {
			t.Errorf("expected token in delete body, got %q (err %v)", payload.Token, err)
		}

		fmt.Fprint(w, `{}`)
	})

	c := newTestClient(t, handler)

	target := domain.Story{StoryID: "sid1"}
	other := domain.Story{StoryID: "sid2"}

	user := &domain.User{
		Username:   "bob",
		Token:      "tok-123",
		Favorites:  []domain.Story{target, other},
		OwnStories: []domain.Story{target},
	}
	list := &domain.StoryList{Stories: []domain.Story{target, other}}

	if err := c.RemoveStory(t.Context(), user, list, "sid1"); err != nil {
		t.Fatalf("remove story: %v", err)
	}

	for name, stories := range map[string][]domain.Story{
		"list":        list.Stories,
		"own stories": user.OwnStories,
		"favorites":   user.Favorites,
	} {
		for _, s := range stories {
			if s.StoryID == "sid1" {
				t.Fatalf("expected sid1 to be gone from %s", name)
			}
		}
	}

	if len(list.Stories) != 1 || len(user.Favorites) != 1 {
		t.Fatalf("expected unrelated stories to survive, list %d favorites %d",
			len(list.Stories), len(user.Favorites))
	}
}

func TestFavoriteTogglePostsAndDeletes(t *testing.T) {
	var methods []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/bob/favorites/sid1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		body, _ := io.ReadAll(r.Body)
		var payload struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(body, &payload); err != nil || payload.Token != "tok-123" {
			t.Errorf("expected token in body, got %q (err %v)", payload.Token, err)
		}

		methods = append(methods, r.Method)
		fmt.Fprint(w, `{}`)
	})

	c := newTestClient(t, handler)

	user := &domain.User{Username: "bob", Token: "tok-123"}
	story := domain.Story{StoryID: "sid1"}

	if err := c.AddFavorite(t.Context(), user, story); err != nil {
		t.Fatalf("add favorite: %v", err)
	}

	if !user.IsFavorite(story) {
		t.Fatalf("expected story to be a favorite after add")
	}

	if err := c.RemoveFavorite(t.Context(), user, story); err != nil {
		t.Fatalf("remove favorite: %v", err)
	}

	if user.IsFavorite(story) {
		t.Fatalf("expected story to be gone after remove")
	}

	if len(methods) != 2 || methods[0] != http.MethodPost || methods[1] != http.MethodDelete {
		t.Fatalf("expected POST then DELETE, got %v", methods)
	}
}

func TestFavoriteLocalStateSurvivesRequestFailure(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error": {"message": "boom"}}`)
	})

	c := newTestClient(t, handler)

	user := &domain.User{Username: "bob", Token: "tok-123"}
	story := domain.Story{StoryID: "sid1"}

	if err := c.AddFavorite(t.Context(), user, story); err == nil {
		t.Fatalf("expected add favorite to fail")
	}

	if !user.IsFavorite(story) {
		t.Fatalf("expected optimistic local add to stick despite the failure")
	}

	if err := c.RemoveFavorite(t.Context(), user, story); err == nil {
		t.Fatalf("expected remove favorite to fail")
	}

	if user.IsFavorite(story) {
		t.Fatalf("expected optimistic local remove to stick despite the failure")
	}
}

func TestStoriesReturnsFreshSnapshot(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/stories" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("token"); got != "" {
			t.Errorf("feed fetch must not carry a credential, got %q", got)
		}

		fmt.Fprintf(w, `{"stories": [%s, %s]}`, storyJSON("s1", "First"), storyJSON("s2", "Second"))
	})

	c := newTestClient(t, handler)

	list, err := c.Stories(t.Context())
	if err != nil {
		t.Fatalf("stories: %v", err)
	}

	if got := len(list.Stories); got != 2 {
		t.Fatalf("expected 2 stories, got %d", got)
	}

	if list.Stories[0].StoryID != "s1" || list.Stories[1].StoryID != "s2" {
		t.Fatalf("expected server order to be preserved, got %+v", list.Stories)
	}
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"message": "invalid credentials"}}`)
	})

	c := newTestClient(t, handler)

	_, err := c.Login(t.Context(), "bob", "wrong")
	if err == nil {
		t.Fatalf("expected login to fail")
	}

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected an APIError, got %T: %v", err, err)
	}

	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", apiErr.StatusCode)
	}

	if apiErr.Message != "invalid credentials" {
		t.Fatalf("unexpected message: %q", apiErr.Message)
	}
}

func TestTransportFailureIsNotAPIError(t *testing.T) {
	c := client.New("http://127.0.0.1:1", slog.Default())

	_, err := c.Stories(t.Context())
	if err == nil {
		t.Fatalf("expected a transport failure")
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("transport failures must not be APIErrors: %v", err)
	}
}
