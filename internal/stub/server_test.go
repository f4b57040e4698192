package stub

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/config"
)

const testSecret = "test-secret"

// newTestServer starts a stub backed by its own in-memory database
func newTestServer(t *testing.T, mutate ...func(*config.StubConfig)) (*Server, *httptest.Server) {
	t.Helper()

	cfg := config.StubConfig{
		JWTSecret:   testSecret,
		DatabaseURL: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LoginURL:    "/login",
	}
	for _, m := range mutate {
		m(&cfg)
	}

	srv, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return srv, ts
}

type response struct {
	Status int
	Body   map[string]any
}

func doJSON(t *testing.T, method, url string, body any, headers map[string]string) response {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := response{Status: resp.StatusCode}
	if resp.StatusCode != http.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&out.Body)
	}
	return out
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// signUp registers email and returns an access and refresh token pair
func signUp(t *testing.T, ts *httptest.Server, email string) (string, string) {
	t.Helper()

	reg := doJSON(t, http.MethodPost, ts.URL+"/auth/register/", map[string]string{
		"email": email, "password": "password123", "confirm_password": "password123",
	}, nil)
	require.Equal(t, http.StatusCreated, reg.Status, reg.Body)

	tok := doJSON(t, http.MethodPost, ts.URL+"/auth/v1/token?grant_type=password", map[string]string{
		"email": email, "password": "password123",
	}, map[string]string{"apikey": "anon"})
	require.Equal(t, http.StatusOK, tok.Status, tok.Body)

	return tok.Body["access_token"].(string), tok.Body["refresh_token"].(string)
}

func TestHealthCheck(t *testing.T) {
	_, ts := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/health/", nil, nil)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "ok", resp.Body["status"])
}

func TestRegister(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name   string
		body   map[string]string
		status int
	}{
		{"passwords differ", map[string]string{"email": "a@example.com", "password": "password123", "confirm_password": "password124"}, http.StatusBadRequest},
		{"password too short", map[string]string{"email": "a@example.com", "password": "short", "confirm_password": "short"}, http.StatusBadRequest},
		{"invalid email", map[string]string{"email": "nope", "password": "password123", "confirm_password": "password123"}, http.StatusBadRequest},
		{"valid", map[string]string{"email": "A@Example.com", "password": "password123", "confirm_password": "password123"}, http.StatusCreated},
		{"duplicate", map[string]string{"email": "a@example.com", "password": "password123", "confirm_password": "password123"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, ts.URL+"/auth/register/", tt.body, nil)
			assert.Equal(t, tt.status, resp.Status, resp.Body)
			if tt.status == http.StatusCreated {
				assert.Contains(t, resp.Body["message"], "Account created")
			} else {
				assert.NotEmpty(t, resp.Body["detail"])
			}
		})
	}
}

func TestRegister_EmailDomainAllowlist(t *testing.T) {
	_, ts := newTestServer(t, func(cfg *config.StubConfig) {
		cfg.AllowedEmailDomains = []string{"gmail.com"}
	})

	resp := doJSON(t, http.MethodPost, ts.URL+"/auth/register/", map[string]string{
		"email": "cook@tempmail.dev", "password": "password123", "confirm_password": "password123",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Contains(t, resp.Body["detail"], "Email domain is not allowed")

	resp = doJSON(t, http.MethodPost, ts.URL+"/auth/register/", map[string]string{
		"email": "cook@gmail.com", "password": "password123", "confirm_password": "password123",
	}, nil)
	assert.Equal(t, http.StatusCreated, resp.Status)
}

func TestTokenGrants(t *testing.T) {
	_, ts := newTestServer(t)
	access, refresh := signUp(t, ts, "cook@example.com")
	assert.NotEmpty(t, access)

	apikey := map[string]string{"apikey": "anon"}
	tokenURL := ts.URL + "/auth/v1/token?grant_type="

	t.Run("wrong password", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, tokenURL+"password", map[string]string{
			"email": "cook@example.com", "password": "nope-nope",
		}, apikey)
		assert.Equal(t, http.StatusBadRequest, resp.Status)
		assert.Equal(t, "invalid_grant", resp.Body["error"])
		assert.Equal(t, "Invalid login credentials", resp.Body["error_description"])
	})

	t.Run("missing api key", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, tokenURL+"password", map[string]string{
			"email": "cook@example.com", "password": "password123",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.Status)
	})

	t.Run("unsupported grant", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, tokenURL+"magic", map[string]string{}, apikey)
		assert.Equal(t, "unsupported_grant_type", resp.Body["error"])
	})

	t.Run("refresh token works once", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, tokenURL+"refresh_token", map[string]string{"refresh_token": refresh}, apikey)
		require.Equal(t, http.StatusOK, resp.Status)
		assert.NotEqual(t, refresh, resp.Body["refresh_token"])

		user := resp.Body["user"].(map[string]any)
		assert.Equal(t, "cook@example.com", user["email"])

		again := doJSON(t, http.MethodPost, tokenURL+"refresh_token", map[string]string{"refresh_token": refresh}, apikey)
		assert.Equal(t, http.StatusBadRequest, again.Status)
	})
}

func TestProviderLogoutRevokesRefreshTokens(t *testing.T) {
	_, ts := newTestServer(t)
	access, refresh := signUp(t, ts, "cook@example.com")

	headers := bearer(access)
	headers["apikey"] = "anon"

	resp := doJSON(t, http.MethodPost, ts.URL+"/auth/v1/logout", nil, headers)
	assert.Equal(t, http.StatusNoContent, resp.Status)

	resp = doJSON(t, http.MethodPost, ts.URL+"/auth/v1/token?grant_type=refresh_token",
		map[string]string{"refresh_token": refresh}, map[string]string{"apikey": "anon"})
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestProtectedRoutes_AuthSignal(t *testing.T) {
	srv, ts := newTestServer(t)
	access, _ := signUp(t, ts, "cook@example.com")

	claims, err := srv.tokens.Validate(access)
	require.NoError(t, err)
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", codeAuthRequired},
		{"malformed header", "Bearer", codeInvalidAuthHeader},
		{"expired token", "Bearer " + expired, codeAuthRequired},
		{"wrong signature", "Bearer " + forged, codeAuthRequired},
		{"other scheme", "Basic abc", codeAuthRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			resp := doJSON(t, http.MethodGet, ts.URL+"/recipes/", nil, headers)

			assert.Equal(t, http.StatusUnauthorized, resp.Status)
			assert.Equal(t, tt.code, resp.Body["code"])
			assert.Equal(t, "/login", resp.Body["login_url"])
		})
	}

	resp := doJSON(t, http.MethodGet, ts.URL+"/recipes/", nil, bearer(access))
	assert.Equal(t, http.StatusOK, resp.Status)
}

func TestSuggestions(t *testing.T) {
	_, ts := newTestServer(t)
	access, _ := signUp(t, ts, "cook@example.com")
	body := map[string]any{"ingredients": []string{"eggs", "rice", "salt"}}

	anon := doJSON(t, http.MethodPost, ts.URL+"/suggestions/", body, nil)
	require.Equal(t, http.StatusCreated, anon.Status)
	assert.NotEmpty(t, anon.Body["saved_recipe_id"])
	assert.Nil(t, anon.Body["history_entry_id"])

	recipe := anon.Body["recipe"].(map[string]any)
	assert.Equal(t, "Creative eggs, rice Bowl", recipe["title"])
	assert.Equal(t, float64(2), recipe["servings"])

	signed := doJSON(t, http.MethodPost, ts.URL+"/suggestions/", body, bearer(access))
	require.Equal(t, http.StatusCreated, signed.Status)
	assert.NotEmpty(t, signed.Body["history_entry_id"])

	history := doJSON(t, http.MethodGet, ts.URL+"/history/", nil, bearer(access))
	require.Equal(t, http.StatusOK, history.Status)
	entries := history.Body["history"].([]any)
	require.Len(t, entries, 1)
	assert.Equal(t, "eggs, rice, salt", entries[0].(map[string]any)["query"])

	invalid := doJSON(t, http.MethodPost, ts.URL+"/suggestions/", map[string]any{"ingredients": []string{}}, nil)
	assert.Equal(t, http.StatusBadRequest, invalid.Status)

	badToken := doJSON(t, http.MethodPost, ts.URL+"/suggestions/", body, bearer("garbage"))
	assert.Equal(t, http.StatusUnauthorized, badToken.Status)
}

func TestRecipeScopesAndFavorites(t *testing.T) {
	_, ts := newTestServer(t)
	alice, _ := signUp(t, ts, "alice@example.com")
	bob, _ := signUp(t, ts, "bob@example.com")

	generate := func(token string, ingredients ...string) string {
		resp := doJSON(t, http.MethodPost, ts.URL+"/suggestions/", map[string]any{"ingredients": ingredients}, bearer(token))
		require.Equal(t, http.StatusCreated, resp.Status)
		return resp.Body["saved_recipe_id"].(string)
	}
	generate(alice, "eggs")
	generate(alice, "rice")
	bobRecipe := generate(bob, "tomato")

	count := func(query string) int {
		resp := doJSON(t, http.MethodGet, ts.URL+"/recipes/"+query, nil, bearer(alice))
		require.Equal(t, http.StatusOK, resp.Status, resp.Body)
		return len(resp.Body["recipes"].([]any))
	}

	assert.Equal(t, 2, count(""))
	assert.Equal(t, 2, count("?scope=mine"))
	assert.Equal(t, 3, count("?scope=public"))
	assert.Equal(t, 1, count("?scope=public&limit=1"))
	assert.Equal(t, 0, count("?scope=favorites"))

	fav := doJSON(t, http.MethodPost, ts.URL+"/favorites/", map[string]string{"recipe_id": bobRecipe, "action": "add"}, bearer(alice))
	require.Equal(t, http.StatusOK, fav.Status)
	assert.Equal(t, "added", fav.Body["status"])

	list := doJSON(t, http.MethodGet, ts.URL+"/recipes/?scope=favorites", nil, bearer(alice))
	recipes := list.Body["recipes"].([]any)
	require.Len(t, recipes, 1)
	assert.Equal(t, true, recipes[0].(map[string]any)["is_favorite"])

	one := doJSON(t, http.MethodGet, ts.URL+"/recipes/"+bobRecipe, nil, bearer(alice))
	require.Equal(t, http.StatusOK, one.Status)
	assert.Equal(t, true, one.Body["recipe"].(map[string]any)["is_favorite"])

	fav = doJSON(t, http.MethodPost, ts.URL+"/favorites/", map[string]string{"recipe_id": bobRecipe, "action": "remove"}, bearer(alice))
	assert.Equal(t, "removed", fav.Body["status"])
	assert.Equal(t, 0, count("?scope=favorites"))

	t.Run("validation", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, ts.URL+"/recipes/?limit=51", nil, bearer(alice))
		assert.Equal(t, http.StatusBadRequest, resp.Status)

		resp = doJSON(t, http.MethodGet, ts.URL+"/recipes/?scope=everyone", nil, bearer(alice))
		assert.Equal(t, http.StatusBadRequest, resp.Status)

		resp = doJSON(t, http.MethodPost, ts.URL+"/favorites/", map[string]string{"recipe_id": "not-a-uuid", "action": "add"}, bearer(alice))
		assert.Equal(t, http.StatusBadRequest, resp.Status)

		resp = doJSON(t, http.MethodPost, ts.URL+"/favorites/", map[string]string{"recipe_id": uuid.NewString(), "action": "add"}, bearer(alice))
		assert.Equal(t, http.StatusNotFound, resp.Status)

		resp = doJSON(t, http.MethodGet, ts.URL+"/recipes/"+uuid.NewString(), nil, bearer(alice))
		assert.Equal(t, http.StatusNotFound, resp.Status)
	})
}

func TestProfile(t *testing.T) {
	_, ts := newTestServer(t)
	access, _ := signUp(t, ts, "cook@example.com")

	resp := doJSON(t, http.MethodGet, ts.URL+"/profile/", nil, bearer(access))
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Nil(t, resp.Body["profile"])

	resp = doJSON(t, http.MethodPut, ts.URL+"/profile/", map[string]any{
		"display_name":     "Chef",
		"diet_preferences": []string{"vegan"},
		"calorie_target":   2000,
	}, bearer(access))
	require.Equal(t, http.StatusOK, resp.Status, resp.Body)

	resp = doJSON(t, http.MethodPut, ts.URL+"/profile/", map[string]any{"allergens": []string{"peanuts"}}, bearer(access))
	require.Equal(t, http.StatusOK, resp.Status)

	profile := resp.Body["profile"].(map[string]any)
	assert.Equal(t, "Chef", profile["display_name"])
	assert.Equal(t, []any{"vegan"}, profile["diet_preferences"])
	assert.Equal(t, []any{"peanuts"}, profile["allergens"])
	assert.Equal(t, float64(2000), profile["calorie_target"])

	resp = doJSON(t, http.MethodPut, ts.URL+"/profile/", map[string]any{"avatar_url": "not a url"}, bearer(access))
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestAuthStatusAndLogout(t *testing.T) {
	_, ts := newTestServer(t)
	access, _ := signUp(t, ts, "cook@example.com")

	resp := doJSON(t, http.MethodGet, ts.URL+"/auth/status/", nil, nil)
	assert.Equal(t, false, resp.Body["isLoggedIn"])

	resp = doJSON(t, http.MethodGet, ts.URL+"/auth/status/", nil, bearer(access))
	assert.Equal(t, true, resp.Body["isLoggedIn"])

	resp = doJSON(t, http.MethodPost, ts.URL+"/auth/logout/", nil, nil)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "ok", resp.Body["status"])
}

func TestTopIngredients(t *testing.T) {
	history := []HistoryEntry{
		{Ingredients: []string{"Eggs", "rice"}},
		{Ingredients: []string{"tomato", " eggs ", ""}},
		{Ingredients: []string{"rice", "basil"}},
		{Ingredients: []string{"eggs"}},
	}

	assert.Equal(t, []string{"eggs", "rice", "tomato", "basil"}, topIngredients(history, 10))
	assert.Equal(t, []string{"eggs", "rice"}, topIngredients(history, 2))
	assert.Equal(t, []string{}, topIngredients(nil, 10))
}

func TestTemplateGenerator(t *testing.T) {
	r := TemplateGenerator{}.Generate(SuggestionRequest{Ingredients: []string{"eggs", "rice", "Salt"}, Servings: 4})

	assert.Equal(t, "Creative eggs, rice Bowl", r.Title)
	assert.Equal(t, 4, r.Servings)
	assert.Len(t, r.Ingredients, 3)
	assert.Len(t, r.Instructions, 3)
	assert.Equal(t, []string{"eggs", "rice"}, r.ShoppingList)
	assert.Equal(t, float64(450), r.Nutrition["calories"])
	assert.Equal(t, "llm-unavailable", r.ModelVersion)

	assert.Equal(t, "AI Pantry Bowl", TemplateGenerator{}.Generate(SuggestionRequest{}).Title)
}
