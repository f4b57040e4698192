package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// GenerateRecipe asks the backend for a new recipe built from the payload
func (c *Client) GenerateRecipe(ctx context.Context, payload RecipeRequest, token string) (Result[GenerateResponse], error) {
	if err := c.checkPayload(payload); err != nil {
		return Result[GenerateResponse]{}, err
	}
	return Do[GenerateResponse](ctx, c, Request{
		Path:   "/suggestions/",
		Method: http.MethodPost,
		Body:   payload,
		Token:  token,
	})
}

// ListRecipes returns saved recipes in the given scope
func (c *Client) ListRecipes(ctx context.Context, params ListParams, token string) (Result[RecipeListResponse], error) {
	if err := c.checkPayload(params); err != nil {
		return Result[RecipeListResponse]{}, err
	}

	query := url.Values{}
	if params.Scope != "" {
		query.Set("scope", string(params.Scope))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}

	path := "/recipes/"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	return Do[RecipeListResponse](ctx, c, Request{Path: path, Method: http.MethodGet, Token: token})
}

// FetchRecipe returns one recipe by ID
func (c *Client) FetchRecipe(ctx context.Context, recipeID, token string) (Result[RecipeResponse], error) {
	if recipeID == "" {
		return Result[RecipeResponse]{}, &ValidationError{Err: errMissingRecipeID}
	}
	return Do[RecipeResponse](ctx, c, Request{
		Path:   "/recipes/" + url.PathEscape(recipeID),
		Method: http.MethodGet,
		Token:  token,
	})
}

// ListHistory returns past generation requests. A limit of zero uses the
// backend default.
func (c *Client) ListHistory(ctx context.Context, limit int, token string) (Result[HistoryResponse], error) {
	path := "/history/"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}
	return Do[HistoryResponse](ctx, c, Request{Path: path, Method: http.MethodGet, Token: token})
}

// ToggleFavorite adds or removes a recipe from the user's favorites
func (c *Client) ToggleFavorite(ctx context.Context, recipeID string, action FavoriteAction, token string) (Result[StatusResponse], error) {
	payload := FavoriteRequest{RecipeID: recipeID, Action: action}
	if err := c.checkPayload(payload); err != nil {
		return Result[StatusResponse]{}, err
	}
	return Do[StatusResponse](ctx, c, Request{
		Path:   "/favorites/",
		Method: http.MethodPost,
		Body:   payload,
		Token:  token,
	})
}

// RegisterUser creates an account. No token is sent.
func (c *Client) RegisterUser(ctx context.Context, payload RegisterRequest) (Result[MessageResponse], error) {
	if err := c.checkPayload(payload); err != nil {
		return Result[MessageResponse]{}, err
	}
	return Do[MessageResponse](ctx, c, Request{
		Path:   "/auth/register/",
		Method: http.MethodPost,
		Body:   payload,
	})
}

// GetProfile returns the signed in user's profile
func (c *Client) GetProfile(ctx context.Context, token string) (Result[ProfileResponse], error) {
	return Do[ProfileResponse](ctx, c, Request{Path: "/profile/", Method: http.MethodGet, Token: token})
}

// UpdateProfile changes the non-nil fields of the user's profile
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate, token string) (Result[ProfileResponse], error) {
	if err := c.checkPayload(update); err != nil {
		return Result[ProfileResponse]{}, err
	}
	return Do[ProfileResponse](ctx, c, Request{
		Path:   "/profile/",
		Method: http.MethodPut,
		Body:   update,
		Token:  token,
	})
}

// GetRecommendations returns ingredient suggestions based on past searches
func (c *Client) GetRecommendations(ctx context.Context, token string) (Result[RecommendationsResponse], error) {
	return Do[RecommendationsResponse](ctx, c, Request{Path: "/recommendations/", Method: http.MethodGet, Token: token})
}

// CheckAuthStatus asks the backend whether token is accepted. The token is optional.
func (c *Client) CheckAuthStatus(ctx context.Context, token string) (Result[AuthStatusResponse], error) {
	return Do[AuthStatusResponse](ctx, c, Request{Path: "/auth/status/", Method: http.MethodGet, Token: token})
}

// BackendLogout notifies the backend of a sign-out. The backend is
// stateless, callers ignore failures.
func (c *Client) BackendLogout(ctx context.Context) (Result[StatusResponse], error) {
	return Do[StatusResponse](ctx, c, Request{Path: "/auth/logout/", Method: http.MethodPost})
}
