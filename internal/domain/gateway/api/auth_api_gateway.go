package api

import (
	"context"
	"net/http"

	"go-todo/internal/domain/model"
	httpclient "go-todo/pkg/http"
)

// AuthAPIGateway opens sessions against the todo service
type AuthAPIGateway struct {
	httpClient *httpclient.Client
}

func NewAuthAPIGateway(baseURL string, clientOptions httpclient.ClientOptions) *AuthAPIGateway {
	return &AuthAPIGateway{httpClient: httpclient.NewHttpClient(baseURL, clientOptions)}
}

func (g *AuthAPIGateway) SignIn(ctx context.Context, credentials model.CredentialsDTO) (*model.TokenDTO, error) {
	return g.authenticate(ctx, "sign-in", credentials)
}

func (g *AuthAPIGateway) SignUp(ctx context.Context, credentials model.CredentialsDTO) (*model.TokenDTO, error) {
	return g.authenticate(ctx, "sign-up", credentials)
}

// SignOut revokes the token; a token the server no longer accepts is already signed out
func (g *AuthAPIGateway) SignOut(ctx context.Context, token string) error {
	_, errResp, status, err := g.httpClient.Request().
		Method(http.MethodPost).
		Path("auth", "sign-out").
		Bearer(token).
		OnError(&errorResponse{}).
		Do(ctx)
	if err != nil {
		return remoteError(errResp, status, err)
	}
	return nil
}

func (g *AuthAPIGateway) authenticate(ctx context.Context, action string, credentials model.CredentialsDTO) (*model.TokenDTO, error) {
	successResp, errResp, status, err := g.httpClient.Request().
		Method(http.MethodPost).
		Path("auth", action).
		Body(credentials).
		Into(&model.TokenDTO{}).
		OnError(&errorResponse{}).
		Do(ctx)
	if err != nil {
		return nil, remoteError(errResp, status, err)
	}
	return successResp.(*model.TokenDTO), nil
}
