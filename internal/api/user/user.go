package user

import (
	"context"
	"net/http"

	"shopadmin/internal/model"
	"shopadmin/internal/transport"
	"shopadmin/pkg/utils"
)

const pathInfo = "/shopAccount/info"

// API account calls
type API interface {
	// Info returns the logged in shop account. Without a usable token it
	// fails with an auth error before anything is sent.
	Info(ctx context.Context) (*model.UserInfo, error)
}

type userAPI struct {
	doer transport.Doer
}

// New creates the user API over doer
func New(doer transport.Doer) API {
	return &userAPI{doer: doer}
}

func (a *userAPI) Info(ctx context.Context) (*model.UserInfo, error) {
	var info model.UserInfo
	if err := a.doer.Get(ctx, pathInfo, nil, &info); err != nil {
		return nil, err
	}
	if info.ID == "" {
		return nil, utils.NewHTTPStatusError(http.StatusOK, 0, "empty account info").
			WithRequest(http.MethodGet, pathInfo)
	}
	return &info, nil
}
