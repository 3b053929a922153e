// Package service exposes the ledger over Connect unary RPCs with a JSON
// codec.
package service

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/pkg/api"
)

// Route is a procedure path and the handler serving it.
type Route struct {
	Path    string
	Handler http.Handler
}

// Options holds the handler options applied to anonymous and authenticated
// procedures.
type Options struct {
	Public    []connect.HandlerOption
	Protected []connect.HandlerOption
}

func unary[Req, Res any](procedure string, fn func(context.Context, *Req) (*Res, error), opts []connect.HandlerOption) Route {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	h := connect.NewUnaryHandler(procedure,
		func(ctx context.Context, req *connect.Request[Req]) (*connect.Response[Res], error) {
			res, err := fn(ctx, req.Msg)
			if err != nil {
				return nil, toConnectError(err)
			}
			return connect.NewResponse(res), nil
		},
		opts...,
	)
	return Route{Path: procedure, Handler: h}
}

// toConnectError maps ledger and auth errors onto Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	switch {
	case errors.Is(err, ledger.ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ledger.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ledger.ErrConflict), errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, ledger.ErrIntegrity):
		return connect.NewError(connect.CodeAborted, err)
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func invalidArgument(msg string) error {
	return connect.NewError(connect.CodeInvalidArgument, errors.New(msg))
}

func permissionDenied(msg string) error {
	return connect.NewError(connect.CodePermissionDenied, errors.New(msg))
}

// pairUser resolves the acting side of a user/friend pair. A zero userID
// means the caller; otherwise the caller must be one side of the pair.
func pairUser(ctx context.Context, userID, friendID int64) (int64, error) {
	caller := middleware.GetUserID(ctx)
	if userID == 0 {
		return caller, nil
	}
	if userID != caller && friendID != caller {
		return 0, permissionDenied("caller is not a party to this pair")
	}
	return userID, nil
}

// selfUser resolves a user id that may only name the caller.
func selfUser(ctx context.Context, userID int64) (int64, error) {
	caller := middleware.GetUserID(ctx)
	if userID != 0 && userID != caller {
		return 0, permissionDenied("cannot act on behalf of another user")
	}
	return caller, nil
}

// orCaller returns id, or the authenticated user when id is unset.
func orCaller(ctx context.Context, id int64) int64 {
	if id != 0 {
		return id
	}
	return middleware.GetUserID(ctx)
}
