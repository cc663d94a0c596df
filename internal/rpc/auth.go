package rpc

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	// AuthServicePath is the URL prefix under which the auth procedures
	// are mounted.
	AuthServicePath = "/gastoshogar.v1.AuthService/"

	AuthServiceRegisterProcedure = "/gastoshogar.v1.AuthService/Register"
	AuthServiceLoginProcedure    = "/gastoshogar.v1.AuthService/Login"
	AuthServiceGetMeProcedure    = "/gastoshogar.v1.AuthService/GetMe"
)

// User is the API representation of a household member.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetMeRequest struct{}

type GetMeResponse struct {
	User *User `json:"user"`
}

// AuthServiceHandler is the server interface for the auth procedures.
type AuthServiceHandler interface {
	Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error)
	Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
	GetMe(ctx context.Context, req *connect.Request[GetMeRequest]) (*connect.Response[GetMeResponse], error)
}

// NewAuthServiceHandler mounts the auth procedures and returns the path
// prefix to register them under, mirroring generated Connect bindings.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(AuthServiceRegisterProcedure, connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...))
	mux.Handle(AuthServiceLoginProcedure, connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...))
	mux.Handle(AuthServiceGetMeProcedure, connect.NewUnaryHandler(AuthServiceGetMeProcedure, svc.GetMe, opts...))
	return AuthServicePath, mux
}
