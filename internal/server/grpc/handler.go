package grpc

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/server/models"
	"github.com/dmitrijs2005/gophsession/internal/server/services"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// MsgValidationFailed heads an InvalidArgument status whose details list
// the individual field errors.
const MsgValidationFailed = "Validation failed."

func field(in *structpb.Struct, key string) string {
	return in.GetFields()[key].GetStringValue()
}

func codeFor(httpStatus int) codes.Code {
	switch httpStatus {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return codes.InvalidArgument
	case http.StatusUnauthorized:
		return codes.Unauthenticated
	case http.StatusForbidden:
		return codes.PermissionDenied
	case http.StatusNotFound:
		return codes.NotFound
	case http.StatusConflict:
		return codes.AlreadyExists
	default:
		return codes.Internal
	}
}

func resultError(res services.Result) error {
	return status.Error(codeFor(res.Status), res.Message)
}

func validationError(errs []services.FieldError) error {
	br := &errdetails.BadRequest{}
	for _, fe := range errs {
		br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       fe.Field,
			Description: fe.Message,
		})
	}
	st, err := status.New(codes.InvalidArgument, MsgValidationFailed).WithDetails(br)
	if err != nil {
		return status.Error(codes.InvalidArgument, MsgValidationFailed)
	}
	return st.Err()
}

func (s *GRPCServer) internal(ctx context.Context, err error) error {
	s.logger.Error(ctx, err.Error())
	return status.Error(codes.Internal, services.MsgInternal)
}

func userValue(u *models.User) map[string]any {
	return map[string]any{
		"id":      u.ID,
		"name":    u.Name,
		"email":   u.Email,
		"created": u.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (s *GRPCServer) Register(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	name, email, password := field(in, "name"), field(in, "email"), field(in, "password")
	if errs := services.ValidateRegistration(name, email, password); len(errs) > 0 {
		return nil, validationError(errs)
	}

	res, err := s.users.Register(ctx, name, email, password)
	if err != nil {
		return nil, s.internal(ctx, err)
	}
	if !res.OK() {
		return nil, resultError(res)
	}

	return structpb.NewStruct(userValue(res.User))
}

func (s *GRPCServer) Signin(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	email, password := field(in, "email"), field(in, "password")
	if errs := services.ValidateSignin(email, password); len(errs) > 0 {
		return nil, validationError(errs)
	}

	res, err := s.sessions.Create(ctx, email, password)
	if err != nil {
		s.metrics.ObserveSignin(http.StatusInternalServerError)
		return nil, s.internal(ctx, err)
	}
	s.metrics.ObserveSignin(res.Status)
	if !res.OK() {
		return nil, resultError(res)
	}

	return structpb.NewStruct(map[string]any{"token": res.Token})
}

func (s *GRPCServer) Logout(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	var userID string
	if u, ok := userFromContext(ctx); ok {
		userID = u.ID
	}

	res, err := s.sessions.Remove(ctx, userID)
	if err != nil {
		s.metrics.ObserveLogout(http.StatusInternalServerError)
		return nil, s.internal(ctx, err)
	}
	s.metrics.ObserveLogout(res.Status)
	if !res.OK() {
		return nil, resultError(res)
	}

	return structpb.NewStruct(map[string]any{"message": res.Message})
}

func (s *GRPCServer) ListUsers(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	created := field(in, "created")
	if errs := services.ValidateListOrder(created); len(errs) > 0 {
		return nil, validationError(errs)
	}

	list, err := s.users.List(ctx, created)
	if err != nil {
		return nil, s.internal(ctx, err)
	}

	items := make([]any, 0, len(list))
	for _, u := range list {
		items = append(items, userValue(u))
	}
	return structpb.NewStruct(map[string]any{"users": items})
}
