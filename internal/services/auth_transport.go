package services

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/Eltn555/admin/domain"
	"github.com/Eltn555/admin/internal/infrastructure/apiclient"
	"github.com/Eltn555/admin/internal/logging"
)

// Dialect names accepted by EndpointsFor
const (
	DialectKebab = "kebab"
	DialectCamel = "camel"
)

// Endpoints holds the backend auth paths and the request body field that
// carries the phone number
type Endpoints struct {
	SendOTP       string
	ValidateOTP   string
	ValidateToken string
	Logout        string
	PhoneField    string
}

// EndpointsFor returns the endpoint set of a backend dialect. Unknown
// dialects fall back to kebab.
func EndpointsFor(dialect string) Endpoints {
	if dialect == DialectCamel {
		return Endpoints{
			SendOTP:       "/auth/sendOtp",
			ValidateOTP:   "/auth/validateOtp",
			ValidateToken: "/auth/validateToken",
			Logout:        "/auth/logout",
			PhoneField:    "phone",
		}
	}
	return Endpoints{
		SendOTP:       "/auth/send-otp",
		ValidateOTP:   "/auth/validate-otp",
		ValidateToken: "/auth/validate-token",
		Logout:        "/auth/logout",
		PhoneField:    "phoneNumber",
	}
}

// AuthTransportImpl implements domain.AuthTransport over the backend client
type AuthTransportImpl struct {
	client    *apiclient.Client
	local     domain.LocalStorage
	endpoints Endpoints
	logger    *zap.Logger
}

// NewAuthTransport creates a new auth transport
func NewAuthTransport(client *apiclient.Client, local domain.LocalStorage, endpoints Endpoints, logger *zap.Logger) domain.AuthTransport {
	return &AuthTransportImpl{
		client:    client,
		local:     local,
		endpoints: endpoints,
		logger:    logging.OrNop(logger).Named("transport"),
	}
}

type sendOTPResponse struct {
	PhoneNumber string `json:"phoneNumber"`
	Phone       string `json:"phone"`
	Message     string `json:"message"`
}

type validateTokenResponse struct {
	User *domain.User `json:"user"`
}

// SendOTP asks the backend to deliver a code to phone
func (t *AuthTransportImpl) SendOTP(ctx context.Context, phone string) (*domain.SendOTPResult, error) {
	body := map[string]string{t.endpoints.PhoneField: phone}

	var resp sendOTPResponse
	if err := t.client.JSON(ctx, http.MethodPost, t.endpoints.SendOTP, body, &resp); err != nil {
		t.logger.Error("send otp failed", zap.String("phone", phone), zap.Error(err))
		return nil, err
	}

	result := &domain.SendOTPResult{PhoneNumber: resp.PhoneNumber, Message: resp.Message}
	if result.PhoneNumber == "" {
		result.PhoneNumber = resp.Phone
	}
	if result.PhoneNumber == "" {
		result.PhoneNumber = phone
	}
	return result, nil
}

// VerifyOTP exchanges phone and code for a session token
func (t *AuthTransportImpl) VerifyOTP(ctx context.Context, phone, otp string) (*domain.VerifyOTPResult, error) {
	body := map[string]string{t.endpoints.PhoneField: phone, "otp": otp}

	var resp domain.VerifyOTPResult
	if err := t.client.JSON(ctx, http.MethodPost, t.endpoints.ValidateOTP, body, &resp); err != nil {
		t.logger.Error("verify otp failed", zap.String("phone", phone), zap.Error(err))
		return nil, err
	}
	if resp.Token == "" || resp.User == nil {
		err := &domain.TransportError{StatusCode: http.StatusOK, Message: "Invalid response from server"}
		t.logger.Error("verify otp returned no session", zap.String("phone", phone))
		return nil, err
	}
	return &resp, nil
}

// ValidateToken confirms the persisted token with the backend. Any failure
// removes the local session keys before the error is returned.
func (t *AuthTransportImpl) ValidateToken(ctx context.Context) (*domain.User, error) {
	var resp validateTokenResponse
	err := t.client.JSON(ctx, http.MethodGet, t.endpoints.ValidateToken, nil, &resp)
	if err == nil && resp.User == nil {
		err = &domain.TransportError{StatusCode: http.StatusOK, Message: "Invalid response from server"}
	}
	if err != nil {
		t.logger.Warn("validate token failed", zap.Error(err))
		if rmErr := t.local.RemoveItem(ctx, domain.LocalAuthKeys...); rmErr != nil {
			t.logger.Error("clear local session", zap.Error(rmErr))
		}
		return nil, err
	}
	return resp.User, nil
}

// Logout ends the backend session. Local keys are removed only when the
// backend accepted the call.
func (t *AuthTransportImpl) Logout(ctx context.Context) error {
	if err := t.client.JSON(ctx, http.MethodPost, t.endpoints.Logout, nil, nil); err != nil {
		t.logger.Error("logout failed", zap.Error(err))
		return err
	}
	if err := t.local.RemoveItem(ctx, domain.LocalAuthKeys...); err != nil {
		return fmt.Errorf("failed to clear local session: %w", err)
	}
	return nil
}
