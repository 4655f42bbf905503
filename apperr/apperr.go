package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for the HTTP boundary.
type Kind string

const (
	Validation      Kind = "validation"
	GatewayProtocol Kind = "gateway_protocol"
	GatewayBusiness Kind = "gateway_business"
	MailDelivery    Kind = "mail_delivery"
	Internal        Kind = "internal"
)

const genericMessage = "internal server error"

// Error carries a public message safe for clients and the internal cause for logs.
type Error struct {
	Kind      Kind
	PublicMsg string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	if e.PublicMsg != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.PublicMsg)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func ValidationErr(publicMsg string) *Error {
	return &Error{Kind: Validation, PublicMsg: publicMsg}
}

func GatewayProtocolErr(err error) *Error {
	return &Error{Kind: GatewayProtocol, PublicMsg: "invalid gateway response", Err: err}
}

// GatewayBusinessErr keeps the gateway's own message, falling back to a generic one.
func GatewayBusinessErr(gatewayMsg string) *Error {
	if gatewayMsg == "" {
		gatewayMsg = "payment gateway error"
	}
	return &Error{Kind: GatewayBusiness, PublicMsg: gatewayMsg}
}

func MailDeliveryErr(err error) *Error {
	return &Error{Kind: MailDelivery, PublicMsg: "failed to send notification", Err: err}
}

// Wrap marks an unexpected fault as internal.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	if ae, ok := As(err); ok {
		return ae
	}
	return &Error{Kind: Internal, PublicMsg: genericMessage, Err: err}
}

func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func Is(err error, kind Kind) bool {
	ae, ok := As(err)
	return ok && ae.Kind == kind
}

func HTTPStatus(err error) int {
	if ae, ok := As(err); ok {
		switch ae.Kind {
		case Validation, GatewayBusiness:
			return http.StatusBadRequest
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

func PublicMessage(err error) string {
	if ae, ok := As(err); ok && ae.PublicMsg != "" {
		return ae.PublicMsg
	}
	return genericMessage
}
