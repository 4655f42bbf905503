package models

import "github.com/shopspring/decimal"

// PaymentRequest represents a client request to start a payment
type PaymentRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description"`
	Email       string  `json:"email" binding:"required"`
}

// PaymentResponse carries the hosted payment page URL
type PaymentResponse struct {
	PaymentURL string `json:"paymentUrl"`
}

// CustomData is echoed back unchanged by the gateway in its callback
type CustomData struct {
	Email string `json:"email"`
}

// GatewayPayload represents a prepare_payment request to the payment gateway
type GatewayPayload struct {
	ShopID        int64      `json:"octo_shop_id"`
	Secret        string     `json:"octo_secret"`
	TransactionID string     `json:"shop_transaction_id"`
	AutoCapture   bool       `json:"auto_capture"`
	Test          bool       `json:"test"`
	InitTime      string     `json:"init_time"`
	TotalSum      int64      `json:"total_sum"`
	Currency      string     `json:"currency"`
	Description   string     `json:"description"`
	ReturnURL     string     `json:"return_url"`
	NotifyURL     string     `json:"notify_url"`
	Language      string     `json:"language"`
	CustomData    CustomData `json:"custom_data"`
}

// GatewayResponse represents the gateway's reply to prepare_payment.
// Error is a pointer because an absent field must not read as success.
type GatewayResponse struct {
	Error      *int                 `json:"error"`
	Data       *GatewayResponseData `json:"data"`
	ErrMessage string               `json:"errMessage"`
}

// GatewayResponseData holds the success part of GatewayResponse
type GatewayResponseData struct {
	OctoPayURL string `json:"octo_pay_url"`
}

// CallbackPayload represents a gateway callback or a client success notification.
// TotalSum accepts a JSON number or a numeric string.
type CallbackPayload struct {
	TotalSum    decimal.Decimal `json:"total_sum"`
	Description string          `json:"description"`
	CustomData  *CustomData     `json:"custom_data"`
}

// Email returns the payer address, or "" when the callback carries none.
func (p *CallbackPayload) Email() string {
	if p.CustomData == nil {
		return ""
	}
	return p.CustomData.Email
}

// CallbackResponse acknowledges a callback
type CallbackResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// SendEmailRequest represents a direct mail request
type SendEmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}
