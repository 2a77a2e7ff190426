package models

type PaymentState string

const (
	PaymentStateIdle      PaymentState = "idle"
	PaymentStateCreating  PaymentState = "creating"
	PaymentStateWaiting   PaymentState = "waiting"
	PaymentStateVerifying PaymentState = "verifying"
	PaymentStateSuccess   PaymentState = "success"
	PaymentStateError     PaymentState = "error"
)

// PaymentOrder is the remote backend's answer to createPaymentOrder. The
// payment link points at an externally hosted payment page; the client has no
// visibility into its outcome.
type PaymentOrder struct {
	OrderID     string `json:"orderId"`
	PaymentLink string `json:"paymentLink"`
}
