package ports

import "context"

// OTPSender hands a freshly issued code to an external delivery gateway
// (SMS/voice). Delivery itself is outside this service.
type OTPSender interface {
	Send(ctx context.Context, phone, code string) error
}
