// Package sms is the boundary to the external OTP delivery gateway. The real
// SMS/voice provider lives outside this service; this adapter records the
// handoff and never logs the code above debug level.
package sms

import (
	"context"

	"github.com/rs/zerolog"
)

type Gateway struct {
	log zerolog.Logger
}

func NewGateway(log zerolog.Logger) *Gateway {
	return &Gateway{log: log}
}

// Send hands the code to the delivery provider.
func (g *Gateway) Send(_ context.Context, phone, code string) error {
	g.log.Info().Str("phone", phone).Msg("otp handed to delivery gateway")
	g.log.Debug().Str("phone", phone).Str("code", code).Msg("otp code issued")
	return nil
}
