package notification

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

type Channel string

const (
	Email    Channel = "email"
	SMS      Channel = "sms"
	Push     Channel = "push"
	Telegram Channel = "telegram"
	InApp    Channel = "in_app"
)

// SideChannels are the outbound channels attempted besides the realtime leg.
var SideChannels = []Channel{Email, SMS, Push, Telegram}

func ParseChannel(s string) (Channel, error) {
	c := Channel(s)
	switch c {
	case Email, SMS, Push, Telegram, InApp:
		return c, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("channel", fmt.Errorf("%q is not a valid channel", s))
	}
}

func (c Channel) String() string {
	return string(c)
}

type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
	StatusRead    Status = "read"
)

func (s Status) String() string {
	return string(s)
}
