package notification

import (
	"context"
	"fmt"
	"strconv"

	userRepo "metro/database/repository/user"
	"metro/models"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// Pusher is the part of the FCM messaging client used for delivery.
type Pusher interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Dispatcher delivers confirmations to the customer: a push when the device is
// registered, an SMS otherwise. SMS delivery is logged only.
type Dispatcher struct {
	Users  userRepo.UserRepository
	Push   Pusher
	Logger *zap.Logger
}

func NewDispatcher(users userRepo.UserRepository, push Pusher, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{Users: users, Push: push, Logger: logger}
}

func (d *Dispatcher) SendBookingConfirmation(ctx context.Context, p models.BookingConfirmationPayload) error {
	u, err := d.Users.GetByID(ctx, p.CustomerID)
	if err != nil {
		return fmt.Errorf("load customer %s: %w", p.CustomerID, err)
	}

	title := "Booking confirmed"
	body := confirmationBody(p)

	if u.FCMToken == "" || d.Push == nil {
		d.Logger.Info("sms dispatched",
			zap.String("to", u.MobileNumber),
			zap.String("booking_id", p.BookingID),
			zap.String("body", body),
		)
		return nil
	}

	msg := &messaging.Message{
		Token: u.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: map[string]string{
			"type":        "booking_confirmation",
			"role":        string(models.RoleCustomer),
			"bookingId":   p.BookingID,
			"bookingCode": p.BookingCode,
			"otp":         p.OTP,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
	}
	id, err := d.Push.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("send push for booking %s: %w", p.BookingID, err)
	}
	d.Logger.Info("push dispatched", zap.String("booking_id", p.BookingID), zap.String("message_id", id))
	return nil
}

func confirmationBody(p models.BookingConfirmationPayload) string {
	body := fmt.Sprintf("Your booking %s on %s at %s is confirmed. Share OTP %s with your professional to start the job.",
		p.BookingCode, p.BookingDate, p.SlotTime, p.OTP)
	if p.AmountDue > 0 {
		body += " Amount due: Rs " + rupees(p.AmountDue) + "."
	}
	return body
}

func rupees(paise int64) string {
	s := strconv.FormatInt(paise/100, 10)
	if rem := paise % 100; rem != 0 {
		s += fmt.Sprintf(".%02d", rem)
	}
	return s
}
