package listeners

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/mail"
)

// Users resolves the buyer of a placed order.
type Users interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// RegisterConfirmation mails the buyer a receipt for every placement. It is
// a no-op when cfg has no SMTP host. send may be nil to use SMTP.
func RegisterConfirmation(users Users, cfg mail.SMTP, send mail.Sender) bool {
	if !cfg.Enabled() {
		return false
	}
	event.Listen(services.EventOrderPlaced, func(payload interface{}) {
		ev, ok := payload.(services.OrderPlaced)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		user, err := users.FindByID(ctx, ev.UserID)
		if err != nil {
			logger.Warn("order confirmation: buyer lookup failed", "user_id", ev.UserID, "error", err)
			return
		}
		err = mail.To(user.Email).
			UseConfig(cfg).
			Via(send).
			Subject("Your order has been placed").
			Text(confirmationText(user.Name, ev)).
			Send()
		if err != nil {
			logger.Warn("order confirmation: send failed", "user_id", ev.UserID, "error", err)
		}
	})
	return true
}

func confirmationText(name string, ev services.OrderPlaced) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	fmt.Fprintf(&b, "Thanks for your order. Payment: %s.\n", ev.PaymentStatus)
	fmt.Fprintf(&b, "Total: %s\n\n", ev.Total.StringFixed(2))
	b.WriteString("Order references:\n")
	for _, id := range ev.OrderIDs {
		b.WriteString("  " + id + "\n")
	}
	return b.String()
}
