// Package listeners reacts to domain events fired by the services.
package listeners

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

// Publisher is the admin live feed; *ws.Hub satisfies it.
type Publisher interface {
	Publish(v any) error
}

// Register subscribes the order listeners. feed may be nil when no admin
// feed is running.
func Register(feed Publisher) {
	event.Listen(services.EventOrderPlaced, countOrder)
	if feed != nil {
		event.Listen(services.EventOrderPlaced, broadcastOrder(feed))
	}
}

func countOrder(payload interface{}) {
	ev, ok := payload.(services.OrderPlaced)
	if !ok {
		return
	}
	total, _ := ev.Total.Float64()
	metrics.RecordOrder(string(ev.PaymentStatus), len(ev.OrderIDs), total)
}

func broadcastOrder(feed Publisher) event.Handler {
	return func(payload interface{}) {
		ev, ok := payload.(services.OrderPlaced)
		if !ok {
			return
		}
		if err := feed.Publish(ev); err != nil {
			logger.Warn("order feed publish failed", "error", err)
		}
	}
}
