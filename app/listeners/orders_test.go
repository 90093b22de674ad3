package listeners

import (
	"encoding/json"
	"os"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/event"
)

type recordingFeed struct {
	mu   sync.Mutex
	sent [][]byte
}

func (f *recordingFeed) Publish(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.sent = append(f.sent, b)
	f.mu.Unlock()
	return nil
}

func TestMain(m *testing.M) {
	models.EncodeMoneyAsNumbers()
	os.Exit(m.Run())
}

func TestOrderPlacedBroadcast(t *testing.T) {
	event.Flush()
	t.Cleanup(event.Flush)

	feed := &recordingFeed{}
	Register(feed)

	event.FireAsync(services.EventOrderPlaced, services.OrderPlaced{
		OrderIDs:      []string{"ORD-1", "ORD-2"},
		UserID:        7,
		PaymentStatus: models.PaymentCOD,
		Total:         decimal.NewFromInt(230),
	})
	event.Fire("something.else", "ignored")
	event.Wait()

	require.Len(t, feed.sent, 1)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(feed.sent[0], &got))
	assert.Equal(t, []interface{}{"ORD-1", "ORD-2"}, got["orderIds"])
	assert.Equal(t, float64(7), got["userId"])
	assert.Equal(t, string(models.PaymentCOD), got["payment_status"])
	assert.Equal(t, float64(230), got["total"])
}

func TestRegisterWithoutFeed(t *testing.T) {
	event.Flush()
	t.Cleanup(event.Flush)

	Register(nil)
	assert.NotPanics(t, func() {
		event.Fire(services.EventOrderPlaced, services.OrderPlaced{PaymentStatus: models.PaymentPaid, Total: decimal.NewFromInt(1)})
		event.Fire(services.EventOrderPlaced, "not an order")
	})
}
