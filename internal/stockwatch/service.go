package stockwatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-shop-api.git/internal/catalog"
	"github.com/ariefcatur/go-shop-api.git/internal/kafka"
	"github.com/ariefcatur/go-shop-api.git/internal/orders"
	"github.com/ariefcatur/go-shop-api.git/internal/redisx"
)

// Service reacts to placed orders: it drops stale product cache entries
// and warns when stock falls to the low-water mark. Placement itself is
// synchronous in the API; this is housekeeping, not correctness.
type Service struct {
	Catalog     catalog.Store
	Redis       *redis.Client
	LowStock    int
	ServiceName string
}

// HandleOrderPlaced is wired as the consumer handler.
func (s *Service) HandleOrderPlaced(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderPlaced {
		return nil
	}

	// dedup on event_id so redelivery is harmless
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	if seen, _ := redisx.Exists(ctx, s.Redis, dkey); seen {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafka.UnwrapPayload[orders.OrderPlacedPayload](env.Payload)
	if err != nil {
		return err
	}

	for _, it := range p.Items {
		key := fmt.Sprintf(redisx.KeyProduct, it.ProductID)
		if err := s.Redis.Del(ctx, key).Err(); err != nil {
			log.Printf("cache del %s: %v", key, err)
		}

		prod, err := s.Catalog.GetProduct(ctx, it.ProductID)
		if err != nil {
			log.Printf("lookup product %s: %v", it.ProductID, err)
			continue
		}
		if prod.Stock <= s.LowStock {
			log.Printf("low stock: product=%s name=%q remaining=%d", prod.ID, prod.Name, prod.Stock)
		}
	}
	return nil
}
