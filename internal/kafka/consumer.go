package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/japi-express/shipment-service/internal/application"
	"github.com/japi-express/shipment-service/internal/domain"
	"github.com/japi-express/shipment-service/internal/logger"
	"github.com/japi-express/shipment-service/internal/repository"
)

type ConsumerConfig struct {
	Brokers string
	Topic   string
	GroupID string
}

// StartConsumer reads submitted shipments and persists them. Malformed
// messages are committed and skipped; a failed insert is retried with
// backoff, except insufficient stock, which can never succeed on replay.
func StartConsumer(ctx context.Context, svc *application.ShipmentsService, cfg ConsumerConfig) (*kafka.Reader, error) {
	brokers := strings.Split(cfg.Brokers, ",")

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:         brokers,
		GroupID:         cfg.GroupID,
		Topic:           cfg.Topic,
		MinBytes:        1,
		MaxBytes:        10e6,
		CommitInterval:  0,
		StartOffset:     kafka.FirstOffset,
		ReadLagInterval: -1,
	})

	logger.Info("kafka consumer starting", "brokers", cfg.Brokers, "topic", cfg.Topic, "group", cfg.GroupID)

	go func() {
		defer r.Close()

		backoff := time.Millisecond * 300
		for {
			m, err := r.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Warn("kafka fetch error", "err", err)
				time.Sleep(backoff)
				continue
			}

			var sh domain.Shipment
			if err = json.Unmarshal(m.Value, &sh); err != nil {
				logger.Warn("kafka invalid json, skip and commit", "err", err)
				_ = r.CommitMessages(ctx, m)
				continue
			}

			if err = svc.AddShipment(ctx, &sh); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					logger.Warn("shipment dropped, stock gone", "uid", sh.ShipmentUID)
					_ = r.CommitMessages(ctx, m)
					continue
				}
				logger.Warn("kafka add shipment fail, will retry", "uid", sh.ShipmentUID, "err", err)
				time.Sleep(backoff)
				continue
			}

			logger.Info("shipment stored", "uid", sh.ShipmentUID)

			if err := r.CommitMessages(ctx, m); err != nil {
				logger.Warn("kafka commit failed", "err", err)
			}
		}
	}()
	return r, nil
}
