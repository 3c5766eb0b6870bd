package feed

import (
	"encoding/json"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"commuter_bus/internal/models"
)

// Stop edits originate outside this app. External editors publish to the
// routes_topic exchange; the consumer applies each edit and rebroadcasts
// the fresh sheet to connected screens.
const (
	exchangeName = "routes_topic"
	queueName    = "stop_updates"
	bindingKey   = "routes.stops.*"
)

// StopUpdate is the broker message body. Action "replace" swaps the whole
// sheet; "append" adds stops after the current highest Seq.
type StopUpdate struct {
	Action string        `json:"action"`
	Stops  []models.Stop `json:"stops"`
}

// StartConsumer connects to the broker, declares the routing topology and
// consumes stop updates until the connection drops. There is no retry:
// a broken broker connection surfaces at boot or in the log.
func StartConsumer(url string, db *gorm.DB, hub *Hub) error {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", exchangeName, err)
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	if err := ch.QueueBind(queueName, bindingKey, exchangeName, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", queueName, err)
	}

	msgs, err := ch.Consume(queueName, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}

	logrus.Info("feed: connected to RabbitMQ, consuming stop updates")

	go func() {
		for msg := range msgs {
			var update StopUpdate
			if err := json.Unmarshal(msg.Body, &update); err != nil {
				logrus.WithError(err).Warn("feed: malformed stop update, discarded")
				continue
			}
			if err := Apply(db, update); err != nil {
				logrus.WithError(err).Error("feed: could not apply stop update")
				continue
			}
			snapshot, err := LoadStops(db)
			if err != nil {
				logrus.WithError(err).Error("feed: could not reload stops after update")
				continue
			}
			hub.Broadcast(snapshot)
		}
		logrus.Warn("feed: RabbitMQ delivery channel closed")
	}()

	return nil
}

// renumber assigns Seq values base+1, base+2, ... in slice order so the
// stops sort after everything already on the sheet.
func renumber(stops []models.Stop, base int) {
	for i := range stops {
		stops[i].Seq = base + i + 1
	}
}

// Apply writes a stop update in one transaction. A replace starts the
// sheet over from Seq 1; an append continues after the current highest
// Seq so the new stops land at the end of the feed order.
func Apply(db *gorm.DB, update StopUpdate) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	base := 0
	if update.Action == "replace" {
		if err := tx.Where("1 = 1").Delete(&models.Stop{}).Error; err != nil {
			tx.Rollback()
			return err
		}
	} else {
		if err := tx.Model(&models.Stop{}).
			Select("COALESCE(MAX(seq), 0)").Scan(&base).Error; err != nil {
			tx.Rollback()
			return err
		}
	}
	renumber(update.Stops, base)

	for i := range update.Stops {
		if err := tx.Create(&update.Stops[i]).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit().Error
}

// LoadStops reads the full sheet in feed order. An empty table is an
// empty sheet, not an error.
func LoadStops(db *gorm.DB) ([]models.Stop, error) {
	var stops []models.Stop
	if err := db.Order("seq asc").Find(&stops).Error; err != nil {
		return nil, err
	}
	return stops, nil
}
