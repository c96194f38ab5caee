package realtime

import (
	"context"
	"encoding/json"

	"grapebd/g2g/internal/logging"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// TopicChanges carries every row change the API makes.
const TopicChanges = "db_changes"

// ChangeEvent describes one insert, update or delete on a watched table. An empty
// Audience means every subscriber of the table may see it.
type ChangeEvent struct {
	Table    string          `json:"table"`
	Op       string          `json:"op"`
	RowID    uuid.UUID       `json:"row_id"`
	Audience []uuid.UUID     `json:"audience,omitempty"`
	Record   json.RawMessage `json:"record,omitempty"`
}

// NewEvent builds a ChangeEvent, encoding record when it is not nil.
func NewEvent(table, op string, rowID uuid.UUID, record interface{}, audience ...uuid.UUID) ChangeEvent {
	ev := ChangeEvent{Table: table, Op: op, RowID: rowID, Audience: audience}
	if record != nil {
		if data, err := json.Marshal(record); err == nil {
			ev.Record = data
		}
	}
	return ev
}

// Visible reports whether profileID is part of the event's audience.
func (e ChangeEvent) Visible(profileID uuid.UUID) bool {
	if len(e.Audience) == 0 {
		return true
	}
	for _, id := range e.Audience {
		if id == profileID {
			return true
		}
	}
	return false
}

// Bus is an in-process change feed backed by a watermill go channel.
type Bus struct {
	pubsub *gochannel.GoChannel
}

func NewBus() *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{
				OutputChannelBuffer:            256,
				BlockPublishUntilSubscriberAck: false,
			},
			NewLogrusAdapter(logging.For("realtime")),
		),
	}
}

func (b *Bus) Publish(ev ChangeEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "encode change event")
	}
	return b.pubsub.Publish(TopicChanges, message.NewMessage(watermill.NewUUID(), data))
}

// Subscribe streams events until ctx is cancelled. Undecodable messages are skipped.
func (b *Bus) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	msgs, err := b.pubsub.Subscribe(ctx, TopicChanges)
	if err != nil {
		return nil, errors.Wrap(err, "subscribe to changes")
	}
	out := make(chan ChangeEvent)
	go func() {
		defer close(out)
		for msg := range msgs {
			var ev ChangeEvent
			err := json.Unmarshal(msg.Payload, &ev)
			msg.Ack()
			if err != nil {
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (b *Bus) Close() error {
	return b.pubsub.Close()
}
