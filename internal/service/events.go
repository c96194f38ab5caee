package service

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"grapebd/g2g/internal/realtime"
)

// EventPublisher feeds the realtime change stream.
type EventPublisher interface {
	Publish(ev realtime.ChangeEvent) error
}

// publish is best effort: a lost change event only delays a client refetch.
func publish(pub EventPublisher, log *logrus.Entry, table, op string, rowID uuid.UUID, record interface{}, audience ...uuid.UUID) {
	if pub == nil {
		return
	}
	if err := pub.Publish(realtime.NewEvent(table, op, rowID, record, audience...)); err != nil {
		log.WithError(err).WithField("table", table).Warn("publish change event")
	}
}
