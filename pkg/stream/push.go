package stream

import (
	"time"

	"github.com/google/uuid"

	"github.com/campusguard/dresswatch/internal/log"
	"github.com/campusguard/dresswatch/pkg/metrics"
)

// PushConn is the connection surface the push loop writes to.
// *websocket.Conn implements it.
type PushConn interface {
	WriteJSON(v interface{}) error
}

// Mux fans the session out to any number of concurrent consumers.
// Each consumer drives its own cycles; detection work is not shared
// between consumers.
type Mux struct {
	Session Driver
	Metrics *metrics.Metrics
}

// ServePush drives one cycle per tick at the fixed cadence and writes
// each result to the consumer. Returns when the consumer disconnects
// (write error) or the session goes inactive. A disconnect ends only
// this consumer; the session and other consumers are untouched.
func (m *Mux) ServePush(conn PushConn, studentID *int64) {
	id := uuid.NewString()
	m.Metrics.PushConsumerAdd(1)
	defer m.Metrics.PushConsumerAdd(-1)
	log.Info("push consumer connected", "consumer", id)
	defer log.Info("push consumer disconnected", "consumer", id)

	ticker := time.NewTicker(Cadence)
	defer ticker.Stop()

	for m.Session.Active() {
		if res, ok := m.Session.RunCycle(studentID); ok {
			if err := conn.WriteJSON(NewMessage(res)); err != nil {
				log.Debug("push write failed", "consumer", id, "error", err)
				return
			}
		}
		<-ticker.C
	}
}
