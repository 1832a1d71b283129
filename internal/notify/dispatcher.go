package notify

import "log"

const (
	EventBookingCreated   = "booking_created"
	EventBookingConfirmed = "booking_confirmed"
	EventBookingCancelled = "booking_cancelled"
	EventBookingCompleted = "booking_completed"
	EventBookingUpdated   = "booking_updated"
)

type Event struct {
	Name      string
	BookingID *uint
	Recipient string
	Payload   any
}

// Sink receives events off the queue. The gorm-backed Logger is the
// production sink.
type Sink interface {
	Log(event string, bookingID *uint, recipient string, payload any) error
}

// Dispatcher hands booking events to the notification boundary without
// ever blocking or failing the operation that produced them.
type Dispatcher struct {
	sink  Sink
	queue chan Event
}

func NewDispatcher(sink Sink) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		queue: make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.sink.Log(
			ev.Name,
			ev.BookingID,
			ev.Recipient,
			ev.Payload,
		); err != nil {
			log.Println("notify error:", err)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
		// queued
	default:
		// full queue means we drop the notification, never the booking
		log.Println("notify queue full, dropping event")
	}
}
