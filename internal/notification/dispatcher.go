package notification

import (
	"context"
	"sync"
	"time"

	"scheduleandpay/internal/domain"

	"go.uber.org/zap"
)

const (
	CustomerSubjectSuffix = "Reservation"
	AdminSubject          = "New Reservation"
)

type DispatcherConfig struct {
	AdminEmail   string
	BusinessName string
	Timeout      time.Duration
}

// Dispatcher sends the confirmation emails for a reservation in the
// background. Delivery failures are logged and never reach the caller.
type Dispatcher struct {
	sender Sender
	cfg    DispatcherConfig
	log    *zap.Logger
	wg     sync.WaitGroup
}

func NewDispatcher(sender Sender, cfg DispatcherConfig, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Dispatcher{sender: sender, cfg: cfg, log: log}
}

// ReservationConfirmed queues one message to the customer and one to the
// administrator. It returns immediately.
func (d *Dispatcher) ReservationConfirmed(ctx context.Context, res domain.Reservation, paymentURL string) {
	msgs, err := d.buildMessages(res, paymentURL)
	if err != nil {
		d.log.Error("notification_render_failed", zap.String("reference", res.Reference), zap.Error(err))
		return
	}

	base := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for _, msg := range msgs {
			d.send(base, msg, res.Reference)
		}
	}()
}

func (d *Dispatcher) send(base context.Context, msg Message, ref string) {
	ctx, cancel := context.WithTimeout(base, d.cfg.Timeout)
	defer cancel()

	if err := d.sender.Send(ctx, msg); err != nil {
		d.log.Warn("notification_send_failed",
			zap.String("reference", ref),
			zap.Strings("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
	}
}

// Wait blocks until every queued delivery has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) buildMessages(res domain.Reservation, paymentURL string) ([]Message, error) {
	data := bodyData{
		Name:         res.Contact.Name,
		Email:        res.Contact.Email,
		Phone:        res.Contact.Phone,
		Slot:         res.Slot(),
		PaymentURL:   paymentURL,
		Reference:    res.Reference,
		BusinessName: d.cfg.BusinessName,
	}

	customer, err := renderBody("customer", data)
	if err != nil {
		return nil, err
	}
	admin, err := renderBody("admin", data)
	if err != nil {
		return nil, err
	}

	msgs := make([]Message, 0, 2)
	if res.Contact.Email != "" {
		msgs = append(msgs, Message{
			To:      []string{res.Contact.Email},
			Subject: d.cfg.BusinessName + " " + CustomerSubjectSuffix,
			HTML:    customer,
		})
	}
	if d.cfg.AdminEmail != "" {
		msgs = append(msgs, Message{
			To:      []string{d.cfg.AdminEmail},
			Subject: AdminSubject,
			HTML:    admin,
		})
	}
	return msgs, nil
}
