package notifier

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/notification"
)

// Результаты доставки для метрик
const (
	resultSent    = "sent"
	resultFailed  = "failed"
	resultDropped = "dropped"
)

// Config параметры диспетчера
type Config struct {
	RatePerSecond float64       // ограничение отправок в секунду
	Burst         int           // допустимый всплеск
	QueueSize     int           // размер очереди, при переполнении уведомление отбрасывается
	Timeout       time.Duration // таймаут одной отправки
	PublicBaseURL string        // адрес интерфейса для ссылок подтверждения
}

// Dispatcher асинхронно рассылает уведомления о новых записях.
// Запись уже сохранена к моменту вызова, поэтому ошибки доставки только логируются.
type Dispatcher struct {
	senders []Sender
	limiter *rate.Limiter
	queue   chan *notification.Confirmation
	cfg     Config
	metrics Metrics
	logger  Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher создает диспетчер. Без каналов уведомления только логируются.
func NewDispatcher(senders []Sender, metrics Metrics, cfg Config, logger Logger) *Dispatcher {
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	return &Dispatcher{
		senders: senders,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		queue:   make(chan *notification.Confirmation, cfg.QueueSize),
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
	}
}

// Start запускает обработчик очереди
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.run(ctx)
	}()
}

// NotifyBookingCreated ставит уведомление в очередь и сразу возвращает управление
func (d *Dispatcher) NotifyBookingCreated(booking *domain.Booking, salon *domain.Salon, token string) {
	if len(d.senders) == 0 {
		d.logger.Info("Notifier: no channels configured, booking ref=%s not notified", booking.Reference)
		return
	}

	confirmation := notification.NewConfirmation(booking, salon, token, d.cfg.PublicBaseURL)

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn("Notifier: dispatcher closed, drop notification for booking ref=%s", booking.Reference)
		d.metrics.IncNotification("queue", resultDropped)
		return
	}

	select {
	case d.queue <- confirmation:
	default:
		d.logger.Warn("Notifier: queue is full, drop notification for booking ref=%s", booking.Reference)
		d.metrics.IncNotification("queue", resultDropped)
	}
}

// Close прекращает приём уведомлений и дожидается отправки очереди
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context) {
	for confirmation := range d.queue {
		if err := d.limiter.Wait(ctx); err != nil {
			d.logger.Warn("Notifier: drop notification for booking ref=%s: %v", confirmation.Reference, err)
			d.metrics.IncNotification("queue", resultDropped)
			continue
		}

		d.deliver(ctx, confirmation)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, confirmation *notification.Confirmation) {
	for _, sender := range d.senders {
		sendCtx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
		err := sender.Send(sendCtx, confirmation)
		cancel()

		if err != nil {
			d.logger.Error("Notifier: %s failed for booking id=%d ref=%s: %v",
				sender.Name(), confirmation.BookingID, confirmation.Reference, err)
			d.metrics.IncNotification(sender.Name(), resultFailed)
			continue
		}

		d.logger.Info("Notifier: %s sent event=%s for booking ref=%s",
			sender.Name(), confirmation.EventID, confirmation.Reference)
		d.metrics.IncNotification(sender.Name(), resultSent)
	}
}
