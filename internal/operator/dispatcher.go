package operator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoOperatorChat = errors.New("operator chat is not configured")
	ErrQueueFull      = errors.New("operator queue is full")
	ErrStopped        = errors.New("operator dispatcher stopped")
)

// Sender доставляет текст в чат операторов.
type Sender interface {
	SendOperator(ctx context.Context, chatID int64, text string) error
}

type job struct {
	id      string
	user    User
	problem string
	at      time.Time
}

const sendTimeout = 15 * time.Second

// Dispatcher: очередь уведомлений оператору с одним воркером.
// Каждое уведомление отправляется ровно один раз, ошибки только логируются.
type Dispatcher struct {
	sender Sender
	chatID int64
	jobs   chan job
	quit   chan struct{}
	now    func() time.Time

	startOnce sync.Once
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewDispatcher: chatID == 0 отключает уведомления.
func NewDispatcher(sender Sender, chatID int64, size int) *Dispatcher {
	if size <= 0 {
		size = 64
	}
	return &Dispatcher{
		sender: sender,
		chatID: chatID,
		jobs:   make(chan job, size),
		quit:   make(chan struct{}),
		now:    time.Now,
	}
}

// Notify ставит уведомление в очередь и сразу возвращается.
func (d *Dispatcher) Notify(ctx context.Context, userID int64, problem string) {
	err := d.Submit(ctx, userID, problem)
	switch {
	case err == nil:
	case errors.Is(err, ErrNoOperatorChat):
		log.Printf("[operator] chat not configured, skip notify user=%d", userID)
	default:
		log.Printf("[operator] notify user=%d dropped: %v", userID, err)
	}
}

func (d *Dispatcher) Submit(ctx context.Context, userID int64, problem string) error {
	if d.chatID == 0 || d.sender == nil {
		return ErrNoOperatorChat
	}

	select {
	case <-d.quit:
		return ErrStopped
	default:
	}

	j := job{
		id:      uuid.NewString(),
		user:    UserFromContext(ctx, userID),
		problem: problem,
		at:      d.now(),
	}

	select {
	case d.jobs <- j:
		log.Printf("[operator] queued %s user=%d", j.id, userID)
		return nil
	default:
		return ErrQueueFull
	}
}

// Start запускает воркер. Воркер живёт до Stop или отмены ctx.
func (d *Dispatcher) Start(ctx context.Context) {
	d.startOnce.Do(func() {
		d.wg.Add(1)
		go d.run(ctx)
	})
}

// Stop останавливает воркер; неотправленные уведомления отбрасываются.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.quit) })
	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()
	log.Printf("[operator] worker started chat=%d", d.chatID)

	for {
		select {
		case <-ctx.Done():
			log.Println("[operator] worker stopped:", ctx.Err())
			return
		case <-d.quit:
			log.Println("[operator] worker stopped")
			return
		case j := <-d.jobs:
			d.deliver(ctx, j)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, j job) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[operator] PANIC job=%s: %v\n%s", j.id, r, debug.Stack())
		}
	}()

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := d.sender.SendOperator(sendCtx, d.chatID, FormatMessage(j.user, j.problem, j.at)); err != nil {
		log.Printf("[operator] send job=%s user=%d failed: %v", j.id, j.user.ID, err)
		return
	}
	log.Printf("[operator] sent job=%s user=%d", j.id, j.user.ID)
}

func FormatMessage(u User, problem string, at time.Time) string {
	return fmt.Sprintf("ТРЕБУЕТСЯ ОПЕРАТОР\n\n"+
		"Клиент: %s (@%s)\n"+
		"ID: %d\n"+
		"Проблема: %s\n\n"+
		"Время: %s",
		u.displayName(), u.handle(), u.ID, problem, at.Format("15:04 02.01.2006"))
}
