package dialog

import (
	"context"
	"log"
)

// stepFunc обрабатывает один шаг. Может менять sess; done=true закрывает сессию,
// иначе sess сохраняется как есть (в том числе при повторном запросе шага).
type stepFunc[T any] func(ctx context.Context, userID int64, sess *Session[T], text string) (reply string, done bool)

// base: хранилище сессий и таблица шагов, общие для всех диалогов.
type base[T any] struct {
	name  string
	first Step
	store *Store[T]
	deps  Deps
	steps map[Step]stepFunc[T]
}

func newBase[T any](name string, first Step, store *Store[T], deps Deps) base[T] {
	if store == nil {
		store = NewStore[T]()
	}
	return base[T]{
		name:  name,
		first: first,
		store: store,
		deps:  deps.withDefaults(),
	}
}

func (b *base[T]) Name() string { return b.name }

func (b *base[T]) Start(userID int64) {
	b.store.Put(userID, Session[T]{Step: b.first, CreatedAt: b.deps.Now()})
	log.Printf("[dialog] %s session started user=%d", b.name, userID)
}

func (b *base[T]) HasActiveSession(userID int64) bool {
	return b.store.Has(userID)
}

func (b *base[T]) ClearSession(userID int64) {
	b.store.Delete(userID)
}

func (b *base[T]) Process(ctx context.Context, userID int64, text string) (string, bool) {
	sess, ok := b.store.Get(userID)
	if !ok {
		return "", false
	}

	step, ok := b.steps[sess.Step]
	if !ok {
		log.Printf("[dialog] %s: unknown step %q user=%d, dropping session", b.name, sess.Step, userID)
		b.store.Delete(userID)
		return "", false
	}

	reply, done := step(ctx, userID, &sess, text)
	if done {
		b.store.Delete(userID)
		log.Printf("[dialog] %s session completed user=%d", b.name, userID)
		return reply, true
	}

	b.store.Put(userID, sess)
	return reply, true
}

// openWith реализует общий Open: сессия стартует, и если в тексте есть данные
// для первого шага, они сразу обрабатываются.
func (b *base[T]) openWith(ctx context.Context, userID int64, text, intro string, hasData bool) string {
	b.Start(userID)
	if !hasData {
		return intro
	}
	reply, _ := b.Process(ctx, userID, text)
	return reply
}

var (
	_ Handler = (*Payment)(nil)
	_ Handler = (*Refund)(nil)
	_ Handler = (*PartialRefund)(nil)
	_ Handler = (*WrongEventRefund)(nil)
	_ Handler = (*EmailChange)(nil)
	_ Handler = (*TicketRecovery)(nil)
	_ Handler = (*Operator)(nil)
)
