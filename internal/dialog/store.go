package dialog

import (
	"sync"
	"time"
)

type Step string

const (
	StepWaitingDetails     Step = "waiting_details"
	StepWaitingOrder       Step = "waiting_order"
	StepWaitingReason      Step = "waiting_reason"
	StepWaitingContacts    Step = "waiting_contacts"
	StepWaitingNewEmail    Step = "waiting_new_email"
	StepWaitingTicket      Step = "waiting_ticket_details"
	StepWaitingContactInfo Step = "waiting_contact_info"
	StepWaitingProblem     Step = "waiting_problem_description"
)

// Session: состояние одного пользователя в одном диалоге.
type Session[T any] struct {
	Step      Step
	Data      T
	CreatedAt time.Time
}

// Store: сессии одного типа диалога по user id.
// Сессии не истекают: их удаляет завершение диалога или перезапуск.
type Store[T any] struct {
	mu       sync.Mutex
	sessions map[int64]Session[T]
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{sessions: make(map[int64]Session[T])}
}

// Get возвращает копию сессии.
func (s *Store[T]) Get(userID int64) (Session[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	return sess, ok
}

func (s *Store[T]) Put(userID int64, sess Session[T]) {
	s.mu.Lock()
	s.sessions[userID] = sess
	s.mu.Unlock()
}

func (s *Store[T]) Delete(userID int64) {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
}

func (s *Store[T]) Has(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[userID]
	return ok
}

func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
