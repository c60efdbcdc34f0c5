package dialog

import (
	"sync"
	"testing"
)

func TestStoreLifecycle(t *testing.T) {
	s := NewStore[RefundData]()

	if s.Has(1) {
		t.Fatal("empty store reports a session")
	}

	s.Put(1, Session[RefundData]{Step: StepWaitingOrder})
	sess, ok := s.Get(1)
	if !ok || sess.Step != StepWaitingOrder {
		t.Fatalf("Get = %+v, %v", sess, ok)
	}

	sess.Data.OrderNumber = "123456"
	if got, _ := s.Get(1); got.Data.OrderNumber != "" {
		t.Fatal("Get must return a copy")
	}

	s.Delete(1)
	if s.Has(1) || s.Len() != 0 {
		t.Fatal("session not deleted")
	}
}

func TestStoreConcurrentUsers(t *testing.T) {
	s := NewStore[OperatorData]()

	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			s.Put(id, Session[OperatorData]{Step: StepWaitingProblem})
			s.Has(id)
		}(i)
	}
	wg.Wait()

	if s.Len() != 50 {
		t.Fatalf("Len = %d, want 50", s.Len())
	}
}
