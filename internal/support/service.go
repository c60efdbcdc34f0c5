package support

import (
	"context"
	"log"
	"runtime/debug"

	"github.com/Vovarama1992/intickets-support/internal/ai"
	"github.com/Vovarama1992/intickets-support/internal/intent"
	"github.com/Vovarama1992/intickets-support/internal/operator"
)

// historyLimit: сколько последних сообщений чата уходит в историю для модели.
const historyLimit = 20

type service struct {
	repo     Repo
	router   Router
	outbound Outbound
}

func NewService(repo Repo, router Router, outbound Outbound) Service {
	if repo == nil {
		repo = NewNopRepo()
	}
	return &service{
		repo:     repo,
		router:   router,
		outbound: outbound,
	}
}

func (s *service) HandleIncoming(ctx context.Context, msg *Message) (err error) {
	log.Printf("[svc] chatId=%d user=%d text=%q", msg.ChatID, msg.Client.ID, short(msg.Text))

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[svc] panic chatId=%d: %v\n%s", msg.ChatID, rec, debug.Stack())
			err = s.outbound.SendMessage(ctx, msg.ChatID, intent.ErrorText, intent.KeyboardMain)
		}
	}()

	if err := s.repo.SaveClient(ctx, msg.Client, msg.ChatID); err != nil {
		log.Printf("[svc] %v", err)
	}

	history, err := s.repo.GetHistory(ctx, msg.ChatID, historyLimit)
	if err != nil {
		log.Printf("[svc] history chatId=%d: %v", msg.ChatID, err)
	}

	if err := s.repo.SaveMessage(ctx, msg); err != nil {
		log.Printf("[svc] save message chatId=%d: %v", msg.ChatID, err)
	}

	ctx = operator.WithUser(ctx, operator.User{
		ID:        msg.Client.ID,
		FirstName: msg.Client.FirstName,
		LastName:  msg.Client.LastName,
		Username:  msg.Client.Username,
	})

	reply := s.router.Route(ctx, msg.Client.ID, msg.Text, toAIHistory(history))

	if err := s.repo.SaveMessage(ctx, &Message{
		ChatID: msg.ChatID,
		Sender: SenderBot,
		Text:   reply.Text,
	}); err != nil {
		log.Printf("[svc] save reply chatId=%d: %v", msg.ChatID, err)
	}

	return s.outbound.SendMessage(ctx, msg.ChatID, reply.Text, reply.Keyboard)
}

func toAIHistory(history []Message) []ai.Message {
	out := make([]ai.Message, 0, len(history))
	for _, m := range history {
		role := "user"
		if m.Sender == SenderBot {
			role = "assistant"
		}
		out = append(out, ai.Message{Role: role, Text: m.Text})
	}
	return out
}

func short(s string) string {
	r := []rune(s)
	if len(r) > 180 {
		return string(r[:180]) + "..."
	}
	return s
}
