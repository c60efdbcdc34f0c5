package dialog

import (
	"context"
	"log"

	"github.com/google/uuid"
)

// submit отдаёт заявку в sink. Ошибка только логируется.
func submit(ctx context.Context, deps Deps, req Request) {
	req.ID = uuid.NewString()
	req.CreatedAt = deps.Now()

	if err := deps.Requests.SaveRequest(ctx, req); err != nil {
		log.Printf("[dialog] save %s request %s failed: %v", req.Kind, req.ID, err)
		return
	}
	log.Printf("[dialog] %s request %s saved order=%s", req.Kind, req.ID, req.OrderNumber)
}
