package game

import (
	"context"
	"log"

	"github.com/quizdash/quizdash-backend/internal"
)

// startQuestionTimer schedules the round deadline for g. The deadline fires
// through the timer context; an early EndQuestion cancels the context so the
// goroutine exits without scoring. If a stale expiry slips through anyway,
// EndQuestion's CurrentQuestion guard makes it a no-op.
func (e *Engine) startQuestionTimer(g *internal.Game) {
	g.Mu.Lock()

	// Supersede any timer left over from a previous round.
	if g.Timer != nil && g.Timer.Cancel != nil {
		g.Timer.Cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.limit)
	g.Timer = &internal.QuestionTimer{
		StartTime: g.QuestionStartTime,
		Duration:  e.limit,
		Context:   ctx,
		Cancel:    cancel,
	}
	pin := g.Pin
	g.Mu.Unlock()

	go func() {
		<-ctx.Done()

		g.Mu.Lock()
		expired := ctx.Err() == context.DeadlineExceeded &&
			g.Timer != nil && g.Timer.Context == ctx
		g.Mu.Unlock()

		if expired {
			log.Printf("[Engine.startQuestionTimer] Game %s: question time limit reached", pin)
			e.EndQuestion(pin)
		}
	}()
}
