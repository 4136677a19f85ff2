package telegram

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type chatLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ChatRateLimiter ограничивает частоту обновлений по каждому чату отдельно,
// чтобы один разговорчивый чат не выедал обработку у остальных.
type ChatRateLimiter struct {
	chats      map[int64]*chatLimiter
	mu         sync.Mutex
	rate       rate.Limit
	burst      int
	expiration time.Duration

	ctx context.Context
}

func NewChatRateLimiter(ctx context.Context, requests int, window time.Duration) *ChatRateLimiter {
	l := &ChatRateLimiter{
		chats:      make(map[int64]*chatLimiter),
		rate:       rate.Limit(float64(requests) / window.Seconds()),
		burst:      requests,
		expiration: 1 * time.Hour,
		ctx:        ctx,
	}

	go l.cleanupChats()

	return l
}

// Allow сообщает, можно ли обработать очередное обновление чата.
func (l *ChatRateLimiter) Allow(chatID int64) bool {
	return l.getChatLimiter(chatID).Allow()
}

func (l *ChatRateLimiter) getChatLimiter(chatID int64) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	chat, exists := l.chats[chatID]
	if !exists {
		chat = &chatLimiter{
			limiter:  rate.NewLimiter(l.rate, l.burst),
			lastSeen: time.Now(),
		}
		l.chats[chatID] = chat
	} else {
		chat.lastSeen = time.Now()
	}

	return chat.limiter
}

func (l *ChatRateLimiter) cleanupChats() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			for chatID, chat := range l.chats {
				if time.Since(chat.lastSeen) > l.expiration {
					delete(l.chats, chatID)
				}
			}
			l.mu.Unlock()
		case <-l.ctx.Done():
			return
		}
	}
}
