package listener

import "golang.org/x/time/rate"

type WebsocketOpt func(*WebsocketListener)

// WithMessageRate limits inbound messages per connection. A non-positive
// rate disables limiting.
func WithMessageRate(perSecond float64, burst int) WebsocketOpt {
	return func(l *WebsocketListener) {
		if perSecond <= 0 {
			l.messageRate = rate.Inf
			return
		}
		l.messageRate = rate.Limit(perSecond)
		l.messageBurst = max(burst, 1)
	}
}
