package entrypoint

import (
	"log"

	"github.com/mrlokans/bookreviews/internal/events"
)

// LogEvents logs every event emitted on relay. The returned function
// unsubscribes.
func LogEvents(relay *events.Relay) func() {
	return relay.SubscribeAll(func(e events.Event) {
		switch ev := e.(type) {
		case events.BookAdded:
			log.Printf("[EVENT] %s: %q by %s", ev.Topic(), ev.Book.Title, ev.Book.Author)
		case events.BookReleased:
			log.Printf("[EVENT] %s: %q", ev.Topic(), ev.Book.Title)
		case events.Login:
			log.Printf("[EVENT] %s: %s", ev.Topic(), ev.User.Email)
		case events.Toast:
			log.Printf("[EVENT] %s: %s %s", ev.Topic(), ev.Severity, ev.Message)
		default:
			log.Printf("[EVENT] %s", e.Topic())
		}
	})
}
