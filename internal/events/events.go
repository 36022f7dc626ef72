// Package events carries notifications emitted by the store to presentation
// layers. Delivery is synchronous fan-out, at most once per subscriber per
// emission, with nothing retained for subscribers that join later.
package events

import "github.com/mrlokans/bookreviews/internal/entities"

type Topic string

const (
	TopicBookAdded    Topic = "book:added"
	TopicBookReleased Topic = "book:released"
	TopicLogin        Topic = "auth:login"
	TopicLogout       Topic = "auth:logout"
	TopicToast        Topic = "ui:toast"
)

// Event is implemented by every payload type; the topic is fixed per type.
type Event interface {
	Topic() Topic
}

type BookAdded struct {
	Book entities.Book `json:"book"`
}

type BookReleased struct {
	Book entities.Book `json:"book"`
}

type Login struct {
	User entities.PublicUser `json:"user"`
}

type Logout struct{}

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

type Toast struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (BookAdded) Topic() Topic    { return TopicBookAdded }
func (BookReleased) Topic() Topic { return TopicBookReleased }
func (Login) Topic() Topic        { return TopicLogin }
func (Logout) Topic() Topic       { return TopicLogout }
func (Toast) Topic() Topic        { return TopicToast }

// Success, Error and Info build toasts of the matching severity.
func Success(message string) Toast { return Toast{Severity: SeveritySuccess, Message: message} }
func Error(message string) Toast   { return Toast{Severity: SeverityError, Message: message} }
func Info(message string) Toast    { return Toast{Severity: SeverityInfo, Message: message} }
