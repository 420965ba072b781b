package console

import (
	"sync"

	"github.com/rpupo63/blog-admin-console/errs"
)

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is a transient message shown to the user once
type Notification struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Variant     Variant `json:"variant"`
}

type Notifier interface {
	Notify(n Notification)
}

// Inbox queues notifications until the next page drains them
type Inbox struct {
	mu    sync.Mutex
	items []Notification
}

func (i *Inbox) Notify(n Notification) {
	if n.Variant == "" {
		n.Variant = VariantDefault
	}
	i.mu.Lock()
	i.items = append(i.items, n)
	i.mu.Unlock()
}

// Drain returns the queued notifications in arrival order and empties the inbox
func (i *Inbox) Drain() []Notification {
	i.mu.Lock()
	defer i.mu.Unlock()
	items := i.items
	i.items = nil
	return items
}

func success(title, description string) Notification {
	return Notification{Title: title, Description: description, Variant: VariantDefault}
}

// failure turns err into a destructive notification. Validation and service
// errors keep their own text, anything else is reported as unexpected.
func failure(title string, err error) Notification {
	description := errs.Message(err)
	if errs.KindOf(err) == errs.KindUnexpected {
		title = "Unexpected error"
	}
	return Notification{Title: title, Description: description, Variant: VariantDestructive}
}
