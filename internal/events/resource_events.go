package events

import "time"

// ResourceChangedEvent - сервер подтвердил изменение записи ресурса.
type ResourceChangedEvent struct {
	ActorID   string
	ActorName string
	ActorRole string
	Resource  string
	Action    string // create | update | delete | status | login | logout
	RecordID  string
	Summary   string
	At        time.Time
}

func (e ResourceChangedEvent) Name() string { return "resource.changed" }
