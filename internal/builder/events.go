package builder

// Event is a builder lifecycle event: a name, the project it concerns, and
// optional fields.
type Event struct {
	Name    string
	Project string
	Fields  map[string]any
}

// EventPublisher receives events from the builder. Publish must not block or panic.
type EventPublisher interface {
	Publish(Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

func (b *Builder) publish(name, project string, fields map[string]any) {
	if fields == nil {
		fields = map[string]any{}
	}
	b.pub.Publish(Event{Name: name, Project: project, Fields: fields})
}
