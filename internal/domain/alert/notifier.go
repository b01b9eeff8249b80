package alert

// Notifier defines an interface for sending fire-and-forget operator alerts
// on fatal conditions. This decouples the application logic from the
// specific messaging library.
type Notifier interface {
	// Send delivers a titled alert. Implementations must not block
	// processing on delivery failure; errors are for logging only.
	Send(title, body string) error
}

// Nop is a Notifier that discards all alerts. Used when no alerting
// endpoint is configured.
type Nop struct{}

func (Nop) Send(title, body string) error { return nil }
