package session

// NotificationKind tells which lifecycle event produced a notification.
type NotificationKind string

const (
	NotifyValidationFailed NotificationKind = "ValidationFailed"
	NotifyAnalysisComplete NotificationKind = "AnalysisComplete"
	NotifyAnalysisFailed   NotificationKind = "AnalysisFailed"
	NotifyExportStarted    NotificationKind = "ExportStarted"
)

// Notification is a short user-facing message. Message is never empty.
type Notification struct {
	Kind        NotificationKind
	Title       string
	Message     string
	Destructive bool
}

// Notifier presents notifications to the user.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) {}
