package service

// Notifier is the user-visible notification surface: toasts in a web UI,
// colored lines in the terminal. Every outcome of a user-triggered action
// is reported through it.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Warning(msg string)
}

// Navigator switches the UI to another view. The controller only ever needs
// the order-history view, the target of a successful checkout.
type Navigator interface {
	NavigateToOrders()
}
