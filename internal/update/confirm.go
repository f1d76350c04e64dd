package update

import "github.com/opugacodez/tokei/internal/manager"

// ConfirmRequest is a pending question for the user. The manager operation
// that raised it blocks on Reply until the dialog resolves.
type ConfirmRequest struct {
	Message string
	Reply   chan manager.Decision
}

// DialogConfirmer bridges the manager's synchronous Confirm call into the
// message-driven UI: Confirm publishes a request the update loop renders as
// a dialog, then blocks until the user answers. Manager operations run
// inside command goroutines, so blocking here never stalls the UI thread.
type DialogConfirmer struct {
	requests chan ConfirmRequest
}

func NewDialogConfirmer() *DialogConfirmer {
	return &DialogConfirmer{requests: make(chan ConfirmRequest)}
}

func (c *DialogConfirmer) Requests() <-chan ConfirmRequest {
	return c.requests
}

func (c *DialogConfirmer) Confirm(message string) (manager.Decision, error) {
	req := ConfirmRequest{Message: message, Reply: make(chan manager.Decision, 1)}
	c.requests <- req
	return <-req.Reply, nil
}
