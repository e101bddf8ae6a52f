package invoice

// paymentState implements the state pattern for invoice payment transitions:
//
//	pending -> completed | failed
//	failed  -> pending (new session) | completed (late capture) | failed
//	completed, refunded: terminal
type paymentState interface {
	Status() PaymentStatus
	OnSessionStarted(i *Invoice) (paymentState, error)
	OnPaymentSucceeded(i *Invoice) (paymentState, error)
	OnPaymentFailed(i *Invoice) (paymentState, error)
}

func stateOf(s PaymentStatus) paymentState {
	switch s {
	case PaymentCompleted:
		return completedState{}
	case PaymentFailed:
		return failedState{}
	case PaymentRefunded:
		return refundedState{}
	default:
		return pendingState{}
	}
}

type pendingState struct{}

func (pendingState) Status() PaymentStatus { return PaymentPending }

func (pendingState) OnSessionStarted(*Invoice) (paymentState, error) {
	return pendingState{}, nil
}

func (pendingState) OnPaymentSucceeded(*Invoice) (paymentState, error) {
	return completedState{}, nil
}

func (pendingState) OnPaymentFailed(*Invoice) (paymentState, error) {
	return failedState{}, nil
}

type failedState struct{}

func (failedState) Status() PaymentStatus { return PaymentFailed }

func (failedState) OnSessionStarted(*Invoice) (paymentState, error) {
	return pendingState{}, nil
}

// A capture reported after the invoice was marked failed (customer went back
// to a session it had abandoned) still settles the invoice.
func (failedState) OnPaymentSucceeded(*Invoice) (paymentState, error) {
	return completedState{}, nil
}

func (failedState) OnPaymentFailed(*Invoice) (paymentState, error) {
	return failedState{}, nil
}

type completedState struct{}

func (completedState) Status() PaymentStatus { return PaymentCompleted }

func (completedState) OnSessionStarted(*Invoice) (paymentState, error) {
	return nil, ErrAlreadyCompleted
}

func (completedState) OnPaymentSucceeded(*Invoice) (paymentState, error) {
	return nil, ErrAlreadyCompleted
}

func (completedState) OnPaymentFailed(*Invoice) (paymentState, error) {
	return nil, ErrAlreadyCompleted
}

type refundedState struct{}

func (refundedState) Status() PaymentStatus { return PaymentRefunded }

func (refundedState) OnSessionStarted(*Invoice) (paymentState, error) {
	return nil, ErrInvalidStateTransition
}

func (refundedState) OnPaymentSucceeded(*Invoice) (paymentState, error) {
	return nil, ErrInvalidStateTransition
}

func (refundedState) OnPaymentFailed(*Invoice) (paymentState, error) {
	return nil, ErrInvalidStateTransition
}
