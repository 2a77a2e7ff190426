package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"simbengride/internal/models"
	"simbengride/internal/utils"
	"simbengride/pkg/logger"
)

var ErrInvalidPaymentTransition = errors.New("invalid payment state transition")

// PaymentGateway is the slice of the remote gateway the payment flow needs.
type PaymentGateway interface {
	CreatePaymentOrder(ctx context.Context, userID string) (*models.PaymentOrder, error)
	ConfirmPayment(ctx context.Context, userID string) (*models.User, error)
}

// PaymentFlow is a snapshot of one actor's renewal handshake.
type PaymentFlow struct {
	State       models.PaymentState `json:"state"`
	OrderID     string              `json:"order_id,omitempty"`
	PaymentLink string              `json:"payment_link,omitempty"`
	Message     string              `json:"message,omitempty"`
}

type flowState struct {
	PaymentFlow
	sessionID  string
	applyTimer *time.Timer
}

// PaymentService drives the renewal handshake:
//
//	idle -> creating -> waiting -> verifying -> success
//
// with error reachable from any active state and recoverable by an explicit
// user retry. Flows are ephemeral and keyed by actor id; the remote backend
// independently tracks order state. On success a cancellable timer applies
// the renewed actor to session state after a short confirmation pause.
type PaymentService struct {
	gateway    PaymentGateway
	sessions   SessionService
	applyDelay time.Duration
	logger     *logger.Logger

	mu    sync.Mutex
	flows map[string]*flowState
}

func NewPaymentService(gw PaymentGateway, sessions SessionService, log *logger.Logger) *PaymentService {
	return &PaymentService{
		gateway:    gw,
		sessions:   sessions,
		applyDelay: utils.PaymentApplyDelay,
		logger:     log,
		flows:      make(map[string]*flowState),
	}
}

// Open is the named entry transition: it always resets the flow to idle and
// clears any prior error, regardless of what state a previous interaction
// left behind.
func (s *PaymentService) Open(userID, sessionID string) PaymentFlow {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow := s.flows[userID]
	if flow != nil && flow.applyTimer != nil {
		flow.applyTimer.Stop()
	}

	flow = &flowState{sessionID: sessionID}
	flow.State = models.PaymentStateIdle
	s.flows[userID] = flow

	s.logger.LogPaymentEvent(userID, string(flow.State), nil)
	return flow.PaymentFlow
}

// Flow returns the current snapshot; an actor with no open flow is idle.
func (s *PaymentService) Flow(userID string) PaymentFlow {
	s.mu.Lock()
	defer s.mu.Unlock()

	if flow, ok := s.flows[userID]; ok {
		return flow.PaymentFlow
	}
	return PaymentFlow{State: models.PaymentStateIdle}
}

// Initiate creates a payment order and hands the link to the caller. Valid
// from idle, from waiting (retry-link) and from error (new-payment).
func (s *PaymentService) Initiate(ctx context.Context, userID string) (PaymentFlow, error) {
	s.mu.Lock()
	flow, ok := s.flows[userID]
	if !ok {
		s.mu.Unlock()
		return PaymentFlow{}, ErrInvalidPaymentTransition
	}
	switch flow.State {
	case models.PaymentStateIdle, models.PaymentStateWaiting, models.PaymentStateError:
	default:
		state := flow.PaymentFlow
		s.mu.Unlock()
		return state, ErrInvalidPaymentTransition
	}
	flow.State = models.PaymentStateCreating
	flow.Message = ""
	s.mu.Unlock()

	order, err := s.gateway.CreatePaymentOrder(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.flows[userID]; !ok || current != flow || flow.State != models.PaymentStateCreating {
		// Flow was reset or closed while the order call was in flight.
		return s.snapshotLocked(userID), nil
	}

	if err != nil {
		flow.State = models.PaymentStateError
		flow.Message = err.Error()
	} else if order.PaymentLink == "" {
		flow.State = models.PaymentStateError
		flow.Message = utils.ErrPaymentLinkMissing
	} else {
		flow.State = models.PaymentStateWaiting
		flow.OrderID = order.OrderID
		flow.PaymentLink = order.PaymentLink
	}

	s.logger.LogPaymentEvent(userID, string(flow.State), map[string]interface{}{"order_id": flow.OrderID})
	return flow.PaymentFlow, nil
}

// Confirm verifies the payment after the user reports completing it. On
// success the renewed actor is applied to session state once the apply timer
// fires; Close cancels that timer if the flow is torn down first.
func (s *PaymentService) Confirm(ctx context.Context, userID string) (PaymentFlow, error) {
	s.mu.Lock()
	flow, ok := s.flows[userID]
	if !ok || flow.State != models.PaymentStateWaiting {
		var state PaymentFlow
		if ok {
			state = flow.PaymentFlow
		}
		s.mu.Unlock()
		return state, ErrInvalidPaymentTransition
	}
	flow.State = models.PaymentStateVerifying
	s.mu.Unlock()

	user, err := s.gateway.ConfirmPayment(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.flows[userID]; !ok || current != flow || flow.State != models.PaymentStateVerifying {
		return s.snapshotLocked(userID), nil
	}

	if err != nil {
		flow.State = models.PaymentStateError
		flow.Message = err.Error()
		if flow.Message == "" {
			flow.Message = utils.ErrPaymentVerify
		}
		s.logger.LogPaymentEvent(userID, string(flow.State), map[string]interface{}{"order_id": flow.OrderID})
		return flow.PaymentFlow, nil
	}

	flow.State = models.PaymentStateSuccess
	sessionID := flow.sessionID
	renewed := user.Clone()
	flow.applyTimer = time.AfterFunc(s.applyDelay, func() {
		if _, applyErr := s.sessions.Replace(context.Background(), sessionID, renewed); applyErr != nil {
			s.logger.WithError(applyErr).WithUserID(userID).Error("Failed to apply renewed subscription to session")
		}
		s.Close(userID)
	})

	s.logger.LogPaymentEvent(userID, string(flow.State), map[string]interface{}{"order_id": flow.OrderID})
	return flow.PaymentFlow, nil
}

// RetryVerify returns an errored flow to waiting so the user can verify
// again without recreating the order.
func (s *PaymentService) RetryVerify(userID string) (PaymentFlow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, ok := s.flows[userID]
	if !ok || flow.State != models.PaymentStateError {
		var state PaymentFlow
		if ok {
			state = flow.PaymentFlow
		}
		return state, ErrInvalidPaymentTransition
	}

	flow.State = models.PaymentStateWaiting
	flow.Message = ""
	return flow.PaymentFlow, nil
}

// Close tears the flow down and cancels a pending apply timer.
func (s *PaymentService) Close(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if flow, ok := s.flows[userID]; ok {
		if flow.applyTimer != nil {
			flow.applyTimer.Stop()
		}
		delete(s.flows, userID)
	}
}

func (s *PaymentService) snapshotLocked(userID string) PaymentFlow {
	if flow, ok := s.flows[userID]; ok {
		return flow.PaymentFlow
	}
	return PaymentFlow{State: models.PaymentStateIdle}
}
