package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"simbengride/internal/models"
	"simbengride/internal/utils"
)

type fakePaymentGateway struct {
	createFn  func(ctx context.Context, userID string) (*models.PaymentOrder, error)
	confirmFn func(ctx context.Context, userID string) (*models.User, error)
}

func (f *fakePaymentGateway) CreatePaymentOrder(ctx context.Context, userID string) (*models.PaymentOrder, error) {
	return f.createFn(ctx, userID)
}

func (f *fakePaymentGateway) ConfirmPayment(ctx context.Context, userID string) (*models.User, error) {
	return f.confirmFn(ctx, userID)
}

func newTestPaymentService(t *testing.T, gw *fakePaymentGateway, sessions SessionService) *PaymentService {
	t.Helper()

	svc := NewPaymentService(gw, sessions, newTestLogger(t))
	svc.applyDelay = 10 * time.Millisecond
	return svc
}

func TestPaymentFlowDefaultsToIdle(t *testing.T) {
	svc := newTestPaymentService(t, &fakePaymentGateway{}, newTestSessions(t))

	flow := svc.Flow("nobody")
	if flow.State != models.PaymentStateIdle {
		t.Errorf("State = %q, want idle", flow.State)
	}
}

func TestPaymentInitiateRequiresOpenFlow(t *testing.T) {
	svc := newTestPaymentService(t, &fakePaymentGateway{}, newTestSessions(t))

	if _, err := svc.Initiate(context.Background(), "owner-1"); !errors.Is(err, ErrInvalidPaymentTransition) {
		t.Errorf("Initiate without Open err = %v, want ErrInvalidPaymentTransition", err)
	}
}

func TestPaymentInitiateSuccess(t *testing.T) {
	gw := &fakePaymentGateway{
		createFn: func(ctx context.Context, userID string) (*models.PaymentOrder, error) {
			return &models.PaymentOrder{OrderID: "ord-42", PaymentLink: "https://pay.example/ord-42"}, nil
		},
	}
	svc := newTestPaymentService(t, gw, newTestSessions(t))
	svc.Open("owner-1", "sess-1")

	flow, err := svc.Initiate(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	if flow.State != models.PaymentStateWaiting {
		t.Errorf("State = %q, want waiting", flow.State)
	}
	if flow.OrderID != "ord-42" || flow.PaymentLink != "https://pay.example/ord-42" {
		t.Errorf("flow = %+v, want order id and link carried over", flow)
	}
}

func TestPaymentInitiateMissingLink(t *testing.T) {
	gw := &fakePaymentGateway{
		createFn: func(ctx context.Context, userID string) (*models.PaymentOrder, error) {
			return &models.PaymentOrder{OrderID: "ord-42"}, nil
		},
	}
	svc := newTestPaymentService(t, gw, newTestSessions(t))
	svc.Open("owner-1", "sess-1")

	flow, err := svc.Initiate(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	if flow.State != models.PaymentStateError {
		t.Errorf("State = %q, want error", flow.State)
	}
	if flow.Message != utils.ErrPaymentLinkMissing {
		t.Errorf("Message = %q, want %q", flow.Message, utils.ErrPaymentLinkMissing)
	}
}

func TestPaymentInitiateGatewayFailure(t *testing.T) {
	gw := &fakePaymentGateway{
		createFn: func(ctx context.Context, userID string) (*models.PaymentOrder, error) {
			return nil, errors.New("network or server error")
		},
	}
	svc := newTestPaymentService(t, gw, newTestSessions(t))
	svc.Open("owner-1", "sess-1")

	flow, err := svc.Initiate(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	if flow.State != models.PaymentStateError {
		t.Errorf("State = %q, want error", flow.State)
	}
	if flow.Message != "network or server error" {
		t.Errorf("Message = %q, want the remote error", flow.Message)
	}
}

func TestPaymentInitiateRetriesFromWaitingAndError(t *testing.T) {
	calls := 0
	gw := &fakePaymentGateway{
		createFn: func(ctx context.Context, userID string) (*models.PaymentOrder, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("down")
			}
			return &models.PaymentOrder{OrderID: "ord-2", PaymentLink: "https://pay.example/ord-2"}, nil
		},
	}
	svc := newTestPaymentService(t, gw, newTestSessions(t))
	svc.Open("owner-1", "sess-1")

	// First attempt lands in error; a second attempt from error is allowed.
	if flow, _ := svc.Initiate(context.Background(), "owner-1"); flow.State != models.PaymentStateError {
		t.Fatalf("first Initiate State = %q, want error", flow.State)
	}
	flow, err := svc.Initiate(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("second Initiate: %v", err)
	}
	if flow.State != models.PaymentStateWaiting || flow.Message != "" {
		t.Errorf("flow = %+v, want waiting with cleared message", flow)
	}

	// A third attempt from waiting re-creates the order.
	if _, err := svc.Initiate(context.Background(), "owner-1"); err != nil {
		t.Errorf("Initiate from waiting: %v", err)
	}
	if calls != 3 {
		t.Errorf("gateway calls = %d, want 3", calls)
	}
}

func TestPaymentInitiateDiscardsStaleResult(t *testing.T) {
	var svc *PaymentService
	gw := &fakePaymentGateway{
		createFn: func(ctx context.Context, userID string) (*models.PaymentOrder, error) {
			// Flow is torn down while the order call is in flight.
			svc.Close(userID)
			return &models.PaymentOrder{OrderID: "late", PaymentLink: "https://pay.example/late"}, nil
		},
	}
	svc = newTestPaymentService(t, gw, newTestSessions(t))
	svc.Open("owner-1", "sess-1")

	flow, err := svc.Initiate(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	if flow.State != models.PaymentStateIdle {
		t.Errorf("State = %q, want idle after the flow was closed mid-call", flow.State)
	}
	if got := svc.Flow("owner-1"); got.OrderID != "" {
		t.Errorf("stale order leaked into a fresh flow: %+v", got)
	}
}

func TestPaymentOpenResetsErrorState(t *testing.T) {
	gw := &fakePaymentGateway{
		createFn: func(ctx context.Context, userID string) (*models.PaymentOrder, error) {
			return nil, errors.New("down")
		},
	}
	svc := newTestPaymentService(t, gw, newTestSessions(t))
	svc.Open("owner-1", "sess-1")
	svc.Initiate(context.Background(), "owner-1")

	flow := svc.Open("owner-1", "sess-1")
	if flow.State != models.PaymentStateIdle || flow.Message != "" || flow.OrderID != "" {
		t.Errorf("Open returned %+v, want a clean idle flow", flow)
	}
}

func TestPaymentConfirmRequiresWaiting(t *testing.T) {
	svc := newTestPaymentService(t, &fakePaymentGateway{}, newTestSessions(t))
	svc.Open("owner-1", "sess-1")

	if _, err := svc.Confirm(context.Background(), "owner-1"); !errors.Is(err, ErrInvalidPaymentTransition) {
		t.Errorf("Confirm from idle err = %v, want ErrInvalidPaymentTransition", err)
	}
}

func TestPaymentConfirmFailureIsRetryable(t *testing.T) {
	gw := &fakePaymentGateway{
		createFn: func(ctx context.Context, userID string) (*models.PaymentOrder, error) {
			return &models.PaymentOrder{OrderID: "ord-1", PaymentLink: "https://pay.example/ord-1"}, nil
		},
		confirmFn: func(ctx context.Context, userID string) (*models.User, error) {
			return nil, errors.New(utils.ErrPaymentVerify)
		},
	}
	svc := newTestPaymentService(t, gw, newTestSessions(t))
	svc.Open("owner-1", "sess-1")
	svc.Initiate(context.Background(), "owner-1")

	flow, err := svc.Confirm(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if flow.State != models.PaymentStateError {
		t.Fatalf("State = %q, want error", flow.State)
	}
	if flow.Message != utils.ErrPaymentVerify {
		t.Errorf("Message = %q, want %q", flow.Message, utils.ErrPaymentVerify)
	}

	// Retry returns to waiting without recreating the order.
	retried, err := svc.RetryVerify("owner-1")
	if err != nil {
		t.Fatalf("RetryVerify: %v", err)
	}
	if retried.State != models.PaymentStateWaiting || retried.OrderID != "ord-1" {
		t.Errorf("retried flow = %+v, want waiting with the original order", retried)
	}
	if retried.Message != "" {
		t.Errorf("Message = %q, want cleared on retry", retried.Message)
	}
}

func TestPaymentRetryVerifyRequiresError(t *testing.T) {
	svc := newTestPaymentService(t, &fakePaymentGateway{}, newTestSessions(t))
	svc.Open("owner-1", "sess-1")

	if _, err := svc.RetryVerify("owner-1"); !errors.Is(err, ErrInvalidPaymentTransition) {
		t.Errorf("RetryVerify from idle err = %v, want ErrInvalidPaymentTransition", err)
	}
}

func TestPaymentConfirmSuccessAppliesRenewedActor(t *testing.T) {
	sessions := newTestSessions(t)
	expired := newTestOwner("2000-01-01T00:00:00Z")
	sessionID := establishSession(t, sessions, expired)

	renewedExpiry := futureExpiry(100 * 24 * time.Hour)
	gw := &fakePaymentGateway{
		createFn: func(ctx context.Context, userID string) (*models.PaymentOrder, error) {
			return &models.PaymentOrder{OrderID: "ord-1", PaymentLink: "https://pay.example/ord-1"}, nil
		},
		confirmFn: func(ctx context.Context, userID string) (*models.User, error) {
			return newTestOwner(renewedExpiry), nil
		},
	}
	svc := newTestPaymentService(t, gw, sessions)
	svc.Open(expired.ID, sessionID)
	svc.Initiate(context.Background(), expired.ID)

	flow, err := svc.Confirm(context.Background(), expired.ID)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if flow.State != models.PaymentStateSuccess {
		t.Fatalf("State = %q, want success", flow.State)
	}

	// The renewed actor lands in session state once the apply timer fires.
	deadline := time.Now().Add(time.Second)
	for {
		current, err := sessions.Current(context.Background(), sessionID)
		if err != nil {
			t.Fatalf("Current: %v", err)
		}
		if current.ExpiresAt == renewedExpiry {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("ExpiresAt = %q, renewed actor never applied", current.ExpiresAt)
		}
		time.Sleep(5 * time.Millisecond)
	}

	// The flow tears itself down after applying.
	if got := svc.Flow(expired.ID); got.State != models.PaymentStateIdle {
		t.Errorf("Flow after apply = %q, want idle", got.State)
	}
}

func TestPaymentCloseCancelsPendingApply(t *testing.T) {
	sessions := newTestSessions(t)
	expired := newTestOwner("2000-01-01T00:00:00Z")
	sessionID := establishSession(t, sessions, expired)

	gw := &fakePaymentGateway{
		createFn: func(ctx context.Context, userID string) (*models.PaymentOrder, error) {
			return &models.PaymentOrder{OrderID: "ord-1", PaymentLink: "https://pay.example/ord-1"}, nil
		},
		confirmFn: func(ctx context.Context, userID string) (*models.User, error) {
			return newTestOwner(futureExpiry(100 * 24 * time.Hour)), nil
		},
	}
	svc := newTestPaymentService(t, gw, sessions)
	svc.applyDelay = 50 * time.Millisecond
	svc.Open(expired.ID, sessionID)
	svc.Initiate(context.Background(), expired.ID)
	if _, err := svc.Confirm(context.Background(), expired.ID); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	// Closing before the timer fires must leave session state untouched.
	svc.Close(expired.ID)
	time.Sleep(100 * time.Millisecond)

	current, err := sessions.Current(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if current.ExpiresAt != expired.ExpiresAt {
		t.Errorf("ExpiresAt = %q, want unchanged %q", current.ExpiresAt, expired.ExpiresAt)
	}
}
