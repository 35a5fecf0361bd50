// Package flow runs the checkout/payment submission-and-confirmation
// process: validate the phone and cart, create the order, trigger the
// STK push, then poll the order until it is paid, failed or the attempt
// budget runs out.
package flow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dukahq/go-duka/cart"
	"github.com/dukahq/go-duka/consts"
	"github.com/dukahq/go-duka/log"
	"github.com/dukahq/go-duka/orders"
	"github.com/dukahq/go-duka/payments"
	"github.com/dukahq/go-duka/phone"
)

var (
	// ErrEmptyCart rejects a submission with nothing to pay for. The
	// caller should send the user back to the cart screen.
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

	// ErrPollTimeout ends a run whose payment was never confirmed within
	// the attempt budget. Terminal; the order may still settle later.
	ErrPollTimeout = errors.New("payment confirmation timed out")

	// ErrBusy rejects a second submission while one is in flight.
	ErrBusy = errors.New("a checkout is already in progress")

	errIllegalTransition = errors.New("illegal checkout state transition")
)

// API is the slice of the remote API the flow needs. *go_duka.Client
// satisfies it through Client.CheckoutFlow.
type API interface {
	CreateOrder(ctx context.Context, req *orders.CheckoutRequest) (*orders.CheckoutResponse, error)
	InitiatePush(ctx context.Context, req *payments.PushRequest) (*payments.PushResponse, error)
	OrderStatus(ctx context.Context, orderID string) (*orders.Order, error)
}

// CartStore is the slice of the local cart the flow needs.
type CartStore interface {
	Lines() ([]cart.Line, error)
	Clear() error
}

// Options tune one flow instance.
type Options struct {
	// ShippingAddress and PaymentMethod go into the checkout request.
	ShippingAddress string
	PaymentMethod   string

	// InitialDelay is waited once after the push before the first status
	// check; PollInterval between checks; MaxAttempts bounds the number
	// of status requests exactly.
	InitialDelay time.Duration
	PollInterval time.Duration
	MaxAttempts  int

	Logger log.Logger

	// OnTransition observes every state change of a run.
	OnTransition func(from, to State)
}

const (
	DefaultShippingAddress = "Nairobi, Kenya"
	DefaultPaymentMethod   = "mpesa"
	DefaultInitialDelay    = 5 * time.Second
	DefaultPollInterval    = 3 * time.Second
	DefaultMaxAttempts     = 20
)

func (o *Options) applyDefaults() {
	if o.ShippingAddress == "" {
		o.ShippingAddress = DefaultShippingAddress
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = DefaultPaymentMethod
	}
	if o.InitialDelay <= 0 {
		o.InitialDelay = DefaultInitialDelay
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.Logger == nil {
		o.Logger = log.NopLogger{}
	}
}

// Flow drives one checkout at a time. A Flow may be reused for
// subsequent runs once the previous run returned.
type Flow struct {
	api  API
	cart CartStore
	opts Options

	busy atomic.Bool

	mu    sync.Mutex
	state State
}

func New(api API, store CartStore, opts Options) (*Flow, error) {
	if api == nil {
		return nil, errors.New("flow: api is nil")
	}
	if store == nil {
		return nil, errors.New("flow: cart store is nil")
	}
	opts.applyDefaults()
	return &Flow{api: api, cart: store, opts: opts, state: StateIdle}, nil
}

// State returns the current state of the flow.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) transition(to State) error {
	f.mu.Lock()
	from := f.state
	if from != to && !canTransition(from, to) {
		f.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", errIllegalTransition, from, to)
	}
	f.state = to
	f.mu.Unlock()

	if from != to {
		f.opts.Logger.Debugf("[Checkout] %s -> %s", from, to)
		if f.opts.OnTransition != nil {
			f.opts.OnTransition(from, to)
		}
	}
	return nil
}

// reset puts the flow back to Idle after a local validation rejection.
func (f *Flow) reset() {
	f.mu.Lock()
	f.state = StateIdle
	f.mu.Unlock()
}

// Result is the terminal outcome of one run.
type Result struct {
	State State

	// OrderID is set once order creation succeeded.
	OrderID string
	// Phone is the normalized number the push went to.
	Phone string
	// LocalTotal is the client-side cart sum the push was charged with.
	// Order.TotalAmount is the authoritative figure once available.
	LocalTotal int64

	// Order is the last polled order, Payment the push response.
	Order   *orders.Order
	Payment *payments.PushResponse

	// Attempts counts status requests actually made.
	Attempts int

	// Message is the single user-visible outcome line.
	Message string
}

// apiMessenger is implemented by SDK errors that carry a
// server-provided message.
type apiMessenger interface {
	APIMessage() string
}

func failureMessage(err error) string {
	var am apiMessenger
	if errors.As(err, &am) {
		if msg := am.APIMessage(); msg != "" {
			return msg
		}
	}
	return "Payment processing failed. Please try again."
}

// Run executes one submission end to end and blocks until a terminal
// state or ctx is cancelled. Cancellation stops all pending timers and
// issues no further requests.
//
// Validation rejections (bad phone, empty cart) return the flow to Idle
// and never reach the network. Every other failure ends in Failed or
// TimedOut; the flow is always re-armed for another run on return.
func (f *Flow) Run(ctx context.Context, rawPhone string) (*Result, error) {
	if !f.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer f.busy.Store(false)

	// Each run starts fresh; the previous run ended in a terminal state
	// or was cancelled mid-flight.
	f.reset()
	if err := f.transition(StateValidating); err != nil {
		return nil, err
	}

	msisdn, err := phone.Normalize(rawPhone)
	if err != nil {
		f.reset()
		return nil, err
	}
	lines, err := f.cart.Lines()
	if err != nil {
		f.reset()
		return nil, fmt.Errorf("read cart: %w", err)
	}
	if len(lines) == 0 {
		f.reset()
		return nil, ErrEmptyCart
	}

	res := &Result{Phone: msisdn, LocalTotal: cart.Total(lines)}

	if err := f.transition(StateCreatingOrder); err != nil {
		return nil, err
	}
	created, err := f.api.CreateOrder(ctx, &orders.CheckoutRequest{
		ShippingAddress: f.opts.ShippingAddress,
		PaymentMethod:   f.opts.PaymentMethod,
		Items:           lines,
	})
	if err != nil {
		return f.fail(res, err)
	}
	if created == nil || created.OrderID == "" {
		return f.fail(res, errors.New("checkout response is missing order id"))
	}
	res.OrderID = created.OrderID.String()
	f.opts.Logger.Infof("[Checkout] order %s created, initiating push to %s", res.OrderID, msisdn)

	if err := f.transition(StateInitiatingPayment); err != nil {
		return nil, err
	}
	push, err := f.api.InitiatePush(ctx, &payments.PushRequest{
		Phone:   msisdn,
		Amount:  res.LocalTotal,
		OrderID: res.OrderID,
	})
	if err != nil {
		return f.fail(res, err)
	}
	res.Payment = push
	if push == nil || !push.Success {
		msg := "payment initiation failed"
		if push != nil && push.Message != "" {
			msg = push.Message
		}
		return f.failMsg(res, errors.New(msg), msg)
	}

	if err := f.transition(StateAwaitingConfirmation); err != nil {
		return nil, err
	}
	f.opts.Logger.Infof("[Checkout] push sent for order %s, awaiting confirmation", res.OrderID)

	if err := sleep(ctx, f.opts.InitialDelay); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= f.opts.MaxAttempts; attempt++ {
		ord, err := f.api.OrderStatus(ctx, res.OrderID)
		if err != nil {
			return f.fail(res, err)
		}
		res.Attempts = attempt
		if ord != nil {
			res.Order = ord
			switch ord.PaymentStatus {
			case consts.PaymentStatusPaid:
				if err := f.cart.Clear(); err != nil {
					// The payment settled; a stale local cart is not a failure.
					f.opts.Logger.Warnf("[Checkout] cannot clear cart after payment: %v", err)
				}
				if err := f.transition(StateSucceeded); err != nil {
					return nil, err
				}
				res.State = StateSucceeded
				res.Message = "Payment received. Thank you for your purchase."
				return res, nil
			case consts.PaymentStatusFailed:
				// Do not burn the remaining attempts on a dead payment.
				return f.failMsg(res, errors.New("payment failed"), "Payment failed. You have not been charged.")
			}
		}
		f.opts.Logger.Debugf("[Checkout] order %s still pending, attempt %d/%d", res.OrderID, attempt, f.opts.MaxAttempts)
		if attempt == f.opts.MaxAttempts {
			break
		}
		if err := sleep(ctx, f.opts.PollInterval); err != nil {
			return nil, err
		}
	}

	if err := f.transition(StateTimedOut); err != nil {
		return nil, err
	}
	res.State = StateTimedOut
	res.Message = "Payment not confirmed yet. Please check your order history."
	return res, ErrPollTimeout
}

func (f *Flow) fail(res *Result, err error) (*Result, error) {
	return f.failMsg(res, err, failureMessage(err))
}

func (f *Flow) failMsg(res *Result, err error, msg string) (*Result, error) {
	if terr := f.transition(StateFailed); terr != nil {
		return nil, terr
	}
	res.State = StateFailed
	res.Message = msg
	return res, err
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
