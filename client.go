package go_duka

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"

	"github.com/dukahq/go-duka/auth"
	"github.com/dukahq/go-duka/cart"
	"github.com/dukahq/go-duka/catalog"
	"github.com/dukahq/go-duka/consts"
	"github.com/dukahq/go-duka/flow"
	"github.com/dukahq/go-duka/internal/httpclient"
	"github.com/dukahq/go-duka/log"
	"github.com/dukahq/go-duka/orders"
	"github.com/dukahq/go-duka/payments"
	"github.com/dukahq/go-duka/phone"
	"github.com/stremovskyy/recorder"
)

// Client is the main Duka storefront API client.
//
// It covers auth, catalog, the remote cart, orders and M-Pesa STK push
// payments. Authenticated calls carry the x-access-token credential
// from the configured session.
type Client struct {
	cfg config

	http *httpclient.Client

	auth     *AuthService
	catalog  *CatalogService
	cart     *CartService
	orders   *OrdersService
	payments *PaymentsService
}

func NewClient(opts ...Option) (Duka, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	c := &Client{cfg: cfg}
	c.http = httpclient.New(httpclient.Config{
		HTTPClient:    cfg.httpClient,
		Tokens:        cfg.session,
		AuthHeader:    consts.HeaderAccessToken,
		Logger:        cfg.logger,
		LogBodies:     cfg.logBodies,
		RetryAttempts: cfg.retryAttempts,
		RetryWait:     cfg.retryWait,
		Recorder:      cfg.recorder,
		Breaker:       cfg.breaker,
	})

	c.auth = &AuthService{c: c}
	c.catalog = &CatalogService{c: c}
	c.cart = &CartService{c: c}
	c.orders = &OrdersService{c: c}
	c.payments = &PaymentsService{c: c}
	return c, nil
}

// NewDefaultClient is a convenience wrapper around NewClient() with default configuration.
func NewDefaultClient() (Duka, error) {
	return NewClient()
}

// NewClientWithRecorder builds a client with an attached traffic recorder.
func NewClientWithRecorder(rec recorder.Recorder, opts ...Option) (Duka, error) {
	opts = append([]Option{WithRecorder(rec)}, opts...)
	return NewClient(opts...)
}

func (c *Client) Auth() *AuthService         { return c.auth }
func (c *Client) Catalog() *CatalogService   { return c.catalog }
func (c *Client) Cart() *CartService         { return c.cart }
func (c *Client) Orders() *OrdersService     { return c.orders }
func (c *Client) Payments() *PaymentsService { return c.payments }

// Session returns the credential session used by this client.
func (c *Client) Session() *Session { return c.cfg.session }

// SetLogLevel updates SDK log level when current logger supports it.
func (c *Client) SetLogLevel(level log.Level) {
	if c == nil || c.cfg.logger == nil {
		return
	}
	if l, ok := c.cfg.logger.(interface{ SetLevel(log.Level) }); ok {
		l.SetLevel(level)
	}
}

// CheckoutFlow builds the checkout/payment state machine on top of this
// client, reading from and finally clearing store.
func (c *Client) CheckoutFlow(store *cart.Store, opts flow.Options) (*flow.Flow, error) {
	if opts.Logger == nil {
		opts.Logger = c.cfg.logger
	}
	return flow.New(clientAPI{c: c}, store, opts)
}

// clientAPI adapts the SDK services to the flow's API surface.
type clientAPI struct{ c *Client }

func (a clientAPI) CreateOrder(ctx context.Context, req *orders.CheckoutRequest) (*orders.CheckoutResponse, error) {
	return a.c.Orders().Checkout(ctx, req)
}

func (a clientAPI) InitiatePush(ctx context.Context, req *payments.PushRequest) (*payments.PushResponse, error) {
	return a.c.Payments().Push(ctx, req)
}

func (a clientAPI) OrderStatus(ctx context.Context, orderID string) (*orders.Order, error) {
	return a.c.Orders().Get(ctx, orderID)
}

var _ flow.API = clientAPI{}

func (c *Client) requireToken() error {
	if c == nil || c.cfg.session == nil {
		return ErrAuthRequired
	}
	if _, ok := c.cfg.session.Token(); !ok {
		return ErrAuthRequired
	}
	return nil
}

func joinURL(base string, p string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", base, err)
	}
	u.Path = path.Join(u.Path, p)
	return u.String(), nil
}

func wrapAPIError(err error) error {
	if err == nil {
		return nil
	}
	var hs *httpclient.HTTPStatusError
	if errors.As(err, &hs) {
		msg := parseAPIMessage(hs.Body)
		// The API answers 401 or 404 for missing/unknown credentials.
		if hs.StatusCode == http.StatusUnauthorized || hs.StatusCode == http.StatusNotFound {
			return &AuthError{StatusCode: hs.StatusCode, Message: msg}
		}
		return &APIError{StatusCode: hs.StatusCode, Message: msg, Body: hs.Body}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || httpclient.IsTransport(err) {
		return &NetworkError{Err: err}
	}
	return err
}

// =========================
// Auth
// =========================

type AuthService struct{ c *Client }

// SignIn exchanges credentials for a token and stores it in the session.
func (s *AuthService) SignIn(ctx context.Context, req *auth.SignInRequest, runOpts ...RunOption) (*auth.AuthResponse, error) {
	if s == nil || s.c == nil {
		return nil, errors.New("client is nil")
	}
	if req == nil {
		return nil, &ValidationError{Fields: []FieldError{{Field: "request", Message: "is nil"}}}
	}
	if err := validateSignIn(req); err != nil {
		return nil, err
	}

	full, err := joinURL(s.c.cfg.baseURL, consts.SignInPath)
	if err != nil {
		return nil, err
	}
	if shouldDryRun(runOpts, "POST", full, req) {
		return nil, nil
	}
	var out auth.AuthResponse
	_, _, err = s.c.http.DoJSON(ctx, "POST", full, req, &out)
	if err != nil {
		return nil, wrapAPIError(err)
	}
	if out.Token == "" {
		msg := out.Message
		if msg == "" {
			msg = "sign in rejected"
		}
		return nil, &AuthError{Message: msg}
	}
	if err := s.c.cfg.session.SetToken(out.Token); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	return &out, nil
}

// SignUp registers a new account. When the API returns a token the
// session is signed in right away.
func (s *AuthService) SignUp(ctx context.Context, req *auth.SignUpRequest, runOpts ...RunOption) (*auth.AuthResponse, error) {
	if s == nil || s.c == nil {
		return nil, errors.New("client is nil")
	}
	if req == nil {
		return nil, &ValidationError{Fields: []FieldError{{Field: "request", Message: "is nil"}}}
	}
	if err := validateSignUp(req); err != nil {
		return nil, err
	}

	full, err := joinURL(s.c.cfg.baseURL, consts.SignUpPath)
	if err != nil {
		return nil, err
	}
	if shouldDryRun(runOpts, "POST", full, req) {
		return nil, nil
	}
	var out auth.AuthResponse
	_, _, err = s.c.http.DoJSON(ctx, "POST", full, req, &out)
	if err != nil {
		return nil, wrapAPIError(err)
	}
	if out.Token != "" {
		if err := s.c.cfg.session.SetToken(out.Token); err != nil {
			return nil, fmt.Errorf("store token: %w", err)
		}
	}
	return &out, nil
}

// SignOut drops the stored credential. Local only, no endpoint exists.
func (s *AuthService) SignOut() error {
	if s == nil || s.c == nil {
		return errors.New("client is nil")
	}
	return s.c.cfg.session.Clear()
}

// Profile returns the signed-in user's profile.
func (s *AuthService) Profile(ctx context.Context, runOpts ...RunOption) (*auth.Profile, error) {
	if s == nil || s.c == nil {
		return nil, errors.New("client is nil")
	}
	if err := s.c.requireToken(); err != nil {
		return nil, err
	}

	full, err := joinURL(s.c.cfg.baseURL, consts.ProfilePath)
	if err != nil {
		return nil, err
	}
	if shouldDryRun(runOpts, "GET", full, nil) {
		return nil, nil
	}
	var out auth.Profile
	_, _, err = s.c.http.DoJSON(ctx, "GET", full, nil, &out)
	if err != nil {
		return nil, wrapAPIError(err)
	}
	return &out, nil
}

// =========================
// Catalog
// =========================

type CatalogService struct{ c *Client }

// Categories lists product categories. Public endpoint.
func (s *CatalogService) Categories(ctx context.Context, runOpts ...RunOption) ([]catalog.Category, error) {
	if s == nil || s.c == nil {
		return nil, errors.New("client is nil")
	}

	full, err := joinURL(s.c.cfg.baseURL, consts.CategoriesPath)
	if err != nil {
		return nil, err
	}
	if shouldDryRun(runOpts, "GET", full, nil) {
		return nil, nil
	}
	var out []catalog.Category
	_, _, err = s.c.http.DoJSON(ctx, "GET", full, nil, &out)
	if err != nil {
		return nil, wrapAPIError(err)
	}
	return out, nil
}

// ProductsByCategory lists products of one category. Public endpoint.
func (s *CatalogService) ProductsByCategory(ctx context.Context, slug string, runOpts ...RunOption) ([]catalog.Product, error) {
	if s == nil || s.c == nil {
		return nil, errors.New("client is nil")
	}
	if slug == "" {
		return nil, &ValidationError{Fields: []FieldError{{Field: "slug", Message: "is required"}}}
	}

	full, err := joinURL(s.c.cfg.baseURL, path.Join(consts.ProductsCategoryPath, url.PathEscape(slug)))
	if err != nil {
		return nil, err
	}
	if shouldDryRun(runOpts, "GET", full, nil) {
		return nil, nil
	}
	var out []catalog.Product
	_, _, err = s.c.http.DoJSON(ctx, "GET", full, nil, &out)
	if err != nil {
		return nil, wrapAPIError(err)
	}
	return out, nil
}

// =========================
// Cart (remote)
// =========================

type CartService struct{ c *Client }

// Fetch returns the authenticated user's server-side cart.
func (s *CartService) Fetch(ctx context.Context, runOpts ...RunOption) ([]cart.Line, error) {
	if s == nil || s.c == nil {
		return nil, errors.New("client is nil")
	}
	if err := s.c.requireToken(); err != nil {
		return nil, err
	}

	full, err := joinURL(s.c.cfg.baseURL, consts.CartPath)
	if err != nil {
		return nil, err
	}
	if shouldDryRun(runOpts, "GET", full, nil) {
		return nil, nil
	}
	var out cart.FetchResponse
	_, _, err = s.c.http.DoJSON(ctx, "GET", full, nil, &out)
	if err != nil {
		return nil, wrapAPIError(err)
	}
	return out.Items, nil
}

// =========================
// Orders
// =========================

type OrdersService struct{ c *Client }

// Checkout creates an order from the submitted cart lines.
func (s *OrdersService) Checkout(ctx context.Context, req *orders.CheckoutRequest, runOpts ...RunOption) (*orders.CheckoutResponse, error) {
	if s == nil || s.c == nil {
		return nil, errors.New("client is nil")
	}
	if req == nil {
		return nil, &ValidationError{Fields: []FieldError{{Field: "request", Message: "is nil"}}}
	}
	if err := validateCheckout(req); err != nil {
		return nil, err
	}
	if err := s.c.requireToken(); err != nil {
		return nil, err
	}

	full, err := joinURL(s.c.cfg.baseURL, consts.CheckoutPath)
	if err != nil {
		return nil, err
	}
	if shouldDryRun(runOpts, "POST", full, req) {
		return nil, nil
	}
	var out orders.CheckoutResponse
	_, _, err = s.c.http.DoJSON(ctx, "POST", full, req, &out)
	if err != nil {
		return nil, wrapAPIError(err)
	}
	if out.OrderID == "" {
		return nil, ErrMissingOrderID
	}
	return &out, nil
}

// Get fetches one order, including its payment status.
func (s *OrdersService) Get(ctx context.Context, orderID string, runOpts ...RunOption) (*orders.Order, error) {
	if s == nil || s.c == nil {
		return nil, errors.New("client is nil")
	}
	if orderID == "" {
		return nil, &ValidationError{Fields: []FieldError{{Field: "order_id", Message: "is required"}}}
	}
	if err := s.c.requireToken(); err != nil {
		return nil, err
	}

	full, err := joinURL(s.c.cfg.baseURL, path.Join(consts.OrdersPath, url.PathEscape(orderID)))
	if err != nil {
		return nil, err
	}
	if shouldDryRun(runOpts, "GET", full, nil) {
		return nil, nil
	}
	var out orders.GetResponse
	_, _, err = s.c.http.DoJSON(ctx, "GET", full, nil, &out)
	if err != nil {
		return nil, wrapAPIError(err)
	}
	if out.Order == nil {
		return nil, ErrMissingOrder
	}
	return out.Order, nil
}

// =========================
// Payments
// =========================

type PaymentsService struct{ c *Client }

// Push asks the gateway to prompt the customer's handset for approval.
// Settlement is confirmed separately by polling the order.
func (s *PaymentsService) Push(ctx context.Context, req *payments.PushRequest, runOpts ...RunOption) (*payments.PushResponse, error) {
	if s == nil || s.c == nil {
		return nil, errors.New("client is nil")
	}
	if req == nil {
		return nil, &ValidationError{Fields: []FieldError{{Field: "request", Message: "is nil"}}}
	}
	if err := validatePush(req); err != nil {
		return nil, err
	}
	if err := s.c.requireToken(); err != nil {
		return nil, err
	}

	full, err := joinURL(s.c.cfg.baseURL, consts.PushPath)
	if err != nil {
		return nil, err
	}
	if shouldDryRun(runOpts, "POST", full, req) {
		return nil, nil
	}
	var out payments.PushResponse
	_, _, err = s.c.http.DoJSON(ctx, "POST", full, req, &out)
	if err != nil {
		return nil, wrapAPIError(err)
	}
	return &out, nil
}

// =========================
// Validation
// =========================

func validateSignIn(req *auth.SignInRequest) error {
	ve := &ValidationError{}
	if req.Email == "" {
		ve.Add("email", "is required")
	}
	if req.Password == "" {
		ve.Add("password", "is required")
	}
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateSignUp(req *auth.SignUpRequest) error {
	ve := &ValidationError{}
	if req.Username == "" {
		ve.Add("username", "is required")
	}
	if req.Email == "" {
		ve.Add("email", "is required")
	}
	if req.Password == "" {
		ve.Add("password", "is required")
	}
	if req.Phone == "" {
		ve.Add("phone", "is required")
	} else if !phone.Valid(req.Phone) {
		ve.Add("phone", "is not a valid mobile number")
	}
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateCheckout(req *orders.CheckoutRequest) error {
	ve := &ValidationError{}
	if req.ShippingAddress == "" {
		ve.Add("shipping_address", "is required")
	}
	if req.PaymentMethod == "" {
		ve.Add("payment_method", "is required")
	}
	for i, l := range req.Items {
		if l.Quantity <= 0 {
			ve.Add(fmt.Sprintf("cart_items[%d].quantity", i), "must be > 0")
		}
		if l.UnitPrice <= 0 {
			ve.Add(fmt.Sprintf("cart_items[%d].price", i), "must be > 0")
		}
	}
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validatePush(req *payments.PushRequest) error {
	ve := &ValidationError{}
	if req.Phone == "" {
		ve.Add("phone", "is required")
	} else if !phone.Valid(req.Phone) {
		ve.Add("phone", "is not a valid mobile number")
	}
	if req.Amount <= 0 {
		ve.Add("amount", "must be > 0")
	}
	if req.OrderID == "" {
		ve.Add("order_id", "is required")
	}
	if ve.HasErrors() {
		return ve
	}
	return nil
}
