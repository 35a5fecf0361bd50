package go_duka

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stremovskyy/recorder"

	"github.com/dukahq/go-duka/auth"
	"github.com/dukahq/go-duka/consts"
	sdklog "github.com/dukahq/go-duka/log"
	"github.com/dukahq/go-duka/orders"
	"github.com/dukahq/go-duka/payments"
)

func TestSignInStoresTokenAndAuthHeaderFollows(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case consts.SignInPath:
			if got := r.Header.Get(consts.HeaderAccessToken); got != "" {
				http.Error(w, "unexpected token", http.StatusBadRequest)
				t.Errorf("sign in must not carry %s, got %q", consts.HeaderAccessToken, got)
				return
			}
			_, _ = w.Write([]byte(`{"token":"tok-1","user":{"id":7,"username":"amina"}}`))
		case consts.ProfilePath:
			if got := r.Header.Get(consts.HeaderAccessToken); got != "tok-1" {
				http.Error(w, "missing token", http.StatusUnauthorized)
				t.Errorf("profile must carry %s=tok-1, got %q", consts.HeaderAccessToken, got)
				return
			}
			_, _ = w.Write([]byte(`{"username":"amina","email":"a@example.com","phone":"254712345678"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	client, err := NewClient(WithBaseURL(ts.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	resp, err := client.Auth().SignIn(context.Background(), &auth.SignInRequest{
		Email:    "a@example.com",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if resp.Token != "tok-1" {
		t.Fatalf("unexpected token: %q", resp.Token)
	}
	if tok, ok := client.Session().Token(); !ok || tok != "tok-1" {
		t.Fatalf("session token not stored: %q %v", tok, ok)
	}

	profile, err := client.Auth().Profile(context.Background())
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.Phone != "254712345678" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestSignInWithoutTokenIsRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"wrong password"}`))
	}))
	defer ts.Close()

	client, err := NewClient(WithBaseURL(ts.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.Auth().SignIn(context.Background(), &auth.SignInRequest{
		Email:    "a@example.com",
		Password: "wrong",
	})
	var ae *AuthError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AuthError, got %T (%v)", err, err)
	}
	if ae.Message != "wrong password" {
		t.Fatalf("unexpected auth message: %q", ae.Message)
	}
	if _, ok := client.Session().Token(); ok {
		t.Fatalf("rejected sign in must not store a token")
	}
}

func TestAuthenticatedCallsFailFastWithoutToken(t *testing.T) {
	var hitCount int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hitCount, 1)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	client, err := NewClient(WithBaseURL(ts.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.Auth().Profile(context.Background()); !IsAuthRequired(err) {
		t.Fatalf("profile: expected ErrAuthRequired, got %v", err)
	}
	if _, err := client.Cart().Fetch(context.Background()); !IsAuthRequired(err) {
		t.Fatalf("cart fetch: expected ErrAuthRequired, got %v", err)
	}
	if _, err := client.Orders().Get(context.Background(), "17"); !IsAuthRequired(err) {
		t.Fatalf("order get: expected ErrAuthRequired, got %v", err)
	}
	if atomic.LoadInt32(&hitCount) != 0 {
		t.Fatalf("expected no HTTP calls without a token, got %d", hitCount)
	}
}

func TestExpiredTokenBecomesAuthError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"token expired"}`))
	}))
	defer ts.Close()

	client, err := NewClient(WithBaseURL(ts.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := client.Session().SetToken("stale"); err != nil {
		t.Fatalf("set token: %v", err)
	}

	_, err = client.Auth().Profile(context.Background())
	var ae *AuthError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AuthError, got %T (%v)", err, err)
	}
	if ae.StatusCode != http.StatusUnauthorized || ae.Message != "token expired" {
		t.Fatalf("unexpected auth error: %+v", ae)
	}
	if !IsAuthRequired(err) {
		t.Fatalf("AuthError must satisfy IsAuthRequired")
	}
}

func TestServerErrorBecomesAPIErrorWithMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"stk push unavailable"}`))
	}))
	defer ts.Close()

	client, err := NewClient(WithBaseURL(ts.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := client.Session().SetToken("tok"); err != nil {
		t.Fatalf("set token: %v", err)
	}

	_, err = client.Payments().Push(context.Background(), &payments.PushRequest{
		Phone:   "254712345678",
		Amount:  2500,
		OrderID: "17",
	})
	var ae *APIError
	if !errors.As(err, &ae) {
		t.Fatalf("expected APIError, got %T (%v)", err, err)
	}
	if ae.StatusCode != http.StatusInternalServerError || ae.Message != "stk push unavailable" {
		t.Fatalf("unexpected api error: %+v", ae)
	}
}

func TestConnectionRefusedBecomesNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	client, err := NewClient(WithBaseURL(ts.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.Catalog().Categories(context.Background())
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NetworkError, got %T (%v)", err, err)
	}
}

func TestCheckoutWithoutOrderIDFails(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"created"}`))
	}))
	defer ts.Close()

	client, err := NewClient(WithBaseURL(ts.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := client.Session().SetToken("tok"); err != nil {
		t.Fatalf("set token: %v", err)
	}

	_, err = client.Orders().Checkout(context.Background(), &orders.CheckoutRequest{
		ShippingAddress: "Nairobi, Kenya",
		PaymentMethod:   "mpesa",
	})
	if !errors.Is(err, ErrMissingOrderID) {
		t.Fatalf("expected ErrMissingOrderID, got %v", err)
	}
}

func TestValidatePushRejectsBadPhone(t *testing.T) {
	err := validatePush(&payments.PushRequest{
		Phone:   "12345",
		Amount:  100,
		OrderID: "1",
	})
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T (%v)", err, err)
	}
	if len(ve.Fields) != 1 || ve.Fields[0].Field != "phone" {
		t.Fatalf("unexpected validation fields: %+v", ve.Fields)
	}
}

func TestValidateSignUpCollectsAllFields(t *testing.T) {
	err := validateSignUp(&auth.SignUpRequest{})
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T (%v)", err, err)
	}
	if len(ve.Fields) != 4 {
		t.Fatalf("expected 4 validation fields, got %+v", ve.Fields)
	}
}

func TestDryRunSkipsHTTPCall(t *testing.T) {
	var hitCount int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hitCount, 1)
		_, _ = w.Write([]byte(`{"token":"tok"}`))
	}))
	defer ts.Close()

	client, err := NewClient(WithBaseURL(ts.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	var (
		called    bool
		gotMethod string
		gotURL    string
		gotReq    *auth.SignInRequest
	)

	_, err = client.Auth().SignIn(context.Background(), &auth.SignInRequest{
		Email:    "a@example.com",
		Password: "secret",
	}, DryRun(func(method string, url string, payload any) {
		called = true
		gotMethod = method
		gotURL = url
		if v, ok := payload.(*auth.SignInRequest); ok {
			gotReq = v
		}
	}))
	if err != nil {
		t.Fatalf("sign in dry run: %v", err)
	}

	if !called {
		t.Fatalf("dry run handler was not called")
	}
	if gotMethod != "POST" {
		t.Fatalf("unexpected method: %q", gotMethod)
	}
	if gotURL != ts.URL+consts.SignInPath {
		t.Fatalf("unexpected url: %q", gotURL)
	}
	if gotReq == nil || gotReq.Email != "a@example.com" {
		t.Fatalf("unexpected payload: %+v", gotReq)
	}
	if atomic.LoadInt32(&hitCount) != 0 {
		t.Fatalf("expected no HTTP calls, got %d", hitCount)
	}
}

func TestNewClientWithRecorderRecordsTraffic(t *testing.T) {
	rec := &testRecorder{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"Shoes","slug":"shoes"}]`))
	}))
	defer ts.Close()

	client, err := NewClientWithRecorder(rec, WithBaseURL(ts.URL))
	if err != nil {
		t.Fatalf("new client with recorder: %v", err)
	}

	_, err = client.Catalog().Categories(context.Background())
	if err != nil {
		t.Fatalf("categories: %v", err)
	}

	if rec.requestCount != 1 {
		t.Fatalf("expected 1 recorded request, got %d", rec.requestCount)
	}
	if rec.responseCount != 1 {
		t.Fatalf("expected 1 recorded response, got %d", rec.responseCount)
	}
	if rec.errorCount != 0 {
		t.Fatalf("expected 0 recorded errors, got %d", rec.errorCount)
	}
}

func TestSetLogLevelEnablesDebugLogging(t *testing.T) {
	logger := &testLogger{level: sdklog.LevelInfo}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	client, err := NewClient(
		WithLogger(logger),
		WithBaseURL(ts.URL),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	// Before enabling debug there should be no debug logs.
	_, err = client.Catalog().Categories(context.Background())
	if err != nil {
		t.Fatalf("categories before debug: %v", err)
	}
	if logger.debugCount != 0 {
		t.Fatalf("expected 0 debug logs before enabling debug, got %d", logger.debugCount)
	}

	client.SetLogLevel(sdklog.LevelDebug)

	_, err = client.Catalog().Categories(context.Background())
	if err != nil {
		t.Fatalf("categories after debug: %v", err)
	}
	if logger.debugCount == 0 {
		t.Fatalf("expected debug logs after enabling debug level")
	}
}

func TestUserMessageMapsErrorFamilies(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"auth", &AuthError{Message: "token expired"}, "Please sign in to continue."},
		{"api", &APIError{StatusCode: 500, Message: "boom"}, "boom"},
		{"api no message", &APIError{StatusCode: 500}, "Something went wrong. Please try again."},
		{"validation", &ValidationError{Fields: []FieldError{{Field: "phone", Message: "is required"}}}, "validation error: phone: is required"},
	}
	for _, tc := range cases {
		if got := UserMessage(tc.err); got != tc.want {
			t.Fatalf("%s: UserMessage = %q, want %q", tc.name, got, tc.want)
		}
	}
	if got := UserMessage(&NetworkError{Err: errors.New("dial tcp refused")}); got == "" {
		t.Fatalf("network error must map to a non-empty message")
	}
}

type testRecorder struct {
	requestCount  int
	responseCount int
	errorCount    int
}

func (t *testRecorder) RecordRequest(context.Context, *string, string, []byte, map[string]string) error {
	t.requestCount++
	return nil
}

func (t *testRecorder) RecordResponse(context.Context, *string, string, []byte, map[string]string) error {
	t.responseCount++
	return nil
}

func (t *testRecorder) RecordError(context.Context, *string, string, error, map[string]string) error {
	t.errorCount++
	return nil
}

func (t *testRecorder) RecordMetrics(context.Context, *string, string, map[string]string, map[string]string) error {
	return nil
}

func (t *testRecorder) GetRequest(context.Context, string) ([]byte, error) {
	return nil, nil
}

func (t *testRecorder) GetResponse(context.Context, string) ([]byte, error) {
	return nil, nil
}

func (t *testRecorder) FindByTag(context.Context, string) ([]string, error) {
	return nil, nil
}

func (t *testRecorder) Async() recorder.AsyncRecorder {
	return nil
}

type testLogger struct {
	level      sdklog.Level
	debugCount int
	infoCount  int
	warnCount  int
	errCount   int
}

func (t *testLogger) SetLevel(level sdklog.Level) {
	t.level = level
}

func (t *testLogger) Debugf(string, ...any) {
	if t.level <= sdklog.LevelDebug {
		t.debugCount++
	}
}

func (t *testLogger) Infof(string, ...any) {
	if t.level <= sdklog.LevelInfo {
		t.infoCount++
	}
}

func (t *testLogger) Warnf(string, ...any) {
	if t.level <= sdklog.LevelWarn {
		t.warnCount++
	}
}

func (t *testLogger) Errorf(string, ...any) {
	if t.level <= sdklog.LevelError {
		t.errCount++
	}
}
