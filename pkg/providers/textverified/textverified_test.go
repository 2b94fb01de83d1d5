package textverified

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OlliePage/temp-identity-project/internal/testutil"
	"github.com/OlliePage/temp-identity-project/pkg/types"
)

func newTestProvider(t *testing.T, stub *testutil.Stub) *Provider {
	t.Helper()
	p := New(types.ProviderConfig{"api_key": "secret", "base_url": stub.URL})
	p.SetLogger(testutil.TestLogger(t))
	return p
}

func TestProvider_CreateNumberAndCancel(t *testing.T) {
	stub := testutil.NewStub(t)
	stub.JSON(http.MethodPost, "/Verifications", http.StatusOK, `{"id":"v1","number":"+15550001111"}`)
	stub.JSON(http.MethodDelete, "/Verifications/v1", http.StatusOK, `{}`)
	p := newTestProvider(t, stub)
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	ok, number := p.CreateNumber(ctx, "svc1")
	require.True(t, ok)
	assert.Equal(t, "+15550001111", number)

	req := testutil.RequireRequest(t, stub, http.MethodPost, "/Verifications")
	testutil.AssertHeader(t, req, APIKeyHeader, "secret")
	testutil.AssertHeader(t, req, "Content-Type", "application/json")
	testutil.AssertJSONBody(t, req, `{"id":"svc1"}`)

	identity := p.Identity()
	assert.Equal(t, types.PhoneIdentity{
		PhoneNumber:    "+15550001111",
		VerificationID: "v1",
		Service:        "svc1",
		Provider:       Name,
	}, identity, "fictional numbers are kept verbatim without a region")

	assert.True(t, p.CancelNumber(ctx))
	testutil.AssertHeader(t, testutil.RequireRequest(t, stub, http.MethodDelete, "/Verifications/v1"), APIKeyHeader, "secret")
	assert.False(t, p.Identity().Active())

	assert.False(t, p.CancelNumber(ctx), "nothing left to cancel")
	assert.Equal(t, 1, stub.Count(http.MethodDelete, "/Verifications/v1"))
}

func TestProvider_CreateNumberNormalizes(t *testing.T) {
	stub := testutil.NewStub(t)
	stub.JSON(http.MethodPost, "/Verifications", http.StatusOK, `{"id":42,"number":"4155552671"}`)
	p := newTestProvider(t, stub)

	ok, number := p.CreateNumber(context.Background(), "svc1")
	require.True(t, ok)
	assert.Equal(t, "+14155552671", number)
	assert.Equal(t, "42", p.Identity().VerificationID)
	assert.Equal(t, "US", p.Identity().Region)
}

func TestProvider_CreateNumberFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "no credit", status: http.StatusPaymentRequired, body: `{"message":"Insufficient balance"}`},
		{name: "unknown service", status: http.StatusBadRequest, body: `{"message":"Invalid target"}`},
		{name: "server error", status: http.StatusInternalServerError, body: `oops`},
		{name: "created is not ok", status: http.StatusCreated, body: `{"id":"v1","number":"+14155552671"}`},
		{name: "malformed", status: http.StatusOK, body: `[]`},
		{name: "missing id", status: http.StatusOK, body: `{"number":"+14155552671"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := testutil.NewStub(t)
			stub.JSON(http.MethodPost, "/Verifications", tt.status, tt.body)
			p := newTestProvider(t, stub)

			ok, number := p.CreateNumber(context.Background(), "svc1")
			assert.False(t, ok)
			assert.Empty(t, number)
			assert.Equal(t, types.PhoneIdentity{}, p.Identity())
		})
	}
}

func TestProvider_MissingAPIKeySendsNothing(t *testing.T) {
	stub := testutil.NewStub(t)
	stub.JSON(http.MethodGet, "/Services", http.StatusOK, `[]`)
	p := New(types.ProviderConfig{"base_url": stub.URL})

	assert.Empty(t, p.GetAvailableServices(context.Background()))
	ok, number := p.CreateNumber(context.Background(), "svc1")
	assert.False(t, ok)
	assert.Empty(t, number)

	p.Attach(types.PhoneIdentity{VerificationID: "v1"})
	_, ok = p.CheckSMS(context.Background())
	assert.False(t, ok)
	assert.False(t, p.CancelNumber(context.Background()))

	testutil.AssertNoRequests(t, stub)
}

func TestProvider_GetAvailableServices(t *testing.T) {
	stub := testutil.NewStub(t)
	stub.JSON(http.MethodGet, "/Services", http.StatusOK, `[
		{"id": 1, "name": "Google", "cost": 0.75},
		{"id": "tg", "name": "Telegram", "price": 1.5},
		{"name": "Discord"}
	]`)
	p := newTestProvider(t, stub)

	services := p.GetAvailableServices(context.Background())
	assert.Equal(t, []types.Service{
		{ID: "1", Name: "Google", Price: 0.75},
		{ID: "tg", Name: "Telegram", Price: 1.5},
		{ID: "Discord", Name: "Discord"},
	}, services)
	testutil.AssertHeader(t, testutil.RequireRequest(t, stub, http.MethodGet, "/Services"), APIKeyHeader, "secret")

	stub.JSON(http.MethodGet, "/Services", http.StatusUnauthorized, `{"message":"bad key"}`)
	services = p.GetAvailableServices(context.Background())
	assert.NotNil(t, services)
	assert.Empty(t, services)
}

func TestProvider_CheckSMS(t *testing.T) {
	stub := testutil.NewStub(t)
	calls := 0
	stub.Handle(http.MethodGet, "/Verifications/v1", func(w http.ResponseWriter, r *http.Request) {
		calls++
		body := map[string]interface{}{"id": "v1", "number": "+15550001111", "code": nil}
		if calls >= 3 {
			body["code"] = "482913"
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	})
	p := newTestProvider(t, stub)

	_, ok := p.CheckSMS(context.Background())
	assert.False(t, ok, "no active verification means no request")
	testutil.AssertNoRequests(t, stub)

	p.Attach(types.PhoneIdentity{PhoneNumber: "+15550001111", VerificationID: "v1", Service: "svc1", Provider: Name})

	_, ok = p.CheckSMS(context.Background())
	assert.False(t, ok)
	_, ok = p.CheckSMS(context.Background())
	assert.False(t, ok)
	code, ok := p.CheckSMS(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "482913", code)
}

func TestProvider_CheckSMSFailure(t *testing.T) {
	stub := testutil.NewStub(t)
	stub.JSON(http.MethodGet, "/Verifications/v1", http.StatusNotFound, `{"message":"not found"}`)
	p := newTestProvider(t, stub)
	p.Attach(types.PhoneIdentity{VerificationID: "v1"})

	code, ok := p.CheckSMS(context.Background())
	assert.False(t, ok)
	assert.Empty(t, code)
}

func TestProvider_CancelFailureKeepsState(t *testing.T) {
	stub := testutil.NewStub(t)
	stub.JSON(http.MethodDelete, "/Verifications/v1", http.StatusConflict, `{"message":"already completed"}`)
	p := newTestProvider(t, stub)
	identity := types.PhoneIdentity{PhoneNumber: "+15550001111", VerificationID: "v1", Service: "svc1", Provider: Name}
	p.Attach(identity)

	assert.False(t, p.CancelNumber(context.Background()))
	assert.Equal(t, identity, p.Identity())
}

func TestDescriptor(t *testing.T) {
	p := New(nil)
	assert.Equal(t, Name, p.Descriptor().Name)
	assert.True(t, p.Descriptor().RequiresAPIKey)
	assert.Equal(t, types.ProviderKindSMS, p.Descriptor().Kind)
	assert.Equal(t, DefaultBaseURL, p.Requests().GetBaseURL())

	fields := p.SetupFields()
	require.Len(t, fields, 1)
	assert.Equal(t, "api_key", fields[0].Name)
	assert.Equal(t, types.FieldTypePassword, fields[0].Type)
	assert.True(t, fields[0].Required)

	assert.Equal(t, Name, Factory(nil).Descriptor().Name)
}
