package testutil

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OlliePage/temp-identity-project/pkg/types"
)

func TestFakeClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewFakeClock(start)

	var hooked []time.Time
	clock.OnSleep = func(now time.Time) { hooked = append(hooked, now) }

	assert.True(t, clock.Sleep(context.Background(), time.Second))
	clock.Advance(500 * time.Millisecond)
	assert.True(t, clock.Sleep(context.Background(), 2*time.Second))

	assert.Equal(t, 3500*time.Millisecond, clock.Elapsed(start))
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, clock.Sleeps())
	assert.Equal(t, []time.Time{start.Add(time.Second), start.Add(3500 * time.Millisecond)}, hooked)
}

func TestFakeClock_CancelledContext(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, clock.Sleep(ctx, time.Second))
	assert.Empty(t, clock.Sleeps())
}

func TestStub(t *testing.T) {
	stub := NewStub(t)
	stub.JSON(http.MethodPost, "/things", http.StatusCreated, `{"id":"1"}`)

	resp, err := http.Post(stub.URL+"/things", "application/json", strings.NewReader(`{"a":1}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	AssertStatusCode(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(stub.URL + "/missing")
	require.NoError(t, err)
	_ = resp.Body.Close()
	AssertStatusCode(t, http.StatusNotFound, resp.StatusCode)

	assert.Equal(t, 1, stub.Count(http.MethodPost, "/things"))
	req := RequireRequest(t, stub, http.MethodPost, "/things")
	AssertHeader(t, req, "Content-Type", "application/json")
	AssertJSONBody(t, req, `{"a": 1}`)
	assert.Len(t, stub.Requests(), 2)
}

func TestContextHelpers(t *testing.T) {
	ctx, cancel := TestContext(t)
	defer cancel()
	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.True(t, deadline.After(time.Now()))

	short, shortCancel := ShortTestContext(t)
	defer shortCancel()
	_, ok = short.Deadline()
	assert.True(t, ok)

	cctx, cancelFunc := TestContextWithCancel(t)
	cancelFunc()
	assert.Error(t, cctx.Err())
}

func TestObservedLogger(t *testing.T) {
	logger, logs := ObservedLogger()
	logger.Debug("hello")
	assert.Equal(t, 1, logs.FilterMessage("hello").Len())
}

func TestConfigurableEmailProvider_InboxSequence(t *testing.T) {
	p := NewConfigurableEmailProvider("mock")
	first := []types.Message{{ID: "a"}}
	second := []types.Message{{ID: "b"}, {ID: "a"}}
	p.SetInboxSequence(first, second)

	ctx := context.Background()
	assert.Len(t, p.CheckMessages(ctx), 1)
	assert.Len(t, p.CheckMessages(ctx), 2)
	assert.Len(t, p.CheckMessages(ctx), 2)
	assert.Equal(t, 3, p.GetCheckCallCount())
}

func TestConfigurableSMSProvider_Lifecycle(t *testing.T) {
	p := NewConfigurableSMSProvider("mock", true)
	ctx := context.Background()

	assert.False(t, p.CancelNumber(ctx))

	ok, number := p.CreateNumber(ctx, "svc-1")
	require.True(t, ok)
	assert.Equal(t, number, p.Identity().PhoneNumber)

	p.SetCheckSequence(SMSCheck{}, SMSCheck{Code: "123456", OK: true})
	_, ok = p.CheckSMS(ctx)
	assert.False(t, ok)
	code, ok := p.CheckSMS(ctx)
	assert.True(t, ok)
	assert.Equal(t, "123456", code)

	assert.True(t, p.CancelNumber(ctx))
	assert.False(t, p.Identity().Active())
}
