package tempidentity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OlliePage/temp-identity-project/internal/testutil"
	"github.com/OlliePage/temp-identity-project/pkg/config"
	"github.com/OlliePage/temp-identity-project/pkg/types"
)

func withoutAPIKey(c *config.Config) {
	c.Providers[mockSMS] = map[string]string{}
}

func TestService_GetSMSServices(t *testing.T) {
	f := newFixture(t)

	services := f.service.GetSMSServices(context.Background())

	require.Len(t, services, 1)
	assert.Equal(t, "svc-1", services[0].ID)
	assert.Equal(t, "k", f.sms.Config().APIKey())
}

func TestService_GetSMSServices_MissingAPIKey(t *testing.T) {
	f := newFixture(t, withoutAPIKey)

	services := f.service.GetSMSServices(context.Background())

	assert.NotNil(t, services)
	assert.Empty(t, services)
	assert.Equal(t, 0, f.sms.GetServicesCallCount())
}

func TestService_CreateNumber(t *testing.T) {
	f := newFixture(t)

	identity, ok := f.service.CreateNumber(context.Background(), "svc-1")

	require.True(t, ok)
	assert.Equal(t, "+14155552671", identity.PhoneNumber)
	assert.Equal(t, "svc-1", identity.Service)
	assert.Equal(t, mockSMS, identity.Provider)
	assert.True(t, identity.Active())

	records := f.records(t, types.ProviderKindSMS)
	require.Len(t, records, 1)
	assert.Equal(t, identity.PhoneNumber, records[0].PhoneNumber)
	assert.Equal(t, "svc-1", records[0].Service)
}

func TestService_CreateNumber_MissingAPIKey(t *testing.T) {
	f := newFixture(t, withoutAPIKey)

	_, ok := f.service.CreateNumber(context.Background(), "svc-1")

	assert.False(t, ok)
	assert.Equal(t, 0, f.sms.GetCreateCallCount())
	assert.Empty(t, f.records(t, types.ProviderKindSMS))
}

func TestService_CreateNumber_Failure(t *testing.T) {
	f := newFixture(t)
	f.sms.SetCreateResult(false, "")

	_, ok := f.service.CreateNumber(context.Background(), "svc-1")

	assert.False(t, ok)
	assert.Empty(t, f.records(t, types.ProviderKindSMS))
}

func activeIdentity() types.PhoneIdentity {
	return types.PhoneIdentity{
		PhoneNumber:    "+14155552671",
		VerificationID: "v-9",
		Service:        "svc-1",
		Provider:       mockSMS,
	}
}

func TestService_WaitForSMSCode_Received(t *testing.T) {
	f := newFixture(t)
	f.sms.SetCheckSequence(testutil.SMSCheck{}, testutil.SMSCheck{}, testutil.SMSCheck{Code: "123456", OK: true})

	code, ok := f.service.WaitForSMSCode(context.Background(), activeIdentity(), time.Minute)

	require.True(t, ok)
	assert.Equal(t, "123456", code)
	assert.Equal(t, 3, f.sms.GetCheckCallCount())
	assert.Equal(t, []time.Duration{DefaultSMSInterval, DefaultSMSInterval}, f.clock.Sleeps())
	assert.Equal(t, 1, f.sms.GetCancelCallCount())
	assert.False(t, f.sms.Identity().Active())
}

func TestService_WaitForSMSCode_TimeoutStillCancels(t *testing.T) {
	f := newFixture(t)
	start := f.clock.Now()

	code, ok := f.service.WaitForSMSCode(context.Background(), activeIdentity(), 30*time.Second)

	assert.False(t, ok)
	assert.Empty(t, code)
	assert.GreaterOrEqual(t, f.clock.Elapsed(start), 30*time.Second)
	assert.Equal(t, 1, f.sms.GetCancelCallCount())
}

func TestService_WaitForSMSCode_DefaultsToSMSWaitTime(t *testing.T) {
	f := newFixture(t, func(c *config.Config) {
		c.DefaultWaitTime = 5
		c.SMSWaitTime = 40
	})
	start := f.clock.Now()

	_, ok := f.service.WaitForSMSCode(context.Background(), activeIdentity(), 0)

	assert.False(t, ok)
	elapsed := f.clock.Elapsed(start)
	assert.GreaterOrEqual(t, elapsed, 40*time.Second)
	assert.Less(t, elapsed, 40*time.Second+DefaultSMSInterval+time.Nanosecond)
	assert.Equal(t, 1, f.sms.GetCancelCallCount())
}

func TestService_WaitForSMSCode_CancelledContextStillCancels(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := f.service.WaitForSMSCode(ctx, activeIdentity(), time.Minute)

	assert.False(t, ok)
	assert.Equal(t, 1, f.sms.GetCancelCallCount())
	assert.False(t, f.sms.Identity().Active())
}

func TestService_WaitForSMSCode_EmptyCodeKeepsWaiting(t *testing.T) {
	f := newFixture(t)
	f.sms.SetCheckSequence(testutil.SMSCheck{Code: "", OK: true}, testutil.SMSCheck{Code: "42", OK: true})

	code, ok := f.service.WaitForSMSCode(context.Background(), activeIdentity(), time.Minute)

	require.True(t, ok)
	assert.Equal(t, "42", code)
}

func TestService_CancelNumber(t *testing.T) {
	f := newFixture(t)

	assert.True(t, f.service.CancelNumber(context.Background(), activeIdentity()))
	assert.False(t, f.service.CancelNumber(context.Background(), types.PhoneIdentity{Provider: mockSMS}))
}

func TestService_CancelNumber_UnknownProvider(t *testing.T) {
	f := newFixture(t)
	identity := activeIdentity()
	identity.Provider = "gone"

	assert.False(t, f.service.CancelNumber(context.Background(), identity))
	assert.Equal(t, 0, f.sms.GetCancelCallCount())
}
