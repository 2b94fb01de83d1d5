package tempidentity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OlliePage/temp-identity-project/pkg/config"
	"github.com/OlliePage/temp-identity-project/pkg/types"
)

func TestService_CreateEmail(t *testing.T) {
	f := newFixture(t)

	identity, ok := f.service.CreateEmail(context.Background())

	require.True(t, ok)
	assert.Equal(t, "user@mock-mail.test", identity.Address)
	assert.Equal(t, "secret", identity.Password)
	assert.Equal(t, mockMail, identity.Provider)
	assert.NotNil(t, f.email.Logger(), "registry injects the logger")

	records := f.records(t, types.ProviderKindEmail)
	require.Len(t, records, 1)
	assert.Equal(t, identity.Address, records[0].Address)
	assert.Equal(t, mockMail, records[0].Provider)
	assert.Equal(t, f.clock.Now(), records[0].Timestamp)
}

func TestService_CreateEmail_Failure(t *testing.T) {
	f := newFixture(t)
	f.email.SetCreateResult(false, "", "")

	identity, ok := f.service.CreateEmail(context.Background())

	assert.False(t, ok)
	assert.True(t, identity.IsZero())
	assert.Empty(t, f.records(t, types.ProviderKindEmail))
}

func TestService_CreateEmail_HistoryDisabled(t *testing.T) {
	f := newFixture(t, func(c *config.Config) { c.SaveHistory = false })

	_, ok := f.service.CreateEmail(context.Background())

	require.True(t, ok)
	assert.Empty(t, f.records(t, types.ProviderKindEmail))
}

func TestService_CreateEmail_UnknownProvider(t *testing.T) {
	f := newFixture(t, func(c *config.Config) { c.PreferredEmailService = "nope" })

	_, ok := f.service.CreateEmail(context.Background())

	assert.False(t, ok)
	assert.Equal(t, 0, f.email.GetCreateCallCount())
}

func TestService_CheckEmailMessages_NoWait(t *testing.T) {
	f := newFixture(t)
	f.email.SetInboxSequence([]types.Message{{ID: "b"}, {ID: "a"}})
	identity := types.EmailIdentity{Address: "x@y.test", Password: "pw", Provider: mockMail}

	msgs := f.service.CheckEmailMessages(context.Background(), identity, false, 0)

	assert.Len(t, msgs, 2)
	assert.Equal(t, identity, f.email.Attached())
	assert.Equal(t, 1, f.email.GetCheckCallCount())
	assert.Empty(t, f.clock.Sleeps())
}

func TestService_CheckEmailMessages_WaitReturnsNewMessages(t *testing.T) {
	f := newFixture(t)
	f.email.SetInboxSequence(
		[]types.Message{{ID: "a"}},
		[]types.Message{{ID: "a"}},
		[]types.Message{{ID: "c"}, {ID: "b"}, {ID: "a"}},
	)
	identity := types.EmailIdentity{Address: "x@y.test", Provider: mockMail}

	msgs := f.service.CheckEmailMessages(context.Background(), identity, true, time.Minute)

	require.Len(t, msgs, 2)
	assert.Equal(t, "c", msgs[0].ID)
	assert.Equal(t, "b", msgs[1].ID)
	assert.Equal(t, []time.Duration{DefaultEmailInterval}, f.clock.Sleeps())
}

func TestService_CheckEmailMessages_WaitTimesOut(t *testing.T) {
	f := newFixture(t)
	f.email.SetInboxSequence([]types.Message{{ID: "a"}})
	start := f.clock.Now()

	msgs := f.service.CheckEmailMessages(context.Background(), types.EmailIdentity{Provider: mockMail}, true, 20*time.Second)

	assert.NotNil(t, msgs)
	assert.Empty(t, msgs)
	assert.GreaterOrEqual(t, f.clock.Elapsed(start), 20*time.Second)
	for _, d := range f.clock.Sleeps() {
		assert.Equal(t, DefaultEmailInterval, d)
	}
}

func TestService_CheckEmailMessages_DefaultWaitTime(t *testing.T) {
	f := newFixture(t, func(c *config.Config) { c.DefaultWaitTime = 10 })
	start := f.clock.Now()

	f.service.CheckEmailMessages(context.Background(), types.EmailIdentity{Provider: mockMail}, true, 0)

	elapsed := f.clock.Elapsed(start)
	assert.GreaterOrEqual(t, elapsed, 10*time.Second)
	assert.Less(t, elapsed, 10*time.Second+DefaultEmailInterval+time.Nanosecond)
}

func TestService_CheckEmailMessages_FallsBackToPreferredProvider(t *testing.T) {
	f := newFixture(t)
	f.email.SetInboxSequence([]types.Message{{ID: "a"}})

	msgs := f.service.CheckEmailMessages(context.Background(), types.EmailIdentity{Address: "x@y.test"}, false, 0)

	assert.Len(t, msgs, 1)
}

func TestService_GetEmailMessageContent(t *testing.T) {
	f := newFixture(t)
	f.email.SetMessageContent(types.Message{ID: "m1", Text: "hello"})
	identity := types.EmailIdentity{Address: "x@y.test", Provider: mockMail}

	msg, ok := f.service.GetEmailMessageContent(context.Background(), identity, "m1")
	require.True(t, ok)
	assert.Equal(t, "hello", msg.Text)

	_, ok = f.service.GetEmailMessageContent(context.Background(), identity, "missing")
	assert.False(t, ok)
	assert.Equal(t, 2, f.email.GetContentCallCount())
}
