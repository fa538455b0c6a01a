package ticketx_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/account/pkg/ticketx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newCodec(t *testing.T, purpose string, opts ...ticketx.Option) *ticketx.JWECodec {
	t.Helper()
	c, err := ticketx.NewJWECodec(testSecret, purpose, 20*time.Minute, opts...)
	require.NoError(t, err)
	return c
}

func aliceTicket() *ticketx.Ticket {
	id := ticketx.NewIdentity(ticketx.AuthTypeBearer,
		ticketx.NewClaim(ticketx.ClaimTypeNameIdentifier, "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV"),
		ticketx.NewClaim(ticketx.ClaimTypeName, "alice"),
	)
	return ticketx.NewTicket(id, map[string]string{ticketx.PropertyUserName: "alice"})
}

func TestNewJWECodec(t *testing.T) {
	t.Run("rejects short secrets", func(t *testing.T) {
		_, err := ticketx.NewJWECodec([]byte("short"), ticketx.PurposeBearer, time.Minute)
		require.ErrorIs(t, err, ticketx.ErrWeakSecret)
	})

	t.Run("rejects non-positive ttl", func(t *testing.T) {
		_, err := ticketx.NewJWECodec(testSecret, ticketx.PurposeBearer, 0)
		require.Error(t, err)
	})

	t.Run("rejects empty purpose", func(t *testing.T) {
		_, err := ticketx.NewJWECodec(testSecret, "", time.Minute)
		require.Error(t, err)
	})

	t.Run("keeps purpose and ttl", func(t *testing.T) {
		c, err := ticketx.NewJWECodec(testSecret, ticketx.PurposeCorrelation, 5*time.Minute)
		require.NoError(t, err)
		require.Equal(t, ticketx.PurposeCorrelation, c.Purpose())
		require.Equal(t, 5*time.Minute, c.TTL())
	})
}

func TestTicketExpired(t *testing.T) {
	now := time.Now()

	tk := aliceTicket()
	require.False(t, tk.Expired(now), "no expiry set")

	tk.ExpiresAt = now.Add(time.Minute)
	require.False(t, tk.Expired(now))
	require.True(t, tk.Expired(now.Add(time.Minute)))
	require.True(t, tk.Expired(now.Add(time.Hour)))
}

func TestProtectUnprotectRoundTrip(t *testing.T) {
	c := newCodec(t, ticketx.PurposeBearer)

	in := aliceTicket()
	token, err := c.Protect(in)
	require.NoError(t, err)
	require.Len(t, strings.Split(token, "."), 5)
	require.NotContains(t, token, "alice", "ticket contents must not be readable")

	out := c.Unprotect(token)
	require.NotNil(t, out)
	require.Equal(t, ticketx.AuthTypeBearer, out.Identity.AuthenticationType)
	require.Equal(t, in.Identity.Claims, out.Identity.Claims)
	require.Equal(t, "alice", out.Properties[ticketx.PropertyUserName])
	require.WithinDuration(t, in.ExpiresAt, out.ExpiresAt, time.Second)
	require.WithinDuration(t, in.IssuedAt.Add(20*time.Minute), out.ExpiresAt, time.Second)
}

func TestProtectRequiresIdentity(t *testing.T) {
	c := newCodec(t, ticketx.PurposeBearer)

	_, err := c.Protect(nil)
	require.ErrorIs(t, err, ticketx.ErrNoIdentity)

	_, err = c.Protect(&ticketx.Ticket{})
	require.ErrorIs(t, err, ticketx.ErrNoIdentity)
}

func TestUnprotectRejectsTamperedBytes(t *testing.T) {
	c := newCodec(t, ticketx.PurposeBearer)
	token, err := c.Protect(aliceTicket())
	require.NoError(t, err)

	for i := range len(token) {
		b := []byte(token)
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
		require.Nil(t, c.Unprotect(string(b)), "tampered byte %d accepted", i)
	}
}

func TestUnprotectRejectsMalformedInput(t *testing.T) {
	c := newCodec(t, ticketx.PurposeBearer)
	token, err := c.Protect(aliceTicket())
	require.NoError(t, err)

	inputs := map[string]string{
		"empty":         "",
		"garbage":       "not a token",
		"too few parts": "a.b.c",
		"truncated":     token[:len(token)-4],
		"appended":      token + "A",
		"extra segment": token + ".AAAA",
		"padding":       token + "==",
		"plain jwt":     "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.c2ln",
		"whitespace":    " " + token,
		"non ascii":     token[:10] + "é" + token[11:],
		"encrypted key": strings.Replace(token, "..", ".AAAA.", 1),
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			require.NotPanics(t, func() {
				require.Nil(t, c.Unprotect(in))
			})
		})
	}
}

func TestUnprotectRejectsExpiredTickets(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	c := newCodec(t, ticketx.PurposeBearer, ticketx.WithClock(clock))

	token, err := c.Protect(aliceTicket())
	require.NoError(t, err)
	require.NotNil(t, c.Unprotect(token))

	now = now.Add(21 * time.Minute)
	require.Nil(t, c.Unprotect(token))
}

func TestUnprotectHonoursTicketExpiry(t *testing.T) {
	now := time.Now()
	c := newCodec(t, ticketx.PurposeBearer, ticketx.WithClock(func() time.Time { return now }))

	tk := aliceTicket()
	tk.IssuedAt = now
	tk.ExpiresAt = now.Add(2 * time.Minute)
	token, err := c.Protect(tk)
	require.NoError(t, err)

	out := c.Unprotect(token)
	require.NotNil(t, out)
	require.WithinDuration(t, now.Add(2*time.Minute), out.ExpiresAt, time.Second)
}

func TestPurposesAreIsolated(t *testing.T) {
	bearer := newCodec(t, ticketx.PurposeBearer)
	cookie := newCodec(t, ticketx.PurposeExternalCookie)

	token, err := bearer.Protect(aliceTicket())
	require.NoError(t, err)

	require.Nil(t, cookie.Unprotect(token))
	require.NotNil(t, bearer.Unprotect(token))
}

func TestDifferentSecretsAreIsolated(t *testing.T) {
	a := newCodec(t, ticketx.PurposeBearer)
	b, err := ticketx.NewJWECodec([]byte("another-secret-of-enough-length"), ticketx.PurposeBearer, time.Minute)
	require.NoError(t, err)

	token, err := a.Protect(aliceTicket())
	require.NoError(t, err)
	require.Nil(t, b.Unprotect(token))
}

func TestCodecConcurrentUse(t *testing.T) {
	c := newCodec(t, ticketx.PurposeBearer)

	var wg sync.WaitGroup
	failures := make(chan string, 32)
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := c.Protect(aliceTicket())
			if err != nil || c.Unprotect(token) == nil {
				failures <- "round trip failed"
			}
		}()
	}
	wg.Wait()
	close(failures)
	require.Empty(t, failures)
}
