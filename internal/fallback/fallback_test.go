package fallback

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/dmitrijs2005/gophcloud/internal/logging"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogger() (logging.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil))), &buf
}

func value(v string) Func[string] {
	return func(context.Context) (string, error) { return v, nil }
}

func failing(err error) Func[string] {
	return func(context.Context) (string, error) { return "", err }
}

func TestCall_RemoteSuccess(t *testing.T) {
	log, buf := newLogger()
	localCalled := false

	v, tier, err := Call(context.Background(), Policy{RemoteEnabled: true, Logger: log}, "t.remote_ok",
		value("remote"),
		func(context.Context) (string, error) { localCalled = true; return "local", nil })

	require.NoError(t, err)
	assert.Equal(t, "remote", v)
	assert.Equal(t, TierRemote, tier)
	assert.False(t, localCalled)
	assert.Empty(t, buf.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(backendOps.WithLabelValues("remote", "t.remote_ok", outcomeOK)))
}

func TestCall_RemoteFailureFallsBackAndWarns(t *testing.T) {
	log, buf := newLogger()

	v, tier, err := Call(context.Background(), Policy{RemoteEnabled: true, Logger: log}, "t.remote_fail",
		failing(errors.New("connection refused")), value("local"))

	require.NoError(t, err)
	assert.Equal(t, "local", v)
	assert.Equal(t, TierLocal, tier)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "op=t.remote_fail")
	assert.Contains(t, buf.String(), "connection refused")
	assert.Equal(t, 1.0, testutil.ToFloat64(fallbacks.WithLabelValues("t.remote_fail")))
	assert.Equal(t, 1.0, testutil.ToFloat64(backendOps.WithLabelValues("remote", "t.remote_fail", outcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(backendOps.WithLabelValues("local", "t.remote_fail", outcomeOK)))
}

func TestCall_RemoteMissIsSilent(t *testing.T) {
	log, buf := newLogger()

	v, tier, err := Call(context.Background(), Policy{RemoteEnabled: true, Logger: log}, "t.remote_miss",
		failing(ErrMiss), value("local"))

	require.NoError(t, err)
	assert.Equal(t, "local", v)
	assert.Equal(t, TierLocal, tier)
	assert.Empty(t, buf.String())
	assert.Equal(t, 0.0, testutil.ToFloat64(fallbacks.WithLabelValues("t.remote_miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(backendOps.WithLabelValues("remote", "t.remote_miss", outcomeMiss)))
}

func TestCall_RemoteDisabledSkipsRemote(t *testing.T) {
	remoteCalled := false
	remote := func(context.Context) (string, error) { remoteCalled = true; return "remote", nil }

	v, tier, err := Call(context.Background(), Policy{}, "t.disabled", remote, value("local"))

	require.NoError(t, err)
	assert.Equal(t, "local", v)
	assert.Equal(t, TierLocal, tier)
	assert.False(t, remoteCalled)
}

func TestCall_NilRemoteUsesLocal(t *testing.T) {
	v, tier, err := Call(context.Background(), Policy{RemoteEnabled: true}, "t.nil_remote", nil, value("local"))

	require.NoError(t, err)
	assert.Equal(t, "local", v)
	assert.Equal(t, TierLocal, tier)
}

func TestCall_LocalErrorIsReturned(t *testing.T) {
	boom := errors.New("disk full")

	_, tier, err := Call(context.Background(), Policy{RemoteEnabled: true}, "t.both_fail",
		failing(errors.New("offline")), failing(boom))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, TierLocal, tier)
	assert.Equal(t, 1.0, testutil.ToFloat64(backendOps.WithLabelValues("local", "t.both_fail", outcomeError)))
}

func TestDo(t *testing.T) {
	var order []string

	tier, err := Do(context.Background(), Policy{RemoteEnabled: true}, "t.do",
		func(context.Context) error { order = append(order, "remote"); return errors.New("down") },
		func(context.Context) error { order = append(order, "local"); return nil })

	require.NoError(t, err)
	assert.Equal(t, TierLocal, tier)
	assert.Equal(t, []string{"remote", "local"}, order)

	tier, err = Do(context.Background(), Policy{RemoteEnabled: true}, "t.do_nil", nil,
		func(context.Context) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, TierLocal, tier)
}
