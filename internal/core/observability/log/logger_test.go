package log

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(level Level) (*Logger, *observer.ObservedLogs) {
	atomicLevel := zap.NewAtomicLevelAt(toZapLevel(level))
	core, logs := observer.New(atomicLevel)
	return &Logger{zapLogger: zap.New(core), level: atomicLevel}, logs
}

func TestLoggerFieldsReachBackend(t *testing.T) {
	l, logs := newObserved(LevelDebug)

	l.Debug("phase changed",
		String("weapon", "pistol"),
		Int("ammo", 7),
		Float64("now", 1.4),
		Bool("ready", true),
		Duration("deadline", 1350*time.Millisecond),
		Error(errors.New("boom")),
	)

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	require.Equal(t, "pistol", ctx["weapon"])
	require.EqualValues(t, 7, ctx["ammo"])
	require.Equal(t, true, ctx["ready"])
	require.Equal(t, "boom", ctx["error"])
}

func TestLoggerSetLevel(t *testing.T) {
	l, logs := newObserved(LevelInfo)

	l.Log(LevelDebug, "hidden")
	require.Equal(t, 0, logs.Len())

	l.SetLevel(LevelDebug)
	require.Equal(t, LevelDebug, l.GetLevel())
	l.Log(LevelDebug, "shown")
	require.Equal(t, 1, logs.Len())

	l.Log(LevelSilent, "never")
	require.Equal(t, 1, logs.Len())

	l.SetLevel(LevelSilent)
	require.Equal(t, LevelSilent, l.GetLevel())
	l.Error("muted")
	require.Equal(t, 1, logs.Len())
}

func TestLoggerWithKeepsContext(t *testing.T) {
	l, logs := newObserved(LevelInfo)

	child := l.With(String("owner", "player-1"))
	child.Info("equipped")

	require.Equal(t, 1, logs.Len())
	require.Equal(t, zapcore.InfoLevel, logs.All()[0].Level)
	require.Equal(t, "player-1", logs.All()[0].ContextMap()["owner"])
}

func TestProvideFallsBackToNop(t *testing.T) {
	require.NotNil(t, Provide())
}

func TestParseLevel(t *testing.T) {
	for _, l := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError, LevelSilent} {
		got, err := ParseLevel(l.String())
		require.NoError(t, err)
		require.Equal(t, l, got)
	}

	got, err := ParseLevel(" WARNING ")
	require.NoError(t, err)
	require.Equal(t, LevelWarn, got)

	_, err = ParseLevel("loud")
	require.Error(t, err)

	var l Level
	require.NoError(t, l.UnmarshalText([]byte("debug")))
	require.Equal(t, LevelDebug, l)
	require.Error(t, l.UnmarshalText([]byte("loud")))
}
