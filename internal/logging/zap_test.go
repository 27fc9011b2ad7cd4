package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ZapJSON_WritesFieldsAndRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, flush, err := New(Options{Backend: BackendZap, Level: "info", Format: FormatJSON, Output: &buf})
	require.NoError(t, err)

	ctx := context.Background()
	log.Debug(ctx, "hidden", "k", "v")
	log.With("req_id", "abc").Info(ctx, "visible", "status", 200)
	require.NoError(t, flush())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"visible"`)
	assert.Contains(t, out, `"req_id":"abc"`)
	assert.Contains(t, out, `"status":200`)
}

func TestNew_SlogText_Default(t *testing.T) {
	var buf bytes.Buffer
	log, flush, err := New(Options{Level: "debug", Output: &buf})
	require.NoError(t, err)
	require.NoError(t, flush())

	log.Debug(context.Background(), "dbg", "a", 1)
	assert.True(t, strings.Contains(buf.String(), "level=DEBUG"))
	assert.True(t, strings.Contains(buf.String(), "a=1"))
}

func TestNew_Errors(t *testing.T) {
	_, _, err := New(Options{Backend: "logrus"})
	require.Error(t, err)

	_, _, err = New(Options{Level: "loud"})
	require.Error(t, err)

	_, _, err = New(Options{Backend: BackendZap, Level: "loud"})
	require.Error(t, err)
}

func TestNop_DoesNotPanic(t *testing.T) {
	l := Nop().With("k", "v")
	l.Info(context.Background(), "x")
	l.Error(context.Background(), "y")
}

func TestZapLogger_RedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	log, flush, err := New(Options{Backend: BackendZap, Level: "debug", Format: FormatJSON, Output: &buf})
	require.NoError(t, err)

	log.Debug(context.Background(), "login", "access_token", "eyJ.secret", "status", 200)
	require.NoError(t, flush())

	out := buf.String()
	assert.NotContains(t, out, "eyJ.secret")
	assert.Contains(t, out, `"access_token":"`+Redacted+`"`)
	assert.Contains(t, out, `"status":200`)
}
