package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug": zerolog.DebugLevel,
		"INFO":  zerolog.InfoLevel,
		"warn":  zerolog.WarnLevel,
		"err":   zerolog.ErrorLevel,
		"off":   zerolog.Disabled,
		"bogus": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q)=%s want %s", in, got, want)
		}
	}
}

func TestNewLoggerFiltersAndHasNoColorOffTTY(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger("warn", &buf)
	log.Info().Msg("hidden")
	log.Warn().Str("plugin", "Foo").Msg("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") || !strings.Contains(out, "plugin=Foo") {
		t.Fatalf("log output %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("unexpected color codes in %q", out)
	}
}

func TestEnvStr(t *testing.T) {
	key := "PLUGINBUILDER_TEST_ENV_STR"
	os.Unsetenv(key)
	if got := envStr(key, "def"); got != "def" {
		t.Fatalf("envStr default: got %q", got)
	}
	t.Setenv(key, "val")
	if got := envStr(key, "def"); got != "val" {
		t.Fatalf("envStr set: got %q", got)
	}
}

func TestEnvBool(t *testing.T) {
	key := "PLUGINBUILDER_TEST_ENV_BOOL"
	os.Unsetenv(key)
	if !envBool(key, true) || envBool(key, false) {
		t.Fatalf("envBool defaults")
	}
	for _, v := range []string{"1", "true", "yes"} {
		t.Setenv(key, v)
		if !envBool(key, false) {
			t.Fatalf("envBool %s -> false", v)
		}
	}
	t.Setenv(key, "no")
	if envBool(key, true) {
		t.Fatalf("envBool no -> true")
	}
}
