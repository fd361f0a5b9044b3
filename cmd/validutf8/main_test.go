package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"LOG_LEVEL", "VALIDUTF8_SKIP_INVALID", "VALIDUTF8_POLICY",
		"VALIDUTF8_STREAM", "VALIDUTF8_MAX_INPUT", "VALIDUTF8_BUFFER_SIZE",
	} {
		t.Setenv(k, "")
	}
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"validutf8"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeInput(t *testing.T, data string) (in, out string) {
	t.Helper()
	dir := t.TempDir()
	in = filepath.Join(dir, "in.bin")
	out = filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(in, []byte(data), 0o600))
	return in, out
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestTranscodeFile(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		in   string
		want string
	}{
		{name: "replace by default", in: "\xC2\x31", want: "\xEF\xBF\xBD1"},
		{name: "skip short", args: []string{"-s"}, in: "\xC2\x31", want: "1"},
		{name: "skip long", args: []string{"--skipInvalid"}, in: "\xF0\x90\xC0ok", want: "ok"},
		{name: "stream", args: []string{"--stream"}, in: "\xF0\x8F", want: "\xEF\xBF\xBD\xEF\xBF\xBD"},
		{name: "stream skip", args: []string{"--stream", "-s"}, in: "a\xE1\x80", want: "a"},
		{name: "verbose", args: []string{"-v"}, in: "\xFF\xFE", want: "\xEF\xBF\xBD\xEF\xBF\xBD"},
		{name: "empty", in: "", want: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			in, out := writeInput(t, tc.in)

			code, _, stderr := runCLI(t, append(tc.args, in, out)...)
			require.Equal(t, exitOK, code, stderr)
			assert.Equal(t, tc.want, readOutput(t, out))
			assert.Contains(t, stderr, "wrote valid utf-8")
		})
	}
}

func TestVerboseLogsGroups(t *testing.T) {
	clearEnv(t)
	in, out := writeInput(t, "ab\xF0\x90\xC0")

	code, _, stderr := runCLI(t, "-v", in, out)
	require.Equal(t, exitOK, code)
	assert.Contains(t, stderr, "offset=2 len=2 bytes=f090")
	assert.Contains(t, stderr, "offset=4 len=1 bytes=c0")
	assert.Contains(t, stderr, "groups=2")
}

func TestPolicyFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("VALIDUTF8_SKIP_INVALID", "true")
	in, out := writeInput(t, "x\xFFy")

	code, _, _ := runCLI(t, in, out)
	require.Equal(t, exitOK, code)
	assert.Equal(t, "xy", readOutput(t, out))
}

func TestMissingInput(t *testing.T) {
	for _, args := range [][]string{nil, {"--stream"}} {
		clearEnv(t)
		dir := t.TempDir()
		out := filepath.Join(dir, "out.txt")

		code, _, stderr := runCLI(t, append(args, filepath.Join(dir, "nope"), out)...)
		assert.Equal(t, exitFail, code)
		assert.Contains(t, stderr, "input file is missing")

		_, err := os.Stat(out)
		assert.True(t, os.IsNotExist(err), "output must not be created")
	}
}

func TestInputTooLarge(t *testing.T) {
	clearEnv(t)
	t.Setenv("VALIDUTF8_MAX_INPUT", "4")
	in, out := writeInput(t, "hello")

	code, _, stderr := runCLI(t, in, out)
	assert.Equal(t, exitFail, code)
	assert.Contains(t, stderr, "input file is too large")
}

func TestBadConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("VALIDUTF8_POLICY", "ignore")
	in, out := writeInput(t, "x")

	code, _, stderr := runCLI(t, in, out)
	assert.Equal(t, exitFail, code)
	assert.Contains(t, stderr, "config error")
}

func TestSelfTest(t *testing.T) {
	for _, args := range [][]string{{"-t"}, {"--test"}, {"-s", "--test", "only-one-positional"}} {
		clearEnv(t)
		code, stdout, _ := runCLI(t, args...)
		assert.Equal(t, exitOK, code, "%v", args)
		assert.Contains(t, stdout, " 0 failed")
	}
}

func TestSelfTestStream(t *testing.T) {
	clearEnv(t)
	t.Setenv("VALIDUTF8_STREAM", "true")
	t.Setenv("VALIDUTF8_BUFFER_SIZE", "1")

	code, stdout, _ := runCLI(t, "-t")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, " 0 failed")
}

func TestUsage(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		code int
	}{
		{name: "no args", code: exitUsage},
		{name: "one arg", args: []string{"in.bin"}, code: exitUsage},
		{name: "three args", args: []string{"a", "b", "c"}, code: exitUsage},
		{name: "unknown flag", args: []string{"--bogus", "a", "b"}, code: exitUsage},
		{name: "help", args: []string{"-h"}, code: exitOK},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			code, _, stderr := runCLI(t, tc.args...)
			assert.Equal(t, tc.code, code)
			assert.Contains(t, stderr, "Usage:")
		})
	}
}

func TestVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "--version")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "validutf8 - version dev\n", stdout)
}
