package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetMultiline_DoubleEnter(t *testing.T) {
	var out bytes.Buffer
	got, err := GetMultiline(rdr("a\nb\n\n\n"), "Enter text", &out)
	if err != nil {
		t.Fatal(err)
	}
	want := "a\nb"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestGetConfirm(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		def      bool
		expected bool
	}{
		{name: "yes", input: "y\n", def: false, expected: true},
		{name: "german yes", input: "ja\n", def: false, expected: true},
		{name: "no", input: "n\n", def: true, expected: false},
		{name: "empty keeps default true", input: "\n", def: true, expected: true},
		{name: "empty keeps default false", input: "\n", def: false, expected: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetConfirm(rdr(tc.input), "Sure?", tc.def, &out)
			require.NoError(t, err)
			require.Equal(t, tc.expected, got)
		})
	}
}

func TestGetOptionalInt(t *testing.T) {
	var out bytes.Buffer

	v, err := GetOptionalInt(rdr("123456\n"), "km", &out)
	require.NoError(t, err)
	require.NotNil(t, v)
	require.Equal(t, int64(123456), *v)

	v, err = GetOptionalInt(rdr("\n"), "km", &out)
	require.NoError(t, err)
	require.Nil(t, v)

	_, err = GetOptionalInt(rdr("abc\n"), "km", &out)
	require.Error(t, err)
}

func TestGetFloat(t *testing.T) {
	var out bytes.Buffer

	v, err := GetFloat(rdr("1.5\n"), "qty", 1, &out)
	require.NoError(t, err)
	require.Equal(t, 1.5, v)

	// Decimal comma is accepted.
	v, err = GetFloat(rdr("45,50\n"), "price", 0, &out)
	require.NoError(t, err)
	require.Equal(t, 45.5, v)

	v, err = GetFloat(rdr("\n"), "qty", 1, &out)
	require.NoError(t, err)
	require.Equal(t, 1.0, v)
}

func TestGetOptionalTime(t *testing.T) {
	var out bytes.Buffer

	v, err := GetOptionalTime(rdr("2026-03-01 09:30\n"), "Annahme", &out)
	require.NoError(t, err)
	require.NotNil(t, v)
	want := time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local).UTC()
	require.True(t, v.Equal(want))

	v, err = GetOptionalTime(rdr("\n"), "Annahme", &out)
	require.NoError(t, err)
	require.Nil(t, v)

	_, err = GetOptionalTime(rdr("tomorrow\n"), "Annahme", &out)
	require.Error(t, err)
}
