package application

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var publisherOpts = ParserOptions{Description: "Hello publisher.", Role: RolePublisher}

func parse(t *testing.T, opts ParserOptions, args ...string) (Arguments, string) {
	t.Helper()
	var out bytes.Buffer
	parsed := ParseArguments(args, opts, &out)
	return parsed, out.String()
}

func TestParseArgumentsDefaults(t *testing.T) {
	parsed, out := parse(t, publisherOpts)

	assert.Equal(t, ParseOK, parsed.ParseResult)
	assert.Zero(t, parsed.DomainID)
	assert.Zero(t, parsed.SampleCount)
	assert.Equal(t, VerbosityException, parsed.Verbosity)
	assert.Empty(t, parsed.SensorID)
	assert.Empty(t, out)
}

func TestParseArgumentsDomainAndCount(t *testing.T) {
	parsed, out := parse(t, publisherOpts, "-d", "5", "-s", "10")

	assert.Equal(t, Arguments{
		ParseResult: ParseOK,
		DomainID:    5,
		SampleCount: 10,
		Verbosity:   VerbosityException,
	}, parsed)
	assert.Empty(t, out)
}

func TestParseArgumentsLongFlags(t *testing.T) {
	parsed, _ := parse(t, publisherOpts, "--domain", "7", "--sample-count", "2", "--verbosity", "5")
	assert.Equal(t, ParseOK, parsed.ParseResult)
	assert.Equal(t, uint32(7), parsed.DomainID)
	assert.Equal(t, uint32(2), parsed.SampleCount)
	assert.Equal(t, VerbosityStatusAll, parsed.Verbosity)

	parsed, _ = parse(t, publisherOpts, "--sample_count", "3")
	assert.Equal(t, ParseOK, parsed.ParseResult)
	assert.Equal(t, uint32(3), parsed.SampleCount)
}

func TestParseArgumentsUnknownFlag(t *testing.T) {
	parsed, out := parse(t, publisherOpts, "-x")

	assert.Equal(t, ParseFailure, parsed.ParseResult)
	assert.Contains(t, out, "Bad parameter.")
	assert.Contains(t, out, "Usage:")
}

func TestParseArgumentsUnknownFlagStopsScan(t *testing.T) {
	parsed, out := parse(t, publisherOpts, "-d", "3", "--bogus", "-s", "10", "-h")

	assert.Equal(t, ParseFailure, parsed.ParseResult)
	assert.Equal(t, uint32(3), parsed.DomainID)
	assert.Zero(t, parsed.SampleCount)
	assert.NotContains(t, out, "Hello publisher.")
}

func TestParseArgumentsHelp(t *testing.T) {
	for _, args := range [][]string{
		{"-h"},
		{"--help"},
		{"-h", "-x"},
		{"-d", "1", "--help", "bogus"},
	} {
		parsed, out := parse(t, publisherOpts, args...)
		assert.Equal(t, ParseExit, parsed.ParseResult, "args %v", args)
		assert.Contains(t, out, "Hello publisher.")
		assert.Contains(t, out, "Usage:")
		assert.NotContains(t, out, "Bad parameter.")
	}
}

func TestParseArgumentsHelpDefaultDescription(t *testing.T) {
	_, out := parse(t, ParserOptions{}, "-h")
	assert.Contains(t, out, "Example application.")
}

func TestParseArgumentsBadValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"missing domain", []string{"-d"}, "Missing value for -d."},
		{"missing count", []string{"-d", "1", "--sample-count"}, "Missing value for --sample-count."},
		{"malformed domain", []string{"-d", "abc"}, `Bad value for -d: "abc".`},
		{"negative count", []string{"-s", "-3"}, `Bad value for -s: "-3".`},
		{"verbosity too high", []string{"-v", "6"}, `Bad value for -v: "6".`},
		{"verbosity negative", []string{"-v", "-1"}, `Bad value for -v: "-1".`},
		{"domain overflow", []string{"-d", "4294967296"}, `Bad value for -d: "4294967296".`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, out := parse(t, publisherOpts, tt.args...)
			assert.Equal(t, ParseFailure, parsed.ParseResult)
			assert.Contains(t, out, tt.msg)
			assert.Contains(t, out, "Usage:")
		})
	}
}

func TestParseArgumentsSensorID(t *testing.T) {
	opts := ParserOptions{Role: RolePublisher, WithSensorID: true}

	parsed, _ := parse(t, opts)
	assert.Equal(t, DefaultSensorID, parsed.SensorID)

	parsed, _ = parse(t, opts, "-i", "line-3", "-s", "1")
	require.Equal(t, ParseOK, parsed.ParseResult)
	assert.Equal(t, "line-3", parsed.SensorID)
	assert.Equal(t, uint32(1), parsed.SampleCount)

	parsed, _ = parse(t, opts, "--sensor-id", "vat")
	assert.Equal(t, "vat", parsed.SensorID)

	parsed, out := parse(t, publisherOpts, "-i", "line-3")
	assert.Equal(t, ParseFailure, parsed.ParseResult)
	assert.Contains(t, out, "Bad parameter.")
}

func TestUsageWording(t *testing.T) {
	_, out := parse(t, ParserOptions{Role: RoleSubscriber, WithSensorID: true}, "-h")
	assert.Contains(t, out, "subscribe in.")
	assert.Contains(t, out, "Number of samples to receive before")
	assert.Contains(t, out, "--sensor-id")
	assert.Contains(t, out, "Default: 1")

	_, out = parse(t, publisherOpts, "-h")
	assert.Contains(t, out, "publish in.")
	assert.Contains(t, out, "Number of samples to send before")
	assert.NotContains(t, out, "--sensor-id")
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "exit", ParseExit.String())
	assert.Equal(t, "ParseReturn(9)", ParseReturn(9).String())
	assert.Equal(t, "status_remote", VerbosityStatusRemote.String())
	assert.Equal(t, "Verbosity(-1)", Verbosity(-1).String())
}
