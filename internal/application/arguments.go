package application

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseReturn tells main what to do after argument parsing.
type ParseReturn int

const (
	// ParseOK means the program proceeds.
	ParseOK ParseReturn = iota
	// ParseFailure means bad input; exit with status 1.
	ParseFailure
	// ParseExit means help was requested; exit with status 0.
	ParseExit
)

func (r ParseReturn) String() string {
	switch r {
	case ParseOK:
		return "ok"
	case ParseFailure:
		return "failure"
	case ParseExit:
		return "exit"
	default:
		return fmt.Sprintf("ParseReturn(%d)", int(r))
	}
}

// Verbosity controls how much middleware logging is shown.
type Verbosity int

const (
	VerbositySilent Verbosity = iota
	VerbosityException
	VerbosityWarning
	VerbosityStatusLocal
	VerbosityStatusRemote
	VerbosityStatusAll
)

func (v Verbosity) String() string {
	switch v {
	case VerbositySilent:
		return "silent"
	case VerbosityException:
		return "exception"
	case VerbosityWarning:
		return "warning"
	case VerbosityStatusLocal:
		return "status_local"
	case VerbosityStatusRemote:
		return "status_remote"
	case VerbosityStatusAll:
		return "status_all"
	default:
		return fmt.Sprintf("Verbosity(%d)", int(v))
	}
}

// DefaultSensorID is used by the temperature examples when --sensor-id is absent.
const DefaultSensorID = "getting_started"

// Arguments is the result of ParseArguments.
type Arguments struct {
	ParseResult ParseReturn
	DomainID    uint32
	// SampleCount of 0 means unbounded.
	SampleCount uint32
	Verbosity   Verbosity
	SensorID    string
}

// Role selects the wording of the usage text.
type Role int

const (
	RolePublisher Role = iota
	RoleSubscriber
)

type ParserOptions struct {
	// Description is printed before the usage text when help is requested.
	Description  string
	Role         Role
	WithSensorID bool
}

// ParseArguments scans args, the tokens after the program name, left to
// right. Help and the first bad token stop the scan; usage is written to out
// in both cases.
func ParseArguments(args []string, opts ParserOptions, out io.Writer) Arguments {
	parsed := Arguments{
		ParseResult: ParseOK,
		Verbosity:   VerbosityException,
	}
	if opts.WithSensorID {
		parsed.SensorID = DefaultSensorID
	}

	fail := func(format string, a ...any) Arguments {
		_, _ = fmt.Fprintf(out, format+"\n", a...)
		writeUsage(out, opts)
		parsed.ParseResult = ParseFailure
		return parsed
	}

	for i := 0; i < len(args); i++ {
		flag := args[i]
		switch flag {
		case "-h", "--help":
			description := opts.Description
			if description == "" {
				description = "Example application."
			}
			_, _ = fmt.Fprintln(out, description)
			writeUsage(out, opts)
			parsed.ParseResult = ParseExit
			return parsed
		case "-d", "--domain", "-s", "--sample-count", "--sample_count", "-v", "--verbosity":
		case "-i", "--sensor-id":
			if !opts.WithSensorID {
				return fail("Bad parameter.")
			}
		default:
			return fail("Bad parameter.")
		}

		if i+1 >= len(args) {
			return fail("Missing value for %s.", flag)
		}
		i++
		value := args[i]

		switch flag {
		case "-d", "--domain":
			n, err := parseCount(value)
			if err != nil {
				return fail("Bad value for %s: %q.", flag, value)
			}
			parsed.DomainID = n
		case "-s", "--sample-count", "--sample_count":
			n, err := parseCount(value)
			if err != nil {
				return fail("Bad value for %s: %q.", flag, value)
			}
			parsed.SampleCount = n
		case "-v", "--verbosity":
			n, err := strconv.Atoi(value)
			if err != nil || n < int(VerbositySilent) || n > int(VerbosityStatusAll) {
				return fail("Bad value for %s: %q.", flag, value)
			}
			parsed.Verbosity = Verbosity(n)
		case "-i", "--sensor-id":
			parsed.SensorID = value
		}
	}
	return parsed
}

func parseCount(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}

func writeUsage(out io.Writer, opts ParserOptions) {
	where, what := "publish in", "send"
	if opts.Role == RoleSubscriber {
		where, what = "subscribe in", "receive"
	}
	var b strings.Builder
	b.WriteString("Usage:\n")
	fmt.Fprintf(&b, "    -d, --domain       <int>   Domain ID this application will\n")
	fmt.Fprintf(&b, "                               %s.\n", where)
	fmt.Fprintf(&b, "                               Default: 0\n")
	fmt.Fprintf(&b, "    -s, --sample-count <int>   Number of samples to %s before\n", what)
	fmt.Fprintf(&b, "                               cleanly shutting down.\n")
	fmt.Fprintf(&b, "                               Default: infinite\n")
	if opts.WithSensorID {
		fmt.Fprintf(&b, "    -i, --sensor-id    <str>   Unique ID of temperature sensor.\n")
		fmt.Fprintf(&b, "                               Default: %s\n", DefaultSensorID)
	}
	fmt.Fprintf(&b, "    -v, --verbosity    <int>   How much debugging output to show.\n")
	fmt.Fprintf(&b, "                               Range: 0-5\n")
	fmt.Fprintf(&b, "                               Default: %d\n", int(VerbosityException))
	_, _ = io.WriteString(out, b.String())
}
