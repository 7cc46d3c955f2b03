package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"timebank-smoke/internal/domain/model"
	"timebank-smoke/pkg/msg"
)

// Process exit codes of the smoke test.
const (
	ExitPass = 0
	ExitFail = 1
)

// ConsoleReporter prints progress and the verdict: passes on out, failures on errOut.
type ConsoleReporter struct {
	out    io.Writer
	errOut io.Writer
}

func NewConsoleReporter(out, errOut io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out, errOut: errOut}
}

// Waiting announces the startup delay in seconds, fractions kept.
func (r *ConsoleReporter) Waiting(delay time.Duration) {
	seconds := strconv.FormatFloat(delay.Seconds(), 'f', -1, 64)
	fmt.Fprintln(r.out, msg.GetMessage("api-test.waiting", seconds))
}

func (r *ConsoleReporter) Starting() {
	fmt.Fprintln(r.out, msg.GetMessage("api-test.starting"))
}

// Failure reports an error that stopped the run before a verdict was reached.
func (r *ConsoleReporter) Failure(err error) int {
	fmt.Fprintln(r.errOut, msg.GetMessage("api-test.call-failed", err))
	return ExitFail
}

// Result prints the verdict for result and returns the exit code.
func (r *ConsoleReporter) Result(result model.SmokeResult) int {
	if result.Err != nil || result.Payload == nil {
		err := result.Err
		if err == nil {
			err = errors.New("empty response")
		}
		return r.Failure(err)
	}

	payload := result.Payload
	if !result.Passed() {
		fmt.Fprintln(r.errOut, msg.GetMessage("api-test.unexpected-payload",
			model.FormatValue(payload.Status),
			model.FormatValue(payload.Message),
			model.FormatValue(payload.Data),
		))
		return ExitFail
	}

	fmt.Fprintln(r.out, msg.GetMessage("api-test.pass"))
	fmt.Fprintln(r.out, payload.Pretty())
	return ExitPass
}
