package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"hotel_availability/internal/adapters/console"
)

type echo struct{ seen []string }

func (e *echo) Process(ctx context.Context, command string) (string, error) {
	e.seen = append(e.seen, command)
	if command == "fail" {
		return "", errors.New("malformed command: nope")
	}
	return "got " + command, nil
}

func TestRun_StopsAtBlankLine(t *testing.T) {
	p := &echo{}
	var out bytes.Buffer
	in := strings.NewReader("one\n  two  \nfail\nthree\n\nnever\n")

	if err := console.Run(context.Background(), in, &out, p); err != nil {
		t.Fatalf("err: %v", err)
	}
	if strings.Join(p.seen, ",") != "one,two,fail,three" {
		t.Fatalf("processed %v", p.seen)
	}
	s := out.String()
	for _, want := range []string{"Hotel Booking System", "> got one\n", "> got two\n", "> Error: malformed command: nope\n", "> got three\n"} {
		if !strings.Contains(s, want) {
			t.Fatalf("output missing %q:\n%s", want, s)
		}
	}
	if strings.Contains(s, "never") {
		t.Fatalf("input after blank line was processed")
	}
}

func TestRun_EOF(t *testing.T) {
	p := &echo{}
	var out bytes.Buffer
	if err := console.Run(context.Background(), strings.NewReader("one"), &out, p); err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(p.seen) != 1 {
		t.Fatalf("processed %v", p.seen)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	if err := console.Run(ctx, strings.NewReader("one\n"), &out, &echo{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRun_LongLineIsReportedAndLoopContinues(t *testing.T) {
	p := &echo{}
	var out bytes.Buffer
	in := strings.NewReader(strings.Repeat("x", console.MaxLineBytes+10) + "\none\n\n")

	if err := console.Run(context.Background(), in, &out, p); err != nil {
		t.Fatalf("err: %v", err)
	}
	if strings.Join(p.seen, ",") != "one" {
		t.Fatalf("processed %v", p.seen)
	}
	if !strings.Contains(out.String(), "> Error: "+console.ErrLineTooLong.Error()+"\n") {
		t.Fatalf("long line not reported:\n%.200s", out.String())
	}
}

func TestRun_LineAtLimitIsProcessed(t *testing.T) {
	p := &echo{}
	var out bytes.Buffer
	long := strings.Repeat("y", console.MaxLineBytes)
	if err := console.Run(context.Background(), strings.NewReader(long+"\n"), &out, p); err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(p.seen) != 1 || p.seen[0] != long {
		t.Fatalf("line at the limit was not processed")
	}
}
