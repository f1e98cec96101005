// Package console runs the line-oriented command prompt.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxLineBytes bounds a single command line.
const MaxLineBytes = 64 * 1024

var ErrLineTooLong = fmt.Errorf("command longer than %d bytes", MaxLineBytes)

type Processor interface {
	Process(ctx context.Context, command string) (string, error)
}

const banner = `Hotel Booking System
Enter commands (or blank line to exit):
Examples:
  Availability(H1, 20240901, SGL)
  Availability(H1, 20240901-20240903, DBL)
  Search(H1, 365, SGL)
`

// Run prompts on out and processes lines from in until a blank line, EOF or
// ctx cancellation. Command errors are printed and the loop continues.
func Run(ctx context.Context, in io.Reader, out io.Writer, p Processor) error {
	if _, err := fmt.Fprint(out, banner+"\n"); err != nil {
		return err
	}

	br := bufio.NewReader(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, "> ")
		raw, err := readLine(br)
		if errors.Is(err, ErrLineTooLong) {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		if err != nil {
			fmt.Fprintln(out)
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		line := strings.TrimSpace(raw)
		if line == "" {
			return nil
		}

		id := uuid.NewString()
		start := time.Now()
		res, err := p.Process(ctx, line)
		if err != nil {
			log.Debug().Str("cmd_id", id).Str("command", line).Err(err).Msg("command failed")
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		log.Debug().Str("cmd_id", id).Str("command", line).Dur("duration", time.Since(start)).Msg("command ok")
		fmt.Fprintln(out, res)
	}
}

// readLine returns the next line without its terminator. A line over
// MaxLineBytes is consumed and reported as ErrLineTooLong.
func readLine(br *bufio.Reader) (string, error) {
	var line []byte
	for {
		chunk, more, err := br.ReadLine()
		if err != nil {
			return "", err
		}
		if len(line)+len(chunk) > MaxLineBytes {
			for more {
				if _, more, err = br.ReadLine(); err != nil {
					break
				}
			}
			return "", ErrLineTooLong
		}
		line = append(line, chunk...)
		if !more {
			return string(line), nil
		}
	}
}
