package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
)

const usage = `Valid commands:
- generate a flock [g d ds s a c N]
- compute statistics and print to screen [s]
- print histograms to screen [h NORM(distance) NORM(speeds)]
- quit [q]
`

const badFormat = "Bad format, insert a new command"

var errBadFormat = errors.New(badFormat)

// printer remembers the first write error so the loop can stop on it.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// Run reads one command per line from in until q, end of input or ctx is done.
// A command that fails is reported on out and the loop waits for the next one.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := bufio.NewScanner(in)
	p := &printer{w: out}
	p.printf("%s", usage)

	for p.err == nil && lines.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		fields := strings.Fields(lines.Text())
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "g":
			err = s.generateCommand(ctx, fields[1:], lines, p)
		case "s":
			if len(fields) != 1 {
				err = errBadFormat
				break
			}
			err = s.Report(out)
		case "h":
			err = s.histogramCommand(fields[1:], out)
		case "q":
			return nil
		case "help":
			p.printf("%s", usage)
		default:
			err = errBadFormat
		}

		switch {
		case err == nil:
		case errors.Is(err, errBadFormat):
			p.printf("%s\n", badFormat)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		default:
			s.logger.Warnf("command %q failed: %v", fields[0], err)
			p.printf("Error: %v\n", err)
		}
	}
	if p.err != nil {
		return p.err
	}
	if err := lines.Err(); err != nil {
		return err
	}
	return ctx.Err()
}

// generateCommand accepts the parameters on the command line, or prompts
// for them like the interactive terminal did.
func (s *Session) generateCommand(ctx context.Context, args []string, lines *bufio.Scanner, p *printer) error {
	if len(args) == 0 {
		p.printf("Input the parameters: d, ds, s, a, c\n")
		if !lines.Scan() {
			return errBadFormat
		}
		args = strings.Fields(lines.Text())
		p.printf("Input the number of boids: ")
		if !lines.Scan() {
			return errBadFormat
		}
		args = append(args, strings.Fields(lines.Text())...)
	}
	if len(args) != 6 {
		return errBadFormat
	}

	values, err := parseFloats(args[:5])
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(args[5])
	if err != nil {
		return errBadFormat
	}
	rules, err := flock.NewRuleParameters(values[0], values[1], values[2], values[3], values[4])
	if err != nil {
		return err
	}

	run, err := s.Generate(ctx, rules, n)
	if err != nil {
		return err
	}
	p.printf("Data generated successfully (run %s, %d steps)\n", run.ID, run.Steps())
	return p.err
}

func (s *Session) histogramCommand(args []string, out io.Writer) error {
	if len(args) != 2 {
		return errBadFormat
	}
	norms, err := parseFloats(args)
	if err != nil {
		return err
	}
	return s.Histograms(out, norms[0], norms[1])
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, errBadFormat
		}
		out[i] = v
	}
	return out, nil
}
