package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/saudeviva/agenda/internal/profile"
	"github.com/saudeviva/agenda/plugin/ai/intent"
	"github.com/saudeviva/agenda/server/service/scheduling"
)

// Console is the interactive terminal frontend. Booking requests are typed in
// free text and routed through the intent extractor before scheduling.
type Console struct {
	scheduler scheduling.Service
	extractor intent.Extractor
	profile   *profile.Profile
	in        *bufio.Scanner
	out       io.Writer

	// now is injectable for tests.
	now func() time.Time
}

// NewConsole creates a new console bound to the given streams.
func NewConsole(scheduler scheduling.Service, extractor intent.Extractor, profile *profile.Profile, in io.Reader, out io.Writer) *Console {
	return &Console{
		scheduler: scheduler,
		extractor: extractor,
		profile:   profile,
		in:        bufio.NewScanner(in),
		out:       out,
		now:       time.Now,
	}
}

// Run shows the menu in a loop until the user exits or input ends.
func (c *Console) Run(ctx context.Context) error {
	fmt.Fprintf(c.out, "SaudeViva scheduling, %s\n", c.profile.Practitioner)

	for {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "1 - Schedule appointment")
		fmt.Fprintln(c.out, "2 - List appointments")
		fmt.Fprintln(c.out, "3 - Cancel appointment")
		fmt.Fprintln(c.out, "0 - Exit")
		fmt.Fprint(c.out, "Choose an option: ")

		choice, ok := c.readLine()
		if !ok {
			return nil
		}

		switch strings.TrimSpace(choice) {
		case "1":
			c.schedule(ctx)
		case "2":
			c.list(ctx)
		case "3":
			c.cancel(ctx)
		case "0":
			fmt.Fprintln(c.out, "Goodbye.")
			return nil
		default:
			fmt.Fprintln(c.out, "Invalid option.")
		}
	}
}

func (c *Console) schedule(ctx context.Context) {
	fmt.Fprint(c.out, "Describe the appointment request: ")
	text, ok := c.readLine()
	if !ok {
		return
	}

	candidate, err := c.extractor.Extract(ctx, text, c.now())
	if err != nil {
		fmt.Fprintln(c.out, "Could not understand the request. Please mention the patient, the date, and the time.")
		return
	}

	appointment, err := c.scheduler.Schedule(ctx, scheduling.Candidate{
		PatientName: candidate.Name,
		Date:        candidate.Date,
		Time:        candidate.Time,
	})
	if err != nil {
		fmt.Fprintf(c.out, "Booking refused: %s\n", rejectionMessage(err))
		return
	}

	fmt.Fprintf(c.out, "Appointment #%d confirmed for %s on %s at %s with %s.\n",
		appointment.ID, appointment.PatientName, appointment.Date, appointment.Time, appointment.Practitioner)
}

func (c *Console) list(ctx context.Context) {
	appointments, err := c.scheduler.List(ctx)
	if err != nil {
		fmt.Fprintf(c.out, "Could not load appointments: %s\n", rejectionMessage(err))
		return
	}
	if len(appointments) == 0 {
		fmt.Fprintln(c.out, "No appointments booked.")
		return
	}

	for _, a := range appointments {
		fmt.Fprintf(c.out, "#%d  %s  %s %s  %dmin  %s  %s\n",
			a.ID, a.PatientName, a.Date, a.Time, a.DurationMinutes, a.Status, a.Practitioner)
	}
}

func (c *Console) cancel(ctx context.Context) {
	fmt.Fprint(c.out, "Appointment id to cancel: ")
	raw, ok := c.readLine()
	if !ok {
		return
	}

	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		fmt.Fprintln(c.out, "The id must be an integer.")
		return
	}

	appointment, err := c.scheduler.Cancel(ctx, int32(id))
	if err != nil {
		fmt.Fprintf(c.out, "Cancellation failed: %s\n", rejectionMessage(err))
		return
	}

	fmt.Fprintf(c.out, "Appointment #%d cancelled.\n", appointment.ID)
}

func (c *Console) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return c.in.Text(), true
}

// rejectionMessage renders a scheduling error for the terminal.
func rejectionMessage(err error) string {
	var rejection *scheduling.RejectionError
	if errors.As(err, &rejection) {
		return rejection.Message
	}
	return err.Error()
}
