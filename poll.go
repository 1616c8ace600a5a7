package bwatch

import (
	"context"
	"fmt"
	"time"
)

// Poller queries each target through the Runner and cleans the result.
type Poller struct {
	Runner  Runner
	Options Options
	Timeout time.Duration

	// Metrics and Log are optional.
	Metrics *Metrics
	Log     Printer
}

func (p *Poller) Poll(ctx context.Context, t Target) *Status {
	T_START := time.Now()

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	output, err := p.Runner.Run(ctx, t)
	st := Parse(t, output, p.Options)
	st.SetError(err)
	st.Elapsed = time.Since(T_START)

	if p.Metrics != nil {
		p.Metrics.Observe(st)
	}
	if p.Log != nil {
		p.Log.Print(fmt.Sprintln(
			"=> done:",
			"target:", t.String(),
			"jobs:", st.JobCount,
			"err:", err,
			"dt:", st.Elapsed.String()))
	}
	return st
}

// PollAll polls the targets one after another, in order.
func (p *Poller) PollAll(ctx context.Context, targets []Target) []*Status {
	statuses := make([]*Status, 0, len(targets))
	for _, t := range targets {
		statuses = append(statuses, p.Poll(ctx, t))
	}
	return statuses
}
