package commands

import (
	"context"
	"fmt"
)

type StartCmd struct{}

func (s *StartCmd) Run(ctx context.Context, globals *Globals) error {
	env, err := open(ctx, globals)
	if err != nil {
		return err
	}
	defer env.Close()

	resp, err := env.services().Shift.StartShift(ctx)
	if err != nil {
		return err
	}
	return printJSON(resp)
}

type EndCmd struct{}

func (e *EndCmd) Run(ctx context.Context, globals *Globals) error {
	env, err := open(ctx, globals)
	if err != nil {
		return err
	}
	defer env.Close()

	resp, err := env.services().Shift.EndShiftForAll(ctx)
	if err != nil {
		return err
	}
	return printJSON(resp)
}

type EndEmployeeCmd struct {
	EmployeeID string `arg:"" help:"Employee identifier"`
}

func (e *EndEmployeeCmd) Run(ctx context.Context, globals *Globals) error {
	env, err := open(ctx, globals)
	if err != nil {
		return err
	}
	defer env.Close()

	resp, err := env.services().Shift.EndShiftForEmployee(ctx, e.EmployeeID)
	if err != nil {
		return err
	}
	return printJSON(resp)
}

type CloseStaleCmd struct {
	Date string `arg:"" help:"Shift day to close (YYYY-MM-DD)"`
}

func (c *CloseStaleCmd) Run(ctx context.Context, globals *Globals) error {
	env, err := open(ctx, globals)
	if err != nil {
		return err
	}
	defer env.Close()

	day, err := env.policy.ParseDate(c.Date)
	if err != nil {
		return err
	}

	ended, err := env.services().Shift.CloseStaleShiftDay(ctx, day)
	if err != nil {
		return err
	}
	return printJSON(map[string]interface{}{"date": c.Date, "affected": ended})
}

type StatusCmd struct {
	Date     string `help:"Shift day (YYYY-MM-DD), defaults to today"`
	Employee string `help:"Show one employee's status instead of the day's"`
}

func (s *StatusCmd) Run(ctx context.Context, globals *Globals) error {
	env, err := open(ctx, globals)
	if err != nil {
		return err
	}
	defer env.Close()

	shifts := env.services().Shift
	if s.Employee != "" {
		resp, err := shifts.GetEmployeeShiftStatus(ctx, s.Employee, s.Date)
		if err != nil {
			return fmt.Errorf("failed to get status of %s: %w", s.Employee, err)
		}
		return printJSON(resp)
	}

	resp, err := shifts.GetShiftStatus(ctx, s.Date)
	if err != nil {
		return err
	}
	return printJSON(resp)
}
