package cli

import "fmt"

type CompileCmd struct{}

func (c *CompileCmd) Run(ctx *Context) error {
	s, err := ctx.LoadCurrentSession()
	if err != nil {
		return err
	}

	cal, unplaceable, err := s.Compile()
	if err != nil {
		return err
	}

	fmt.Println(RenderWeek(cal, unplaceable))
	return ctx.SaveCurrentSession(s)
}

type WeekCmd struct{}

func (c *WeekCmd) Run(ctx *Context) error {
	s, err := ctx.LoadCurrentSession()
	if err != nil {
		return err
	}

	cal, ok := s.Calendar()
	if !ok {
		return fmt.Errorf("no compiled week yet, run 'weekwise compile' first")
	}

	fmt.Println(RenderWeek(cal, s.Unplaceable()))
	return nil
}

type ResetCmd struct{}

func (c *ResetCmd) Run(ctx *Context) error {
	s, err := ctx.LoadCurrentSession()
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()
	s.Reset()

	fmt.Println("Session reset.")
	return ctx.SaveCurrentSession(s)
}
