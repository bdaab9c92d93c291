// weft-demo walks through the toolkit: a line editor, an option grid,
// and a progress bar fed from worker goroutines. Set WEFT_DEBUG to a
// file path to capture render and event diagnostics.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/odvcencio/weft/pkg/canvas"
	"github.com/odvcencio/weft/pkg/style"
	"github.com/odvcencio/weft/pkg/term"
	"github.com/odvcencio/weft/pkg/text"
	"github.com/odvcencio/weft/pkg/widget"
	"github.com/odvcencio/weft/pkg/widgets"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, widget.ErrInterrupted) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "weft-demo:", err)
		os.Exit(1)
	}
}

func run() error {
	var opts []widget.RunOption
	if path := os.Getenv("WEFT_DEBUG"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		log := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, widget.WithLogger(log))
	}

	t := term.Open(nil, nil)

	name, err := widget.Run[string](t, widget.NewVerticalLayout(
		widgets.NewLine(text.Plain("What's your name? (F1 for help)"), style.Bold),
	).AddReceiver(widgets.NewInput("name:", "anonymous gopher")), opts...)
	if err != nil {
		return err
	}
	if name == "" {
		name = "anonymous gopher"
	}

	flavor, err := widget.Run[string](t, widget.NewVerticalLayout(
		widgets.NewLine(text.Plain(fmt.Sprintf("Hello, %s! Pick a flavor:", name)), style.Bold),
	).AddReceiver(widgets.NewChoice([]widgets.Option{
		{Value: "vanilla", Label: "vanilla", Comment: "safe"},
		{Value: "chocolate", Label: "chocolate"},
		{Value: "pistachio", Label: "pistachio", Comment: "bold"},
		{Value: "stracciatella", Label: "stracciatella"},
	})), opts...)
	if err != nil {
		return err
	}

	if err := churn(t, flavor); err != nil {
		return err
	}

	fmt.Fprintf(t.Out, "Enjoy your %s, %s!\n", flavor, name)
	return nil
}

// churn renders a progress bar outside the run loop: workers publish
// snapshots while the main goroutine redraws on a ticker.
func churn(t *term.Terminal, flavor string) error {
	p := widgets.NewProgress()

	g, ctx := errgroup.WithContext(context.Background())
	done := make(chan struct{})
	g.Go(func() error {
		defer close(done)
		const steps = 40
		for i := 0; i <= steps; i++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(50 * time.Millisecond):
			}
			p.Set(widgets.Snapshot{
				Label:   "churning " + flavor,
				Current: float64(i),
				Total:   steps,
				Done:    i == steps,
			})
		}
		return nil
	})

	c := canvas.New(t.Out, t.Size, t.Caps.Colors)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		c.Prepare(false)
		c.SetFinalPos(0, 1)
		c.WithFrame(0, 0, -1, 1, func() { p.Draw(c) })
		if err := c.Render(); err != nil {
			return err
		}
		if p.Done() {
			break
		}
		select {
		case <-done:
		case <-ticker.C:
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return c.Finalize()
}
