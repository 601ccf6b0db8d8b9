package replay

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"

	"tableflip.dev/curate/pkg/watch"
)

// Watch runs the script, then runs it again every time the file changes until
// ctx is cancelled. A failing run is reported and the watch continues.
func (r *Replay) Watch(ctx context.Context) error {
	changes, err := watch.File(ctx, r.Path, watch.DefaultDelay)
	if err != nil {
		return err
	}
	r.runOnce(ctx)
	for range changes {
		log.Debug().Str("path", r.Path).Msg("[REPLAY] script changed")
		r.runOnce(ctx)
	}
	return ctx.Err()
}

func (r *Replay) runOnce(ctx context.Context) {
	out := r.Out
	if out == nil {
		out = color.Output
	}
	_, _ = color.New(color.Faint).Fprintf(out, "--- %s\n", r.Path)
	if err := r.Do(ctx); err != nil {
		_, _ = color.New(color.FgRed).Fprintln(out, err.Error())
	}
	_, _ = fmt.Fprintln(out, "")
}
