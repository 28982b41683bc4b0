package format

import (
	"errors"

	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/bus"
	"github.com/dshills/inkwell/internal/bus/topic"
	"github.com/dshills/inkwell/internal/keys"
)

// Handlers implements bus.Component.
func (p *Pipeline) Handlers() bus.Handlers {
	return bus.Handlers{
		Requests: map[topic.Topic]bus.RequestFunc{
			keys.FormatCan: func(args any) any {
				style, _ := args.(string)
				return p.Can(style)
			},
			keys.FormatState: func(args any) any {
				style, _ := args.(string)
				return p.Active(style)
			},
		},
		Commands: map[topic.Topic]bus.CommandFunc{
			keys.FormatApply: p.handleApply,
		},
	}
}

func (p *Pipeline) handleApply(args any) {
	opts, err := DecodeOptions(args)
	if err != nil {
		p.logger.Warn("bad format.apply payload", zap.Error(err))
		return
	}
	if _, err := p.Apply(opts); err != nil {
		level := p.logger.Warn
		if errors.Is(err, ErrBusy) {
			level = p.logger.Debug
		}
		level("format.apply failed", zap.String("style", opts.Style), zap.Error(err))
	}
}

// Attach mounts the pipeline's handlers on node once the canvas reports
// ready. Conflicts are checked immediately.
func (p *Pipeline) Attach(node *bus.Node) error {
	if err := node.CanMount(p); err != nil {
		return err
	}
	if p.node == nil {
		p.node = node
	}
	p.canvas.OnReady(func() {
		if err := node.Mount(p); err != nil {
			p.logger.Error("mount formatting commands", zap.Error(err))
			return
		}
		p.logger.Info("formatting commands mounted", zap.String("node", node.Name()))
	})
	return p.canvas.Load()
}
