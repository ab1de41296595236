package need

import (
	"context"
	"errors"
	"log/slog"

	"soknadpdf/internal/platform/kafka/consumer"
)

var errInvalidMessage = errors.New("invalid message")

// Solver solves one need.
type Solver interface {
	Solve(ctx context.Context, packet *Packet) error
}

// Router dispatches open needs to the solver registered for each need name.
// Messages that are not open needs, or that ask only for needs nobody here
// solves, are acknowledged without action.
type Router struct {
	solvers map[string]Solver
	logger  *slog.Logger
}

// NewRouter creates an empty router.
func NewRouter(logger *slog.Logger) *Router {
	return &Router{
		solvers: make(map[string]Solver),
		logger:  logger,
	}
}

// Register adds the solver for need.
func (r *Router) Register(need string, solver Solver) {
	r.solvers[need] = solver
}

// Handle implements consumer.Handler.
func (r *Router) Handle(ctx context.Context, msg *consumer.Message) error {
	packet, err := ParsePacket(msg.Value)
	if err != nil {
		r.logger.WarnContext(ctx, "skipping unparseable message",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}
	if !packet.IsOpenNeed() {
		return nil
	}
	for _, need := range packet.Needs() {
		solver, ok := r.solvers[need]
		if !ok {
			continue
		}
		if err := solver.Solve(ctx, packet); err != nil {
			return err
		}
	}
	return nil
}
