package need

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"soknadpdf/internal/innsending/storage"
	"soknadpdf/internal/submission/render"
)

// StoreReport asks for a PDF of a submitted reporting period.
const StoreReport = "MellomlagreRapportering"

// reportNamespace derives receipt ids from period ids, which are not UUIDs.
var reportNamespace = uuid.MustParse("8a3f0c5e-2d4b-5e61-9f7a-1c0b2e3d4f50")

// ReportReceiptID is the id receipts of a reporting period are recorded under.
func ReportReceiptID(periodID string) uuid.UUID {
	return uuid.NewSHA1(reportNamespace, []byte(periodID))
}

// ReportSolver renders a reporting period and stores it as a single NETTO PDF.
type ReportSolver struct {
	renderer ReportRenderer
	archiver *Archiver
}

// NewReportSolver creates the MellomlagreRapportering solver.
func NewReportSolver(renderer ReportRenderer, archiver *Archiver) (*ReportSolver, error) {
	if renderer == nil {
		return nil, fmt.Errorf("report renderer is required")
	}
	if archiver == nil {
		return nil, fmt.Errorf("archiver is required")
	}
	return &ReportSolver{renderer: renderer, archiver: archiver}, nil
}

type reportNeed struct {
	PeriodID string
	Report   json.RawMessage
}

// Solve implements Solver.
func (s *ReportSolver) Solve(ctx context.Context, packet *Packet) error {
	ctx, span := tracer.Start(ctx, "need.StoreReport")
	defer span.End()

	a := s.archiver
	a.metrics.IncrementReceived(StoreReport)

	n, ident, err := s.parse(packet)
	if err != nil {
		return a.fail(ctx, StoreReport, n.PeriodID, err)
	}
	span.SetAttributes(attribute.String("period.id", n.PeriodID))
	a.logger.InfoContext(ctx, "received need for reporting period PDF", "period_id", n.PeriodID)

	markup, err := s.renderer.RenderReport(ctx, n.PeriodID, n.Report)
	if err != nil {
		if errors.Is(err, render.ErrMalformedReport) {
			err = fmt.Errorf("%w: %w", errInvalidMessage, err)
		}
		return a.fail(ctx, StoreReport, n.PeriodID, err)
	}

	stored, err := a.archive(ctx, StoreReport, n.PeriodID, ReportReceiptID(n.PeriodID), ident,
		rendered{storage.Netto, markup},
	)
	if err != nil {
		return a.fail(ctx, StoreReport, n.PeriodID, err)
	}
	if err := a.publish(ctx, StoreReport, packet, ident, stored); err != nil {
		return a.fail(ctx, StoreReport, n.PeriodID, err)
	}
	a.logger.InfoContext(ctx, "solved need", "need", StoreReport, "period_id", n.PeriodID)
	return nil
}

// parse reads the need. The period id may be a string or a number, and the
// report an object or a string holding the object.
func (s *ReportSolver) parse(packet *Packet) (reportNeed, string, error) {
	var n reportNeed
	raw, ok := packet.Raw(StoreReport)
	if !ok {
		return n, "", fmt.Errorf("%w: missing %s", errInvalidMessage, StoreReport)
	}
	var wire struct {
		PeriodID json.RawMessage `json:"periodeId"`
		Report   json.RawMessage `json:"json"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return n, "", fmt.Errorf("%w: %s: %w", errInvalidMessage, StoreReport, err)
	}
	n.PeriodID = periodID(wire.PeriodID)
	if n.PeriodID == "" {
		return n, "", fmt.Errorf("%w: missing %s.periodeId", errInvalidMessage, StoreReport)
	}
	if len(wire.Report) == 0 || string(wire.Report) == "null" {
		return n, "", fmt.Errorf("%w: missing %s.json", errInvalidMessage, StoreReport)
	}
	n.Report = wire.Report
	var text string
	if err := json.Unmarshal(wire.Report, &text); err == nil {
		n.Report = json.RawMessage(text)
	}
	fields, err := packet.Require("ident")
	if err != nil {
		return n, "", err
	}
	return n, fields["ident"], nil
}

func periodID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		return num.String()
	}
	return ""
}
