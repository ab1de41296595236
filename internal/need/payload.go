package need

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"soknadpdf/internal/innsending/storage"
)

// GenerateAndStorePDF asks for PDFs of markup rendered elsewhere.
const GenerateAndStorePDF = "generer_og_mellomlagre_søknad_pdf"

// PayloadSolver converts and stores already rendered compact and full markup.
type PayloadSolver struct {
	archiver *Archiver
}

// NewPayloadSolver creates the generer_og_mellomlagre_søknad_pdf solver.
func NewPayloadSolver(archiver *Archiver) (*PayloadSolver, error) {
	if archiver == nil {
		return nil, fmt.Errorf("archiver is required")
	}
	return &PayloadSolver{archiver: archiver}, nil
}

// Solve implements Solver.
func (s *PayloadSolver) Solve(ctx context.Context, packet *Packet) error {
	ctx, span := tracer.Start(ctx, "need.GenerateAndStorePDF")
	defer span.End()

	a := s.archiver
	a.metrics.IncrementReceived(GenerateAndStorePDF)

	rawID, _ := packet.String("søknadId")
	fields, err := packet.Require("søknadId", "ident", "nettoPayload", "bruttoPayload")
	if err != nil {
		return a.fail(ctx, GenerateAndStorePDF, rawID, err)
	}
	id, err := uuid.Parse(fields["søknadId"])
	if err != nil {
		return a.fail(ctx, GenerateAndStorePDF, rawID, fmt.Errorf("%w: søknadId: %w", errInvalidMessage, err))
	}
	span.SetAttributes(attribute.String("submission.id", id.String()))
	a.logger.InfoContext(ctx, "received need for PDF generation", "submission_id", id.String())

	skip, err := a.skipped(ctx, GenerateAndStorePDF, id.String())
	if err != nil {
		return a.fail(ctx, GenerateAndStorePDF, id.String(), err)
	}
	if skip {
		a.secureLogger.InfoContext(ctx, "skipped payloads",
			"submission_id", id.String(),
			"netto_payload", fields["nettoPayload"],
			"brutto_payload", fields["bruttoPayload"],
		)
		return nil
	}

	stored, err := a.archive(ctx, GenerateAndStorePDF, id.String(), id, fields["ident"],
		rendered{storage.Netto, fields["nettoPayload"]},
		rendered{storage.Brutto, fields["bruttoPayload"]},
	)
	if err != nil {
		return a.fail(ctx, GenerateAndStorePDF, id.String(), err)
	}
	if err := a.publish(ctx, GenerateAndStorePDF, packet, fields["ident"], stored); err != nil {
		return a.fail(ctx, GenerateAndStorePDF, id.String(), err)
	}
	a.logger.InfoContext(ctx, "solved need", "need", GenerateAndStorePDF, "submission_id", id.String())
	return nil
}
