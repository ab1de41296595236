package need

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"soknadpdf/internal/innsending/storage"
	"soknadpdf/internal/innsending/supplier"
	"soknadpdf/internal/submission/models"
	"soknadpdf/internal/submission/render"
)

var tracer = otel.Tracer("soknadpdf/internal/need")

// ArchivableSubmission asks for the archivable PDFs of a submitted application.
const ArchivableSubmission = "ArkiverbarSøknad"

const (
	typeNewDialog     = "NY_DIALOG"
	typeSupplementary = "ETTERSENDING_TIL_DIALOG"
	formGeneralIntake = "GENERELL_INNSENDING"

	localTimeLayout = "2006-01-02T15:04:05.999999999"
)

// ArchiveSolver builds, renders and archives a submission on request.
type ArchiveSolver struct {
	supplier SubmissionSupplier
	renderer Renderer
	archiver *Archiver
	location *time.Location
}

// NewArchiveSolver creates the ArkiverbarSøknad solver.
func NewArchiveSolver(sup SubmissionSupplier, renderer Renderer, archiver *Archiver) (*ArchiveSolver, error) {
	if sup == nil {
		return nil, fmt.Errorf("submission supplier is required")
	}
	if renderer == nil {
		return nil, fmt.Errorf("renderer is required")
	}
	if archiver == nil {
		return nil, fmt.Errorf("archiver is required")
	}
	loc, err := time.LoadLocation(render.DefaultLocation)
	if err != nil {
		return nil, fmt.Errorf("load location: %w", err)
	}
	return &ArchiveSolver{supplier: sup, renderer: renderer, archiver: archiver, location: loc}, nil
}

// Solve implements Solver. Needs of other dialog types are left for other
// services.
func (s *ArchiveSolver) Solve(ctx context.Context, packet *Packet) error {
	kindOf, ok := packet.String("type")
	if !ok || (kindOf != typeNewDialog && kindOf != typeSupplementary) {
		return nil
	}

	ctx, span := tracer.Start(ctx, "need.ArchivableSubmission")
	defer span.End()

	a := s.archiver
	a.metrics.IncrementReceived(ArchivableSubmission)

	req, err := s.request(packet, kindOf)
	if err != nil {
		id, _ := packet.String("søknad_uuid")
		return a.fail(ctx, ArchivableSubmission, id, err)
	}
	id := req.SubmissionID.String()
	span.SetAttributes(
		attribute.String("submission.id", id),
		attribute.String("submission.kind", req.Kind.String()),
	)
	a.logger.InfoContext(ctx, "received need for archivable submission",
		"submission_id", id,
		"kind", req.Kind.String(),
		"language", req.Language.String(),
	)

	skip, err := a.skipped(ctx, ArchivableSubmission, id)
	if err != nil {
		return a.fail(ctx, ArchivableSubmission, id, err)
	}
	if skip {
		return nil
	}

	sub, err := s.supplier.Submission(ctx, req)
	if err != nil {
		return a.fail(ctx, ArchivableSubmission, id, err)
	}
	netto, err := s.render(ctx, sub, render.Compact)
	if err != nil {
		return a.fail(ctx, ArchivableSubmission, id, err)
	}
	brutto, err := s.render(ctx, sub, render.Full)
	if err != nil {
		return a.fail(ctx, ArchivableSubmission, id, err)
	}

	stored, err := a.archive(ctx, ArchivableSubmission, id, req.SubmissionID, req.Ident,
		rendered{storage.Netto, netto},
		rendered{storage.Brutto, brutto},
	)
	if err != nil {
		return a.fail(ctx, ArchivableSubmission, id, err)
	}
	if err := a.publish(ctx, ArchivableSubmission, packet, req.Ident, stored); err != nil {
		return a.fail(ctx, ArchivableSubmission, id, err)
	}
	a.logger.InfoContext(ctx, "solved need", "need", ArchivableSubmission, "submission_id", id)
	return nil
}

func (s *ArchiveSolver) render(ctx context.Context, sub *models.Submission, mode render.Mode) (string, error) {
	start := time.Now()
	out, err := s.renderer.Render(ctx, sub, mode)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", mode, err)
	}
	s.archiver.metrics.ObserveRender(mode.String(), time.Since(start))
	return out, nil
}

func (s *ArchiveSolver) request(packet *Packet, kindOf string) (supplier.Request, error) {
	fields, err := packet.Require("søknad_uuid", "ident", "innsendtTidspunkt", "skjemakode")
	if err != nil {
		return supplier.Request{}, err
	}
	id, err := uuid.Parse(fields["søknad_uuid"])
	if err != nil {
		return supplier.Request{}, fmt.Errorf("%w: søknad_uuid: %w", errInvalidMessage, err)
	}
	submittedAt, err := s.parseTime(fields["innsendtTidspunkt"])
	if err != nil {
		return supplier.Request{}, fmt.Errorf("%w: innsendtTidspunkt: %w", errInvalidMessage, err)
	}
	lang, _ := packet.String("dokument_språk")
	language, err := models.ParseLanguage(lang)
	if err != nil {
		return supplier.Request{}, fmt.Errorf("%w: %w", errInvalidMessage, err)
	}

	kind := models.Standard
	switch {
	case kindOf == typeSupplementary:
		kind = models.Supplementary
	case fields["skjemakode"] == formGeneralIntake:
		kind = models.GeneralIntake
	}

	return supplier.Request{
		SubmissionID: id,
		Ident:        fields["ident"],
		SubmittedAt:  submittedAt,
		Language:     language,
		Kind:         kind,
	}, nil
}

// parseTime accepts an offset timestamp or a local one, read as Norwegian time.
func (s *ArchiveSolver) parseTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t, nil
	}
	return time.ParseInLocation(localTimeLayout, v, s.location)
}
