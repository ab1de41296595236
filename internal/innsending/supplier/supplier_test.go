package supplier

//go:generate mockgen -source=supplier.go -destination=mocks/mocks.go -package=mocks SubmissionSource,PersonSource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"soknadpdf/internal/innsending/clients"
	"soknadpdf/internal/innsending/supplier/mocks"
	"soknadpdf/internal/platform/metrics"
	"soknadpdf/internal/submission/docerr"
	"soknadpdf/internal/submission/models"
	"soknadpdf/pkg/platform/circuit"
	"soknadpdf/pkg/platform/sentinel"
)

// =============================================================================
// Supplier Test Suite
// =============================================================================
// Justification for unit tests: the supplier is the only place where the four
// inputs meet. Tests verify which inputs each kind fetches, that any tree failure
// aborts, that a person lookup failure degrades the info block, and that personal
// data only reaches the secure log.

type SupplierSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	submissions *mocks.MockSubmissionSource
	persons     *mocks.MockPersonSource
	logs        *bytes.Buffer
	secureLogs  *bytes.Buffer
	supplier    *Supplier

	answers      []byte
	texts        []byte
	requirements []byte
	request      Request
}

func TestSupplierSuite(t *testing.T) {
	suite.Run(t, new(SupplierSuite))
}

func (s *SupplierSuite) SetupSuite() {
	var err error
	s.answers, err = os.ReadFile("../../submission/testdata/fakta.json")
	s.Require().NoError(err)
	s.texts, err = os.ReadFile("../../submission/testdata/catalog.json")
	s.Require().NoError(err)
	s.requirements, err = os.ReadFile("../../submission/testdata/dokumentasjonskrav.json")
	s.Require().NoError(err)
	s.request = Request{
		SubmissionID: uuid.MustParse("4f2ad3c8-6e1b-4d7a-9c35-0b8e5f1a2d64"),
		Ident:        "12345678910",
		SubmittedAt:  time.Date(2024, 1, 2, 12, 4, 0, 0, time.UTC),
		Language:     models.Bokmal,
		Kind:         models.Standard,
	}
}

func (s *SupplierSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.submissions = mocks.NewMockSubmissionSource(s.ctrl)
	s.persons = mocks.NewMockPersonSource(s.ctrl)
	s.logs = &bytes.Buffer{}
	s.secureLogs = &bytes.Buffer{}
	var err error
	s.supplier, err = New(s.submissions, s.persons,
		WithLogger(slog.New(slog.NewJSONHandler(s.logs, nil))),
		WithSecureLogger(slog.New(slog.NewJSONHandler(s.secureLogs, nil))),
	)
	s.Require().NoError(err)
}

func (s *SupplierSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *SupplierSuite) expectTrees() {
	id := s.request.SubmissionID
	s.submissions.EXPECT().Answers(gomock.Any(), id).Return(s.answers, nil)
	s.submissions.EXPECT().Texts(gomock.Any(), id).Return(s.texts, nil)
	s.submissions.EXPECT().Requirements(gomock.Any(), id).Return(s.requirements, nil)
}

// =============================================================================
// Constructor Tests (Invariant Enforcement)
// =============================================================================

func (s *SupplierSuite) TestNew() {
	s.Run("nil submission source returns error", func() {
		_, err := New(nil, s.persons)
		s.EqualError(err, "submission source is required")
	})

	s.Run("nil person source returns error", func() {
		_, err := New(s.submissions, nil)
		s.EqualError(err, "person source is required")
	})

	s.Run("options are applied", func() {
		m := metrics.New(prometheus.NewRegistry())
		sup, err := New(s.submissions, s.persons, WithMaxDepth(4), WithMetrics(m))
		s.Require().NoError(err)
		s.Equal(4, sup.maxDepth)
		s.Same(m, sup.metrics)
	})
}

// =============================================================================
// Submission Tests
// =============================================================================

func (s *SupplierSuite) TestStandardSubmission() {
	s.expectTrees()
	s.persons.EXPECT().Person(gomock.Any(), "12345678910").
		Return(clients.Person{Name: "Ola Nordmann", Address: "Storgata 1, 0155"}, nil)

	sub, err := s.supplier.Submission(context.Background(), s.request)
	s.Require().NoError(err)

	s.Equal(models.Standard, sub.Kind)
	s.Len(sub.Sections, 2)
	s.Len(sub.DocumentationRequirements, 3)

	ib, ok := sub.InfoBlock()
	s.Require().True(ok)
	s.Equal(models.InfoBlock{
		SSN:         "12345678910",
		SubmittedAt: s.request.SubmittedAt,
		Name:        "Ola Nordmann",
		Address:     "Storgata 1, 0155",
	}, ib)
}

func (s *SupplierSuite) TestGeneralIntake() {
	s.expectTrees()
	s.persons.EXPECT().Person(gomock.Any(), gomock.Any()).Return(clients.Person{}, nil)

	req := s.request
	req.Kind = models.GeneralIntake
	sub, err := s.supplier.Submission(context.Background(), req)
	s.Require().NoError(err)
	s.Equal(models.GeneralIntake, sub.Kind)
}

func (s *SupplierSuite) TestSupplementaryDoesNotFetchAnswers() {
	id := s.request.SubmissionID
	s.submissions.EXPECT().Texts(gomock.Any(), id).Return(s.texts, nil)
	s.submissions.EXPECT().Requirements(gomock.Any(), id).Return(s.requirements, nil)
	s.persons.EXPECT().Person(gomock.Any(), gomock.Any()).Return(clients.Person{}, nil)

	req := s.request
	req.Kind = models.Supplementary
	sub, err := s.supplier.Submission(context.Background(), req)
	s.Require().NoError(err)
	s.Empty(sub.Sections)
	s.Len(sub.DocumentationRequirements, 3)
}

func (s *SupplierSuite) TestTreeFailureAborts() {
	id := s.request.SubmissionID
	s.submissions.EXPECT().Answers(gomock.Any(), id).Return(s.answers, nil).AnyTimes()
	s.submissions.EXPECT().Texts(gomock.Any(), id).Return(nil, fmt.Errorf("fetch text catalog: %w", sentinel.ErrUnavailable))
	s.submissions.EXPECT().Requirements(gomock.Any(), id).Return(s.requirements, nil).AnyTimes()
	s.persons.EXPECT().Person(gomock.Any(), gomock.Any()).Return(clients.Person{}, nil).AnyTimes()

	_, err := s.supplier.Submission(context.Background(), s.request)
	s.Require().Error(err)
	s.ErrorIs(err, sentinel.ErrUnavailable)
	s.Contains(err.Error(), "fetch submission inputs")
}

func (s *SupplierSuite) TestPersonLookupFailureDegrades() {
	s.expectTrees()
	s.persons.EXPECT().Person(gomock.Any(), "12345678910").Return(clients.Person{}, errors.New("pdl down"))

	sub, err := s.supplier.Submission(context.Background(), s.request)
	s.Require().NoError(err)

	ib, ok := sub.InfoBlock()
	s.Require().True(ok)
	s.Equal("12345678910", ib.SSN)
	s.Empty(ib.Name)
	s.Empty(ib.Address)

	s.Contains(s.logs.String(), "person lookup failed")
	s.NotContains(s.logs.String(), "12345678910")
	s.Contains(s.secureLogs.String(), "12345678910")
}

func (s *SupplierSuite) TestRepeatedPersonFailuresOpenBreaker() {
	breaker := circuit.New("person", circuit.WithFailureThreshold(2), circuit.WithSuccessThreshold(1))
	sup, err := New(s.submissions, s.persons,
		WithLogger(slog.New(slog.NewJSONHandler(s.logs, nil))),
		WithPersonBreaker(breaker),
	)
	s.Require().NoError(err)

	for range 2 {
		s.expectTrees()
		s.persons.EXPECT().Person(gomock.Any(), gomock.Any()).Return(clients.Person{}, errors.New("pdl down"))
		_, err := sup.Submission(context.Background(), s.request)
		s.Require().NoError(err)
	}
	s.True(breaker.IsOpen())
	s.Contains(s.logs.String(), "person lookups keep failing")
	err = sup.Health(context.Background())
	s.ErrorIs(err, sentinel.ErrUnavailable)
	s.ErrorContains(err, "person lookups keep failing")

	s.expectTrees()
	s.persons.EXPECT().Person(gomock.Any(), gomock.Any()).Return(clients.Person{Name: "Ola Nordmann"}, nil)
	_, err = sup.Submission(context.Background(), s.request)
	s.Require().NoError(err)
	s.False(breaker.IsOpen())
	s.Contains(s.logs.String(), "person lookups recovered")
	s.NoError(sup.Health(context.Background()))
}

func (s *SupplierSuite) TestCatalogSizeIsLoggedAtDebug() {
	logs := &bytes.Buffer{}
	sup, err := New(s.submissions, s.persons,
		WithLogger(slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
	)
	s.Require().NoError(err)

	s.expectTrees()
	s.persons.EXPECT().Person(gomock.Any(), gomock.Any()).Return(clients.Person{Name: "Ola Nordmann"}, nil)
	_, err = sup.Submission(context.Background(), s.request)
	s.Require().NoError(err)

	s.Contains(logs.String(), `"msg":"text catalog built"`)
	s.Contains(logs.String(), `"entries":33`)
	s.Contains(logs.String(), `"collisions":0`)
}

func (s *SupplierSuite) TestBuildFailurePropagates() {
	id := s.request.SubmissionID
	s.submissions.EXPECT().Answers(gomock.Any(), id).Return(s.answers, nil)
	s.submissions.EXPECT().Texts(gomock.Any(), id).Return([]byte(`{"sanityTexts":`), nil)
	s.submissions.EXPECT().Requirements(gomock.Any(), id).Return(s.requirements, nil)
	s.persons.EXPECT().Person(gomock.Any(), gomock.Any()).Return(clients.Person{}, nil)

	_, err := s.supplier.Submission(context.Background(), s.request)
	s.True(docerr.Has(err, docerr.CatalogParse))
}

func (s *SupplierSuite) TestBuildDurationIsObserved() {
	reg := prometheus.NewRegistry()
	sup, err := New(s.submissions, s.persons,
		WithMetrics(metrics.New(reg)),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	s.Require().NoError(err)
	s.expectTrees()
	s.persons.EXPECT().Person(gomock.Any(), gomock.Any()).Return(clients.Person{}, nil)

	_, err = sup.Submission(context.Background(), s.request)
	s.Require().NoError(err)

	count, err := promtestutil.GatherAndCount(reg, "soknadpdf_build_duration_seconds")
	s.Require().NoError(err)
	s.Equal(1, count)
}
