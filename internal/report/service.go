// Package report runs an uploaded or stored document through the
// extraction pipeline: PDF text, lines, located fields, typed record.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/a3tai/loadsheet-reader/internal/crew"
	"github.com/a3tai/loadsheet-reader/internal/loadsheet"
	"github.com/a3tai/loadsheet-reader/internal/pdf"
	"github.com/a3tai/loadsheet-reader/internal/security"
)

// ErrInvalidRequest marks failures caused by the caller's input rather than
// the document or the service.
var ErrInvalidRequest = errors.New("invalid request")

// Options configures a Service
type Options struct {
	MaxFileSize    int64
	Validate       bool   // run pdfcpu validation before text extraction
	DocumentDir    string // root for documents addressed by path
	CrewListPath   string
	DefaultProfile string
	Profiles       loadsheet.Profiles
	Crew           crew.Provider
	Logger         *slog.Logger
}

// Service handles report processing by orchestrating the reader, validator
// and crew lookup.
type Service struct {
	reader         *pdf.Reader
	validator      *pdf.Validator
	pathValidator  *security.PathValidator
	profiles       loadsheet.Profiles
	defaultProfile string
	crew           crew.Provider
	crewListPath   string
	logger         *slog.Logger
}

// NewService creates a report service with all components
func NewService(opts Options) (*Service, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pathValidator, err := security.NewPathValidator(opts.DocumentDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	profiles := opts.Profiles
	if profiles == nil {
		profiles = loadsheet.BuiltinProfiles()
	}
	if _, err := profiles.Get(opts.DefaultProfile); err != nil {
		return nil, fmt.Errorf("default profile: %w", err)
	}

	return &Service{
		reader:         pdf.NewReader(opts.MaxFileSize, opts.Validate, logger),
		validator:      pdf.NewValidator(opts.MaxFileSize),
		pathValidator:  pathValidator,
		profiles:       profiles,
		defaultProfile: opts.DefaultProfile,
		crew:           opts.Crew,
		crewListPath:   opts.CrewListPath,
		logger:         logger,
	}, nil
}

// Process builds the record for an uploaded document
func (s *Service) Process(ctx context.Context, req Request) (*Result, error) {
	if err := s.validator.ValidateUpload(pdf.UploadInfo{Name: req.FileName, Size: int64(len(req.Data))}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	return s.run(ctx, req.Inputs, req.Profile, func() (*pdf.ReadResult, error) {
		return s.reader.Read(req.Data)
	})
}

// ProcessFile builds the record for a document inside the document directory
func (s *Service) ProcessFile(ctx context.Context, req FileRequest) (*Result, error) {
	path, err := s.resolve(req.Path)
	if err != nil {
		return nil, err
	}

	return s.run(ctx, req.Inputs, req.Profile, func() (*pdf.ReadResult, error) {
		return s.reader.ReadFile(path)
	})
}

func (s *Service) run(ctx context.Context, in loadsheet.Inputs, profileName string, read func() (*pdf.ReadResult, error)) (*Result, error) {
	start := time.Now()
	requestID := uuid.New()
	log := s.logger.With("request_id", requestID.String())

	profile, err := s.profile(profileName)
	if err != nil {
		return nil, err
	}

	doc, err := read()
	if err != nil {
		log.Warn("report.read.failed", "error", err)
		return nil, err
	}

	lines := loadsheet.BuildLines(doc.Document)
	built, err := loadsheet.Build(ctx, lines, profile, in, s.crew)
	if err != nil {
		log.Warn("report.build.failed", "profile", profile.Name, "lines", len(lines), "error", err)
		return nil, err
	}

	for _, miss := range built.Misses {
		log.Debug("report.field.unavailable", "locator", miss.Locator, "reason", miss.Reason.String())
	}
	if len(doc.FailedPages) > 0 {
		log.Debug("report.pages.skipped", "pages", doc.FailedPages)
	}

	log.Info("report.ok",
		"profile", profile.Name,
		"pages", doc.Pages,
		"lines", len(lines),
		"misses", len(built.Misses),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	return &Result{
		RequestID:   requestID,
		Profile:     profile.Name,
		Record:      built.Record,
		Misses:      built.Misses,
		Pages:       doc.Pages,
		FailedPages: doc.FailedPages,
		Lines:       len(lines),
	}, nil
}

// Lines returns the line sequence of a stored document, for authoring
// profiles against a new layout.
func (s *Service) Lines(path string) (loadsheet.LineSequence, error) {
	resolved, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	doc, err := s.reader.ReadFile(resolved)
	if err != nil {
		return nil, err
	}
	return loadsheet.BuildLines(doc.Document), nil
}

// CrewOptions returns the crew reference list
func (s *Service) CrewOptions() ([]string, error) {
	if s.crewListPath == "" {
		return []string{}, nil
	}
	return crew.LoadReferenceList(s.crewListPath)
}

// ProfileNames lists the available document profiles
func (s *Service) ProfileNames() []string {
	return s.profiles.Names()
}

// DefaultProfile returns the profile used when a request names none
func (s *Service) DefaultProfile() string {
	if s.defaultProfile == "" {
		return loadsheet.DefaultProfile
	}
	return s.defaultProfile
}

// MaxFileSize returns the upload limit
func (s *Service) MaxFileSize() int64 {
	return s.validator.MaxFileSize()
}

// DocumentDirectory returns the root for documents addressed by path
func (s *Service) DocumentDirectory() string {
	return s.pathValidator.GetConfiguredDirectory()
}

func (s *Service) profile(name string) (loadsheet.Profile, error) {
	if name == "" {
		name = s.defaultProfile
	}
	p, err := s.profiles.Get(name)
	if err != nil {
		return loadsheet.Profile{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return p, nil
}

func (s *Service) resolve(path string) (string, error) {
	resolved, err := s.pathValidator.NormalizePath(path)
	if err != nil {
		return "", fmt.Errorf("%w: security validation failed: %w", ErrInvalidRequest, err)
	}
	return resolved, nil
}
