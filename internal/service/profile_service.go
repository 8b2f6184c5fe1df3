package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/storage"
)

const (
	msgStudentNotFound     = "Student not found"
	msgGuardianNotFound    = "Guardian not found"
	msgStudentPageFailed   = "Error loading student page"
	msgStudentInfoFailed   = "Error loading student information"
	msgStudentReportFailed = "Error loading student reports"
	msgTimetableFailed     = "Error loading the timetable"
	msgGuardianInfoFailed  = "Error loading guardian information"
	msgChildrenFailed      = "Error loading students"

	reportSignConcurrency = 4
)

type profileStudentReader interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	FindBehaviour(ctx context.Context, id int64) (*models.StudentBehaviour, error)
	ListByGuardianEmail(ctx context.Context, email string) ([]models.StudentSummary, error)
}

type profileGuardianReader interface {
	FindByID(ctx context.Context, id int64) (*models.Guardian, error)
	FindByStudent(ctx context.Context, studentID int64) (*models.GuardianLink, error)
	FindEmailByID(ctx context.Context, id int64) (string, error)
}

type academicReader interface {
	AcademicYearByID(ctx context.Context, id int64) (*models.AcademicYear, error)
	HouseByID(ctx context.Context, id int64) (*models.House, error)
	TeachersByStudent(ctx context.Context, studentID int64) ([]models.Teacher, error)
	TutorByID(ctx context.Context, id int64) (*models.Tutor, error)
}

type reportReader interface {
	ListByStudent(ctx context.Context, studentID int64) ([]models.Report, error)
}

type linkSigner interface {
	Sign(ctx context.Context, path string, purpose storage.Purpose) *string
}

// ProfileService assembles the student and guardian composites.
//
// Every operation resolves its primary row first; absence is a 404 and any other
// failure is a 500 with a fixed message. Ancillary lookups then run concurrently,
// each falling back to its own default. Signed links degrade to nil except for
// report documents, where one failure fails the whole operation.
type ProfileService struct {
	students  profileStudentReader
	guardians profileGuardianReader
	academic  academicReader
	reports   reportReader
	links     linkSigner
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewProfileService constructs a ProfileService. cache and metrics may be nil.
func NewProfileService(
	students profileStudentReader,
	guardians profileGuardianReader,
	academic academicReader,
	reports reportReader,
	links linkSigner,
	cache *CacheService,
	metrics *MetricsService,
	logger *zap.Logger,
) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{
		students:  students,
		guardians: guardians,
		academic:  academic,
		reports:   reports,
		links:     links,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
	}
}

// lookup is one independent ancillary task. run writes its own result slot.
type lookup struct {
	name string
	run  func(ctx context.Context) error
}

// settle runs every lookup to completion and logs the ones that failed.
// No lookup's failure cancels or alters another.
func (s *ProfileService) settle(ctx context.Context, subject zap.Field, lookups ...lookup) {
	var g errgroup.Group
	for _, l := range lookups {
		l := l
		g.Go(func() error {
			if err := l.run(ctx); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					s.logger.Debug("ancillary lookup empty", subject, zap.String("lookup", l.name))
					return nil
				}
				s.metrics.RecordDegradedLookup(l.name)
				s.logger.Warn("ancillary lookup failed", subject, zap.String("lookup", l.name), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (s *ProfileService) primaryFailure(err error, notFound, failed string, subject zap.Field) error {
	return primaryError(s.logger, err, notFound, failed, subject)
}

// primaryError maps a primary-row failure to a 404 or a 500 with a fixed message.
// Backend detail is logged and kept only as the wrapped cause.
func primaryError(logger *zap.Logger, err error, notFound, failed string, subject zap.Field) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	logger.Error(failed, subject, zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, failed)
}

func (s *ProfileService) guardianLookup(studentID int64, id **int64, name *string) lookup {
	return lookup{name: "guardian", run: func(ctx context.Context) error {
		link, err := s.guardians.FindByStudent(ctx, studentID)
		if err != nil {
			return err
		}
		gid := link.ID
		*id = &gid
		if name != nil && link.Name != nil && *link.Name != "" {
			*name = *link.Name
		}
		return nil
	}}
}

func (s *ProfileService) signLookup(name string, path *string, purpose storage.Purpose, out **string) lookup {
	return lookup{name: name, run: func(ctx context.Context) error {
		*out = s.links.Sign(ctx, deref(path), purpose)
		return nil
	}}
}

// StudentHome builds the home composite: student, photo link and guardian linkage.
func (s *ProfileService) StudentHome(ctx context.Context, studentID int64) (*dto.StudentHome, error) {
	subject := zap.Int64("student_id", studentID)
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, s.primaryFailure(err, msgStudentNotFound, msgStudentPageFailed, subject)
	}

	var (
		guardianID   *int64
		guardianName = dto.DefaultGuardianName
		photo        *string
	)
	s.settle(ctx, subject,
		s.guardianLookup(student.ID, &guardianID, &guardianName),
		s.signLookup("photo", student.Photo, storage.PurposeImage, &photo),
	)

	return &dto.StudentHome{
		Student:      dto.StudentProfile{Student: *student, SignedPhotoURL: photo},
		GuardianID:   guardianID,
		GuardianName: guardianName,
		ActivePage:   dto.PageHome,
	}, nil
}

// StudentAbout builds the about composite with academic year, house, teachers and tutor.
func (s *ProfileService) StudentAbout(ctx context.Context, studentID int64) (*dto.StudentAbout, error) {
	subject := zap.Int64("student_id", studentID)
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, s.primaryFailure(err, msgStudentNotFound, msgStudentInfoFailed, subject)
	}

	about := &dto.StudentAbout{
		Form:       dto.NotFoundLabel,
		YearCode:   dto.NotFoundLabel,
		HouseName:  dto.NotFoundLabel,
		Teachers:   []models.Teacher{},
		ActivePage: dto.PageAbout,
	}
	var photo *string

	lookups := []lookup{
		s.guardianLookup(student.ID, &about.GuardianID, nil),
		s.signLookup("photo", student.Photo, storage.PurposeImage, &photo),
		{name: "teachers", run: func(ctx context.Context) error {
			teachers, err := s.academic.TeachersByStudent(ctx, student.ID)
			if err != nil {
				return err
			}
			if teachers != nil {
				about.Teachers = teachers
			}
			return nil
		}},
	}
	if student.AcademicYearID != nil {
		yearID := *student.AcademicYearID
		lookups = append(lookups, lookup{name: "academic_year", run: func(ctx context.Context) error {
			year, err := s.academicYear(ctx, yearID)
			if err != nil {
				return err
			}
			if year.Form != "" {
				about.Form = year.Form
			}
			if year.YearCode != "" {
				about.YearCode = year.YearCode
			}
			return nil
		}})
	}
	if student.HouseID != nil {
		houseID := *student.HouseID
		lookups = append(lookups, lookup{name: "house", run: func(ctx context.Context) error {
			house, err := s.house(ctx, houseID)
			if err != nil {
				return err
			}
			if house.Name != "" {
				about.HouseName = house.Name
			}
			return nil
		}})
	}
	if student.TutorID != nil {
		tutorID := *student.TutorID
		lookups = append(lookups, lookup{name: "tutor", run: func(ctx context.Context) error {
			tutor, err := s.academic.TutorByID(ctx, tutorID)
			if err != nil {
				return err
			}
			about.Tutor = tutor
			return nil
		}})
	}
	s.settle(ctx, subject, lookups...)

	about.Student = dto.StudentProfile{Student: *student, SignedPhotoURL: photo}
	return about, nil
}

// StudentReports builds the reports composite. Any report whose document cannot be
// signed fails the whole operation once every signing attempt has settled.
func (s *ProfileService) StudentReports(ctx context.Context, studentID int64) (*dto.StudentReports, error) {
	subject := zap.Int64("student_id", studentID)
	student, err := s.students.FindBehaviour(ctx, studentID)
	if err != nil {
		return nil, s.primaryFailure(err, msgStudentNotFound, msgStudentReportFailed, subject)
	}

	var (
		guardianID *int64
		photo      *string
		reports    = []models.Report{}
	)
	s.settle(ctx, subject,
		s.guardianLookup(student.ID, &guardianID, nil),
		s.signLookup("photo", student.Photo, storage.PurposeImage, &photo),
		lookup{name: "reports", run: func(ctx context.Context) error {
			rows, err := s.reports.ListByStudent(ctx, student.ID)
			if err != nil {
				return err
			}
			if rows != nil {
				reports = rows
			}
			return nil
		}},
	)

	links := make([]*string, len(reports))
	var g errgroup.Group
	g.SetLimit(reportSignConcurrency)
	for i := range reports {
		i := i
		g.Go(func() error {
			links[i] = s.links.Sign(ctx, ReportKey(reports[i].FileURL), storage.PurposeDocument)
			return nil
		})
	}
	_ = g.Wait()

	signed := make([]dto.ReportLink, 0, len(reports))
	var missing []string
	for i, report := range reports {
		if links[i] == nil {
			missing = append(missing, report.FileName)
			continue
		}
		signed = append(signed, dto.ReportLink{
			Quarter:  report.Quarter,
			Year:     report.Year,
			FileName: report.FileName,
			FileURL:  *links[i],
		})
	}
	if len(missing) > 0 {
		s.logger.Error("report documents unavailable", subject, zap.Strings("files", missing))
		return nil, appErrors.Clone(appErrors.ErrReportLinkUnavailable, msgStudentReportFailed)
	}

	return &dto.StudentReports{
		Student:    dto.ReportStudent{StudentBehaviour: *student, SignedPhotoURL: photo},
		Reports:    signed,
		GuardianID: guardianID,
		ActivePage: dto.PageReports,
	}, nil
}

// StudentTimetable builds the timetable composite with photo and timetable links.
func (s *ProfileService) StudentTimetable(ctx context.Context, studentID int64) (*dto.StudentTimetable, error) {
	subject := zap.Int64("student_id", studentID)
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, s.primaryFailure(err, msgStudentNotFound, msgTimetableFailed, subject)
	}

	var (
		guardianID *int64
		photo      *string
		timetable  *string
	)
	timetableKey := TimetableKey(deref(student.Timetable))
	s.settle(ctx, subject,
		s.guardianLookup(student.ID, &guardianID, nil),
		s.signLookup("photo", student.Photo, storage.PurposeImage, &photo),
		s.signLookup("timetable", &timetableKey, storage.PurposeImage, &timetable),
	)

	return &dto.StudentTimetable{
		Student: dto.TimetableStudent{
			Student:             *student,
			SignedPhotoURL:      photo,
			SignedTimetablesURL: timetable,
		},
		GuardianID: guardianID,
		ActivePage: dto.PageTimetable,
	}, nil
}

// GuardianInfo builds the personal-information composite for a guardian and their student.
func (s *ProfileService) GuardianInfo(ctx context.Context, guardianID int64) (*dto.GuardianInfo, error) {
	subject := zap.Int64("guardian_id", guardianID)
	guardian, err := s.guardians.FindByID(ctx, guardianID)
	if err != nil {
		return nil, s.primaryFailure(err, msgGuardianNotFound, msgGuardianInfoFailed, subject)
	}
	if guardian.StudentID == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, msgStudentNotFound)
	}

	student, err := s.students.FindByID(ctx, *guardian.StudentID)
	if err != nil {
		return nil, s.primaryFailure(err, msgStudentNotFound, msgGuardianInfoFailed, subject)
	}

	return &dto.GuardianInfo{
		Guardian: *guardian,
		Student: dto.StudentProfile{
			Student:        *student,
			SignedPhotoURL: s.links.Sign(ctx, deref(student.Photo), storage.PurposeImage),
		},
		GuardianID: guardian.ID,
		ActivePage: dto.PagePI,
	}, nil
}

// GuardianChildren lists every student sharing the guardian's login email.
// An unknown guardian yields an empty list rather than an error.
func (s *ProfileService) GuardianChildren(ctx context.Context, guardianID int64) (*dto.GuardianChildren, error) {
	subject := zap.Int64("guardian_id", guardianID)
	email, err := s.guardians.FindEmailByID(ctx, guardianID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &dto.GuardianChildren{Students: []dto.ChildSummary{}}, nil
		}
		return nil, s.primaryFailure(err, msgGuardianNotFound, msgChildrenFailed, subject)
	}

	rows, err := s.students.ListByGuardianEmail(ctx, email)
	if err != nil {
		return nil, s.primaryFailure(err, msgGuardianNotFound, msgChildrenFailed, subject)
	}

	children := make([]dto.ChildSummary, len(rows))
	var g errgroup.Group
	g.SetLimit(reportSignConcurrency)
	for i := range rows {
		i := i
		g.Go(func() error {
			children[i] = dto.ChildSummary{
				StudentSummary: rows[i],
				SignedPhotoURL: s.links.Sign(ctx, deref(rows[i].Photo), storage.PurposeImage),
			}
			return nil
		})
	}
	_ = g.Wait()

	return &dto.GuardianChildren{Students: children}, nil
}

func (s *ProfileService) academicYear(ctx context.Context, id int64) (*models.AcademicYear, error) {
	return Remember(ctx, s.cache, referenceKey("academic_year", id), func(ctx context.Context) (*models.AcademicYear, error) {
		return s.academic.AcademicYearByID(ctx, id)
	})
}

func (s *ProfileService) house(ctx context.Context, id int64) (*models.House, error) {
	return Remember(ctx, s.cache, referenceKey("house", id), func(ctx context.Context) (*models.House, error) {
		return s.academic.HouseByID(ctx, id)
	})
}

func referenceKey(table string, id int64) string {
	return "portal:" + table + ":" + strconv.FormatInt(id, 10)
}

// ReportKey converts a stored report path into a documents-bucket key:
// leading slashes are removed, then a single "pdfs/" folder prefix.
func ReportKey(raw string) string {
	key := strings.TrimLeft(raw, "/")
	return strings.TrimPrefix(key, "pdfs/")
}

// TimetableKey strips the "images/" folder prefix from a stored timetable path.
func TimetableKey(raw string) string {
	return strings.TrimPrefix(raw, "images/")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
