package service

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/behavior-rubric/internal/models"
	appErrors "github.com/noah-isme/behavior-rubric/pkg/errors"
)

// RosterService manages the student list. Removal hides a student from the
// roster but never purges their records.
type RosterService struct {
	store     snapshotStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRosterService constructs the service.
func NewRosterService(store snapshotStore, validate *validator.Validate, logger *zap.Logger) *RosterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{store: store, validator: validate, logger: logger}
}

// List returns the current roster.
func (s *RosterService) List() []models.Student {
	var students []models.Student
	s.store.View(func(snap *models.Snapshot) {
		students = append([]models.Student(nil), snap.Students...)
	})
	return students
}

// StudentRequest names a student.
type StudentRequest struct {
	Name string `json:"name" validate:"required"`
}

// Add registers a new student with a fresh id.
func (s *RosterService) Add(req StudentRequest) (models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Student{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name is required")
	}
	student := models.Student{ID: uuid.NewString(), Name: req.Name}
	err := s.store.Update(func(snap *models.Snapshot) error {
		snap.Students = append(snap.Students, student)
		return nil
	})
	if err != nil {
		return models.Student{}, err
	}
	return student, nil
}

// Rename updates a student's display name.
func (s *RosterService) Rename(id string, req StudentRequest) (models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Student{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name is required")
	}
	var student models.Student
	err := s.store.Update(func(snap *models.Snapshot) error {
		for i := range snap.Students {
			if snap.Students[i].ID == id {
				snap.Students[i].Name = req.Name
				student = snap.Students[i]
				return nil
			}
		}
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	})
	if err != nil {
		return models.Student{}, err
	}
	return student, nil
}

// Remove takes a student off the roster. The caller must pass confirm=true;
// without it nothing is mutated and the confirmation error is returned. The
// student's records stay in the snapshot.
func (s *RosterService) Remove(id string, confirm bool) error {
	if !confirm {
		return appErrors.Clone(appErrors.ErrConfirmationRequired, "removing a student requires confirm=true")
	}
	return s.store.Update(func(snap *models.Snapshot) error {
		for i := range snap.Students {
			if snap.Students[i].ID == id {
				snap.Students = append(snap.Students[:i], snap.Students[i+1:]...)
				if snap.StudentID == id {
					snap.StudentID = ""
				}
				s.logger.Info("student removed", zap.String("student_id", id))
				return nil
			}
		}
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	})
}
