package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/tutorhub/internal/model"
	"github.com/tutorhub/tutorhub/internal/repository"
)

// MaxDocumentSize caps uploads at 10 MiB.
const MaxDocumentSize = 10 << 20

type DocumentService struct {
	documentRepo *repository.DocumentRepository
	studentRepo  *repository.StudentRepository
	logger       *zap.Logger
}

func NewDocumentService(
	documentRepo *repository.DocumentRepository,
	studentRepo *repository.StudentRepository,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		documentRepo: documentRepo,
		studentRepo:  studentRepo,
		logger:       logger,
	}
}

// List returns the metadata of documents visible to the user.
func (s *DocumentService) List(ctx context.Context, userID uuid.UUID) ([]*model.Document, error) {
	documents, err := s.documentRepo.ListVisible(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return documents, nil
}

// Upload validates and stores a document. Attaching it to a student
// shares it with the student's tutor and parent.
func (s *DocumentService) Upload(ctx context.Context, doc *model.Document) (*model.Document, error) {
	if strings.TrimSpace(doc.Name) == "" {
		return nil, fmt.Errorf("%w: document name is required", ErrValidation)
	}
	if len(doc.Data) == 0 {
		return nil, fmt.Errorf("%w: document is empty", ErrValidation)
	}
	if len(doc.Data) > MaxDocumentSize {
		return nil, fmt.Errorf("%w: document exceeds the 10 MiB limit", ErrValidation)
	}
	if doc.ContentType == "" {
		doc.ContentType = "application/octet-stream"
	}
	doc.SizeBytes = int64(len(doc.Data))

	if doc.StudentID != nil {
		student, err := s.studentRepo.GetByID(ctx, *doc.StudentID)
		if err != nil {
			return nil, fmt.Errorf("get student: %w", err)
		}
		if student == nil {
			return nil, fmt.Errorf("%w: student", ErrNotFound)
		}
	}

	if err := s.documentRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	s.logger.Info("Document uploaded",
		zap.String("document_id", doc.ID.String()),
		zap.String("owner_id", doc.OwnerID.String()),
		zap.Int64("size_bytes", doc.SizeBytes))

	return doc, nil
}

// Download returns the document with content; the caller must be the
// owner, an admin, or the tutor/parent of the attached student.
func (s *DocumentService) Download(ctx context.Context, id, userID uuid.UUID, role model.Role) (*model.Document, error) {
	doc, err := s.documentRepo.GetWithData(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: document", ErrNotFound)
	}

	if role == model.RoleAdmin || doc.OwnerID == userID {
		return doc, nil
	}
	if doc.StudentID != nil {
		student, err := s.studentRepo.GetByID(ctx, *doc.StudentID)
		if err != nil {
			return nil, fmt.Errorf("get student: %w", err)
		}
		if student != nil {
			assigned := student.TutorID != nil && *student.TutorID == userID
			if assigned || student.ParentID == userID {
				return doc, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: document not shared with you", ErrForbidden)
}

// Delete removes the caller's document.
func (s *DocumentService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	if err := s.documentRepo.Delete(ctx, id, ownerID); err != nil {
		return notFoundOr(err, "document", "delete document")
	}

	s.logger.Info("Document deleted", zap.String("document_id", id.String()))
	return nil
}
