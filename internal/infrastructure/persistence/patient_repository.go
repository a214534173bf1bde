package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/registry"
	"github.com/labqueue/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var patientSortColumns = map[string]bool{
	"created_at":      true,
	"full_name":       true,
	"document_number": true,
}

// GormPatientRepository implements registry.PatientRepository using GORM
type GormPatientRepository struct {
	db *gorm.DB
}

// NewGormPatientRepository creates a new GormPatientRepository
func NewGormPatientRepository(db *gorm.DB) *GormPatientRepository {
	return &GormPatientRepository{db: db}
}

// FindByID finds a patient by ID
func (r *GormPatientRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.Patient, error) {
	var patient registry.Patient
	if err := r.db.WithContext(ctx).First(&patient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &patient, nil
}

// FindByDocument finds a patient by document number
func (r *GormPatientRepository) FindByDocument(ctx context.Context, documentNumber string) (*registry.Patient, error) {
	var patient registry.Patient
	if err := r.db.WithContext(ctx).
		Where("document_number = ?", registry.NormalizeDocument(documentNumber)).
		First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &patient, nil
}

// FindAll finds all patients matching the filter
func (r *GormPatientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]registry.Patient, error) {
	var patients []registry.Patient
	query := r.applyFilter(r.db.WithContext(ctx).Model(&registry.Patient{}), filter)
	if err := query.Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

// Search finds patients whose name or document matches the term
func (r *GormPatientRepository) Search(ctx context.Context, term string, filter shared.Filter) ([]registry.Patient, error) {
	var patients []registry.Patient
	like := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	query := r.db.WithContext(ctx).Model(&registry.Patient{}).
		Where("LOWER(full_name) LIKE ? OR LOWER(document_number) LIKE ?", like, like)
	query = applySort(query, filter, patientSortColumns)
	query = applyPagination(query, filter)
	if err := query.Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

// Save creates or updates a patient
func (r *GormPatientRepository) Save(ctx context.Context, patient *registry.Patient) error {
	return r.db.WithContext(ctx).Save(patient).Error
}

// Delete removes a patient
func (r *GormPatientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&registry.Patient{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts patients matching the filter
func (r *GormPatientRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&registry.Patient{})
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(document_number) LIKE ?", like, like)
	}
	if active, ok := filter.Filters["is_active"]; ok {
		query = query.Where("is_active = ?", active)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByDocument checks whether a document number is already registered
func (r *GormPatientRepository) ExistsByDocument(ctx context.Context, documentNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&registry.Patient{}).
		Where("document_number = ?", registry.NormalizeDocument(documentNumber)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormPatientRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(document_number) LIKE ?", like, like)
	}
	if active, ok := filter.Filters["is_active"]; ok {
		query = query.Where("is_active = ?", active)
	}
	query = applySort(query, filter, patientSortColumns)
	return applyPagination(query, filter)
}

var _ registry.PatientRepository = (*GormPatientRepository)(nil)
