package registry

import (
	"regexp"
	"strings"
	"time"

	"github.com/labqueue/backend/internal/domain/shared"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Gender values accepted for a patient record
const (
	GenderMale   = "M"
	GenderFemale = "F"
	GenderOther  = "Otro"
)

var (
	documentPattern = regexp.MustCompile(`^[A-Z0-9-]{5,20}$`)
	phonePattern    = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

	titleCaser = cases.Title(language.Spanish)
)

// Patient represents a person registered with the laboratory
type Patient struct {
	shared.BaseAggregateRoot
	DocumentNumber string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	FullName       string    `gorm:"type:varchar(200);not null;index"`
	BirthDate      time.Time `gorm:"type:date;not null"`
	Gender         string    `gorm:"type:varchar(10);not null"`
	Phone          string    `gorm:"type:varchar(20)"`
	Email          string    `gorm:"type:varchar(200)"`
	IsActive       bool      `gorm:"not null;default:true;index"`
}

// TableName returns the database table name
func (Patient) TableName() string {
	return "patients"
}

// NewPatient creates a new patient with normalized identity fields
func NewPatient(documentNumber, fullName string, birthDate time.Time, gender, phone, email string) (*Patient, error) {
	documentNumber = NormalizeDocument(documentNumber)
	if err := validateDocument(documentNumber); err != nil {
		return nil, err
	}

	fullName = normalizeName(fullName)
	if err := validateFullName(fullName); err != nil {
		return nil, err
	}

	if err := validateBirthDate(birthDate); err != nil {
		return nil, err
	}

	if err := validateGender(gender); err != nil {
		return nil, err
	}

	phone = strings.TrimSpace(phone)
	if phone != "" && !phonePattern.MatchString(phone) {
		return nil, shared.NewDomainError("INVALID_PHONE", "Phone must contain 7 to 15 digits")
	}

	email = strings.TrimSpace(strings.ToLower(email))
	if email != "" && !emailPattern.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}

	return &Patient{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DocumentNumber:    documentNumber,
		FullName:          fullName,
		BirthDate:         birthDate,
		Gender:            gender,
		Phone:             phone,
		Email:             email,
		IsActive:          true,
	}, nil
}

// Update modifies the mutable patient fields
func (p *Patient) Update(fullName string, birthDate *time.Time, gender, phone, email string) error {
	if fullName != "" {
		fullName = normalizeName(fullName)
		if err := validateFullName(fullName); err != nil {
			return err
		}
		p.FullName = fullName
	}

	if birthDate != nil {
		if err := validateBirthDate(*birthDate); err != nil {
			return err
		}
		p.BirthDate = *birthDate
	}

	if gender != "" {
		if err := validateGender(gender); err != nil {
			return err
		}
		p.Gender = gender
	}

	if phone != "" {
		phone = strings.TrimSpace(phone)
		if !phonePattern.MatchString(phone) {
			return shared.NewDomainError("INVALID_PHONE", "Phone must contain 7 to 15 digits")
		}
		p.Phone = phone
	}

	if email != "" {
		email = strings.TrimSpace(strings.ToLower(email))
		if !emailPattern.MatchString(email) {
			return shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
		}
		p.Email = email
	}

	p.Touch()
	p.IncrementVersion()
	return nil
}

// Deactivate marks the patient record as inactive
func (p *Patient) Deactivate() {
	if !p.IsActive {
		return
	}
	p.IsActive = false
	p.Touch()
	p.IncrementVersion()
}

// Age returns the patient's age in full years
func (p *Patient) Age() int {
	now := time.Now()
	age := now.Year() - p.BirthDate.Year()
	if now.YearDay() < p.BirthDate.YearDay() {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age
}

// NormalizeDocument uppercases and trims a document number for lookups
func NormalizeDocument(document string) string {
	return strings.ToUpper(strings.TrimSpace(document))
}

func normalizeName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	return titleCaser.String(strings.ToLower(name))
}

func validateDocument(document string) error {
	if !documentPattern.MatchString(document) {
		return shared.NewDomainError("INVALID_DOCUMENT", "Document number must be 5 to 20 alphanumeric characters")
	}
	return nil
}

func validateFullName(name string) error {
	if len(name) < 2 {
		return shared.NewDomainError("INVALID_NAME", "Full name must have at least 2 characters")
	}
	return nil
}

func validateBirthDate(birthDate time.Time) error {
	if birthDate.IsZero() || birthDate.After(time.Now()) {
		return shared.NewDomainError("INVALID_BIRTH_DATE", "Birth date cannot be in the future")
	}
	return nil
}

func validateGender(gender string) error {
	switch gender {
	case GenderMale, GenderFemale, GenderOther:
		return nil
	}
	return shared.NewDomainError("INVALID_GENDER", "Gender must be M, F or Otro")
}
