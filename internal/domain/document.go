package domain

import (
	"fmt"
	"strings"
	"time"
)

// DocumentType classifies a knowledge base article for the admin view.
type DocumentType string

const (
	DocumentTypeFAQ         DocumentType = "FAQ"
	DocumentTypeTutorial    DocumentType = "Tutorial"
	DocumentTypeProductInfo DocumentType = "Product Info"
	DocumentTypeTechnical   DocumentType = "Technical"
	DocumentTypeSupport     DocumentType = "Support"
)

// DocumentTypes lists every accepted document type.
var DocumentTypes = []DocumentType{
	DocumentTypeFAQ,
	DocumentTypeTutorial,
	DocumentTypeProductInfo,
	DocumentTypeTechnical,
	DocumentTypeSupport,
}

// IsValid reports whether t is one of DocumentTypes.
func (t DocumentType) IsValid() bool {
	for _, v := range DocumentTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Document is one knowledge base article. Documents are handled as values;
// an edit produces a new Document rather than mutating a shared one.
type Document struct {
	ID        int64
	Title     string
	Content   string
	Type      DocumentType
	UpdatedAt time.Time
}

// Matches reports whether the lower-cased needle occurs in the title or content.
func (d Document) Matches(lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(d.Title), lowerNeedle) ||
		strings.Contains(strings.ToLower(d.Content), lowerNeedle)
}

// ValidateDocument checks the fields an admin must supply.
func ValidateDocument(d *Document) error {
	if d == nil {
		return fmt.Errorf("document cannot be nil")
	}
	if strings.TrimSpace(d.Title) == "" {
		return NewDomainError(ErrCodeValidation, "title is required")
	}
	if strings.TrimSpace(d.Content) == "" {
		return NewDomainError(ErrCodeValidation, "content is required")
	}
	if !d.Type.IsValid() {
		return ErrInvalidDocumentType
	}
	return nil
}
