// Package domain defines the case-tracking task types and ports
package domain

import (
	"context"
	"fmt"
)

// Stage and client placeholder applied to every converted publication
const (
	StageNew          = "Nova Atividade"
	ClientPlaceholder = "Cliente à Verificar"
)

// ConvertInput names the publication to convert and the task fields the
// operator supplies
type ConvertInput struct {
	PublicationID int64  `json:"-"`
	Title         string `json:"title" validate:"required"`
	Deadline      string `json:"deadline,omitempty"`
	ResponsibleID int64  `json:"responsible_id" validate:"required"`
}

// Task is a case-tracking record created from a publication
type Task struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Stage         string `json:"stage"`
	ClientName    string `json:"client_name"`
	Deadline      string `json:"deadline,omitempty"`
	ResponsibleID int64  `json:"responsible_id"`
	PublicationID int64  `json:"publication_id"`
	CreatedAt     string `json:"created_at,omitempty"`
}

// ConverterPort turns a publication into a case-tracking task exactly once
type ConverterPort interface {
	Convert(ctx context.Context, in ConvertInput) (Task, error)
}

// Description builds the task body, prefixing the provenance of the source
// publication ahead of its full content
func Description(court, date, content string) string {
	return fmt.Sprintf("[Origem: Publicação %s - %s]\n\n%s", court, date, content)
}
