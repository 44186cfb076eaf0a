package models

import "time"

// LibraryBook is a title held by the school library.
type LibraryBook struct {
	ID        string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	Title     string     `json:"title" gorm:"not null" validate:"required"`
	Author    *string    `json:"author,omitempty"`
	ISBN      *string    `json:"isbn,omitempty"`
	Copies    int        `json:"copies" gorm:"default:1" validate:"gte=0"`
	Available int        `json:"available" gorm:"default:1" validate:"gte=0"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}

// BookLoan is a single borrowing of a book by a student.
type BookLoan struct {
	ID         string       `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	BookID     string       `json:"book_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	StudentID  string       `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	LoanedAt   time.Time    `json:"loaned_at" gorm:"autoCreateTime"`
	DueAt      time.Time    `json:"due_at" gorm:"not null"`
	ReturnedAt *time.Time   `json:"returned_at,omitempty"`
	Book       *LibraryBook `json:"book,omitempty" gorm:"foreignKey:BookID;references:ID"`
}

// Overdue reports whether the loan is past due and not yet returned.
func (l *BookLoan) Overdue(now time.Time) bool {
	return l.ReturnedAt == nil && now.After(l.DueAt)
}
