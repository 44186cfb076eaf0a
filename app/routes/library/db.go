package library

import (
	"database/sql"
	"encoding/json"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/models"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/workflow"
)

// insertBookFromData creates the catalog entry from the acquisition's data
// document.
func insertBookFromData(tx *sql.Tx, data json.RawMessage) (*models.LibraryBook, error) {
	title := ""
	if v, ok := workflow.DataKey(data, "title"); ok {
		title, _ = v.(string)
	}
	if title == "" {
		return nil, workflow.Validationf([]string{"title"}, "acquisition has no title")
	}

	copies := 1
	if v, ok := workflow.DataKey(data, "copies"); ok {
		if f, ok := v.(float64); ok && f > 0 {
			copies = int(f)
		}
	}

	var author, isbn *string
	if v, ok := workflow.DataKey(data, "author"); ok {
		if s, ok := v.(string); ok && s != "" {
			author = &s
		}
	}
	if v, ok := workflow.DataKey(data, "isbn"); ok {
		if s, ok := v.(string); ok && s != "" {
			isbn = &s
		}
	}

	book := &models.LibraryBook{
		Title:     title,
		Author:    author,
		ISBN:      isbn,
		Copies:    copies,
		Available: copies,
	}
	err := tx.QueryRow(`
		INSERT INTO library_books (title, author, isbn, copies, available)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id, created_at`,
		book.Title, book.Author, book.ISBN, book.Copies,
	).Scan(&book.ID, &book.CreatedAt)
	if err != nil {
		return nil, workflow.Storef(err, "failed to catalog book %s", title)
	}
	return book, nil
}

func listBooks(db *sql.DB, search string) ([]*models.LibraryBook, error) {
	rows, err := db.Query(`
		SELECT id, title, author, isbn, copies, available, created_at, deleted_at
		FROM library_books
		WHERE deleted_at IS NULL
		  AND ($1 = '' OR title ILIKE '%' || $1 || '%' OR author ILIKE '%' || $1 || '%')
		ORDER BY title`, search)
	if err != nil {
		return nil, workflow.Storef(err, "failed to list books")
	}
	defer rows.Close()

	books := []*models.LibraryBook{}
	for rows.Next() {
		b := &models.LibraryBook{}
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Copies, &b.Available,
			&b.CreatedAt, &b.DeletedAt); err != nil {
			return nil, workflow.Storef(err, "failed to scan book")
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// createLoan decrements availability and writes the loan in one
// transaction. The guarded update makes two borrowers racing for the last
// copy serialize correctly.
func createLoan(db *sql.DB, req *loanRequest) (*models.BookLoan, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, workflow.Storef(err, "failed to start transaction")
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE library_books
		SET available = available - 1
		WHERE id = $1 AND deleted_at IS NULL AND available > 0`, req.BookID)
	if err != nil {
		return nil, workflow.Storef(err, "failed to reserve book %s", req.BookID)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, workflow.Conflictf("book %s has no available copies", req.BookID)
	}

	loan := &models.BookLoan{BookID: req.BookID, StudentID: req.StudentID}
	err = tx.QueryRow(`
		INSERT INTO book_loans (book_id, student_id, due_at)
		VALUES ($1, $2, NOW() + make_interval(days => $3))
		RETURNING id, loaned_at, due_at`,
		req.BookID, req.StudentID, req.Days,
	).Scan(&loan.ID, &loan.LoanedAt, &loan.DueAt)
	if err != nil {
		return nil, workflow.Storef(err, "failed to create loan")
	}

	if err := tx.Commit(); err != nil {
		return nil, workflow.Storef(err, "failed to commit loan")
	}
	return loan, nil
}

func returnLoan(db *sql.DB, loanID string) (*models.BookLoan, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, workflow.Storef(err, "failed to start transaction")
	}
	defer tx.Rollback()

	loan := &models.BookLoan{}
	err = tx.QueryRow(`
		UPDATE book_loans
		SET returned_at = NOW()
		WHERE id = $1 AND returned_at IS NULL
		RETURNING id, book_id, student_id, loaned_at, due_at, returned_at`, loanID,
	).Scan(&loan.ID, &loan.BookID, &loan.StudentID, &loan.LoanedAt, &loan.DueAt, &loan.ReturnedAt)
	if err == sql.ErrNoRows {
		return nil, workflow.NotFoundf("open loan %s not found", loanID)
	}
	if err != nil {
		return nil, workflow.Storef(err, "failed to close loan %s", loanID)
	}

	if _, err := tx.Exec(`
		UPDATE library_books SET available = LEAST(available + 1, copies) WHERE id = $1`,
		loan.BookID); err != nil {
		return nil, workflow.Storef(err, "failed to release book %s", loan.BookID)
	}

	if err := tx.Commit(); err != nil {
		return nil, workflow.Storef(err, "failed to commit return")
	}
	return loan, nil
}

func overdueLoans(db *sql.DB) ([]*models.BookLoan, error) {
	rows, err := db.Query(`
		SELECT bl.id, bl.book_id, bl.student_id, bl.loaned_at, bl.due_at, bl.returned_at,
		       lb.id, lb.title, lb.author, lb.isbn, lb.copies, lb.available, lb.created_at
		FROM book_loans bl
		JOIN library_books lb ON lb.id = bl.book_id
		WHERE bl.returned_at IS NULL AND bl.due_at < NOW()
		ORDER BY bl.due_at ASC`)
	if err != nil {
		return nil, workflow.Storef(err, "failed to list overdue loans")
	}
	defer rows.Close()

	loans := []*models.BookLoan{}
	for rows.Next() {
		loan := &models.BookLoan{Book: &models.LibraryBook{}}
		if err := rows.Scan(&loan.ID, &loan.BookID, &loan.StudentID, &loan.LoanedAt, &loan.DueAt,
			&loan.ReturnedAt, &loan.Book.ID, &loan.Book.Title, &loan.Book.Author, &loan.Book.ISBN,
			&loan.Book.Copies, &loan.Book.Available, &loan.Book.CreatedAt); err != nil {
			return nil, workflow.Storef(err, "failed to scan overdue loan")
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}
