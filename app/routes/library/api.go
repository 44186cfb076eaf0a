package library

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/routes/common"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/workflow"
)

type acquisitionRequest struct {
	Title  string  `json:"title" validate:"required"`
	Author *string `json:"author,omitempty"`
	ISBN   *string `json:"isbn,omitempty"`
	Copies int     `json:"copies" validate:"required,gt=0"`
	Reason string  `json:"reason,omitempty"`
}

// RequestAcquisition opens an acquisition workflow. The book record only
// exists once cataloging succeeds, so the instance is anchored on a fresh
// acquisition reference.
func RequestAcquisition(c *fiber.Ctx, db *sql.DB) error {
	var req acquisitionRequest
	if err := common.ParseAndValidate(c, &req); err != nil {
		return common.Fail(c, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	data, _ := json.Marshal(fiber.Map{
		"title":  req.Title,
		"author": req.Author,
		"isbn":   req.ISBN,
		"copies": req.Copies,
		"reason": req.Reason,
	})
	inst, err := workflow.Start(tx, workflow.Library, uuid.New().String(), data, common.Actor(c),
		"Acquisition requested: "+req.Title)
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit acquisition request"))
	}
	return common.Created(c, fiber.Map{"workflow": inst}, "Acquisition requested")
}

// GetAcquisition returns an acquisition with its history.
func GetAcquisition(c *fiber.Ctx, db *sql.DB) error {
	inst, err := workflow.GetInstance(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}
	history, err := workflow.History(db, inst.ID)
	if err != nil {
		return common.Fail(c, err)
	}
	return common.OK(c, fiber.Map{"workflow": inst, "history": history}, "")
}

type reviewRequest struct {
	Approved bool   `json:"approved"`
	Notes    string `json:"notes,omitempty"`
}

// ReviewAcquisition approves or rejects the request. Rejection terminates
// the workflow.
func ReviewAcquisition(c *fiber.Ctx, db *sql.DB) error {
	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return common.Fail(c, workflow.Validationf(nil, "invalid request body"))
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	if !req.Approved {
		inst, err := workflow.Reject(tx, workflow.Library, c.Params("id"),
			workflow.StageAcquisitionRequest, common.Actor(c), "Acquisition rejected: "+req.Notes)
		if err != nil {
			return common.Fail(c, err)
		}
		if err := tx.Commit(); err != nil {
			return common.Fail(c, workflow.Storef(err, "failed to commit rejection"))
		}
		return common.OK(c, fiber.Map{"workflow": inst}, "Acquisition rejected")
	}

	data, _ := json.Marshal(fiber.Map{"approved_at": time.Now().Format(time.RFC3339)})
	inst, err := workflow.Advance(tx, workflow.Library, c.Params("id"),
		workflow.StageAcquisitionRequest, data, common.Actor(c), "Acquisition approved: "+req.Notes)
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit review"))
	}
	return common.OK(c, fiber.Map{"workflow": inst}, "Acquisition approved")
}

// CatalogBook creates the book record with an accession number and moves
// the acquisition on.
func CatalogBook(c *fiber.Ctx, db *sql.DB) error {
	inst, err := workflow.GetInstance(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	book, err := insertBookFromData(tx, inst.Data)
	if err != nil {
		return common.Fail(c, err)
	}

	data, _ := json.Marshal(fiber.Map{"book_id": book.ID})
	inst, err = workflow.Advance(tx, workflow.Library, inst.ID, workflow.StageAcquisitionReview,
		data, common.Actor(c), "Book cataloged: "+book.Title)
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit cataloging"))
	}
	return common.OK(c, fiber.Map{"workflow": inst, "book": book}, "Book cataloged")
}

// DistributeBook marks the copies available for borrowing and closes the
// acquisition.
func DistributeBook(c *fiber.Ctx, db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to start transaction"))
	}
	defer tx.Rollback()

	data, _ := json.Marshal(fiber.Map{"distributed_at": time.Now().Format(time.RFC3339)})
	inst, err := workflow.Complete(tx, workflow.Library, c.Params("id"),
		workflow.StageCataloging, data, common.Actor(c), "Book distributed to circulation")
	if err != nil {
		return common.Fail(c, err)
	}

	if err := tx.Commit(); err != nil {
		return common.Fail(c, workflow.Storef(err, "failed to commit distribution"))
	}
	return common.OK(c, fiber.Map{"workflow": inst}, "Acquisition completed")
}

// ListBooks returns the catalog.
func ListBooks(c *fiber.Ctx, db *sql.DB) error {
	books, err := listBooks(db, c.Query("q"))
	if err != nil {
		return common.Fail(c, err)
	}
	return common.OK(c, books, "")
}

type loanRequest struct {
	BookID    string `json:"book_id" validate:"required,uuid"`
	StudentID string `json:"student_id" validate:"required,uuid"`
	Days      int    `json:"days" validate:"gte=0"`
}

// LoanBook lends a copy to a student. The availability decrement and the
// loan row commit together, and a book with no free copies fails cleanly.
func LoanBook(c *fiber.Ctx, db *sql.DB) error {
	var req loanRequest
	if err := common.ParseAndValidate(c, &req); err != nil {
		return common.Fail(c, err)
	}
	if req.Days == 0 {
		req.Days = 14
	}

	loan, err := createLoan(db, &req)
	if err != nil {
		return common.Fail(c, err)
	}
	return common.Created(c, loan, "Book loaned")
}

// ReturnBook closes a loan and frees the copy.
func ReturnBook(c *fiber.Ctx, db *sql.DB) error {
	loan, err := returnLoan(db, c.Params("id"))
	if err != nil {
		return common.Fail(c, err)
	}
	return common.OK(c, loan, "Book returned")
}

// OverdueLoans lists loans past their due date.
func OverdueLoans(c *fiber.Ctx, db *sql.DB) error {
	loans, err := overdueLoans(db)
	if err != nil {
		return common.Fail(c, err)
	}
	return common.OK(c, loans, "")
}
