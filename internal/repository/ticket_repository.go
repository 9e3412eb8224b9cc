package repository

import (
	"context"
	"fmt"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/persistence"
)

// TicketFilter narrows ticket listings. A nil UserID lists every ticket.
type TicketFilter struct {
	UserID *int64
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) (int64, error)
}

type ticketRepository struct {
	store *persistence.Store
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(store *persistence.Store) TicketRepository {
	return &ticketRepository{store: store}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	db, err := r.store.DB(ctx)
	if err != nil {
		return err
	}
	row := ticketToRow(ticket)
	if err := db.Create(&row).Error; err != nil {
		return err
	}
	ticket.ID = row.ID
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	db, err := r.store.DB(ctx)
	if err != nil {
		return nil, err
	}
	var row persistence.TicketRow
	if err := db.Where("id = ?", id).Take(&row).Error; err != nil {
		return nil, err
	}
	return rowToTicket(&row)
}

// List returns tickets newest first; ties on created_at fall back to id.
func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	db, err := r.store.DB(ctx)
	if err != nil {
		return nil, err
	}
	query := db.Model(&persistence.TicketRow{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	var rows []persistence.TicketRow
	if err := query.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]domain.Ticket, 0, len(rows))
	for i := range rows {
		ticket, err := rowToTicket(&rows[i])
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, nil
}

// UpdateStatus overwrites the status column and reports rows affected.
func (r *ticketRepository) UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) (int64, error) {
	db, err := r.store.DB(ctx)
	if err != nil {
		return 0, err
	}
	res := db.Model(&persistence.TicketRow{}).Where("id = ?", id).Update("status", string(status))
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func ticketToRow(t *domain.Ticket) persistence.TicketRow {
	return persistence.TicketRow{
		ID:         t.ID,
		UserID:     t.UserID,
		Name:       t.Name,
		Department: t.Department,
		Issue:      t.Issue,
		Priority:   string(t.Priority),
		Status:     string(t.Status),
		CreatedAt:  domain.FormatTimestamp(t.CreatedAt),
	}
}

func rowToTicket(row *persistence.TicketRow) (*domain.Ticket, error) {
	createdAt, err := domain.ParseTimestamp(row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("ticket %d: bad created_at %q: %w", row.ID, row.CreatedAt, err)
	}
	return &domain.Ticket{
		ID:         row.ID,
		UserID:     row.UserID,
		Name:       row.Name,
		Department: row.Department,
		Issue:      row.Issue,
		Priority:   domain.TicketPriority(row.Priority),
		Status:     domain.TicketStatus(row.Status),
		CreatedAt:  createdAt,
	}, nil
}
