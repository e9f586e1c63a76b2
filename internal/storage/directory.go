package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Houda-El-Bekkari/ContactAgency/internal/models"
)

// ListAgencies возвращает агентства, отсортированные по названию.
func (s *Storage) ListAgencies(ctx context.Context, limit int) ([]*models.Agency, error) {
	const op = "storage.ListAgencies"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, state, city, postal_code, phone, email
			  FROM agencies
			  ORDER BY name ASC
			  LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var agencies []*models.Agency
	for rows.Next() {
		a := &models.Agency{}
		if err := rows.Scan(&a.ID, &a.Name, &a.State, &a.City, &a.PostalCode, &a.Phone, &a.Email); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		agencies = append(agencies, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return agencies, nil
}

// ListContacts возвращает страницу контактов с названием и регионом
// агентства, отсортированную по имени.
func (s *Storage) ListContacts(ctx context.Context, limit, offset int) ([]*models.Contact, error) {
	const op = "storage.ListContacts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT c.id, c.agency_id, c.first_name, c.last_name, c.position,
			      c.email, c.phone, a.name, a.state
			  FROM contacts c
			  JOIN agencies a ON a.id = c.agency_id
			  ORDER BY c.first_name ASC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var contacts []*models.Contact
	for rows.Next() {
		c := &models.Contact{}
		if err := rows.Scan(&c.ID, &c.AgencyID, &c.FirstName, &c.LastName, &c.Position,
			&c.Email, &c.Phone, &c.AgencyName, &c.AgencyState); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return contacts, nil
}

// GetContact возвращает контакт по идентификатору.
func (s *Storage) GetContact(ctx context.Context, id string) (*models.Contact, error) {
	const op = "storage.GetContact"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT c.id, c.agency_id, c.first_name, c.last_name, c.position,
			      c.email, c.phone, a.name, a.state
			  FROM contacts c
			  JOIN agencies a ON a.id = c.agency_id
			  WHERE c.id = $1`
	c := &models.Contact{}
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&c.ID, &c.AgencyID, &c.FirstName, &c.LastName, &c.Position,
		&c.Email, &c.Phone, &c.AgencyName, &c.AgencyState); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidUUID(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrContactNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}
