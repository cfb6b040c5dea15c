package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookswap/bookswap/internal/domain/book"
)

const bookColumns = `id, book_id, owner_id, title, author, genre, condition, available, created_at, updated_at`

// BookRepository implements book.Repository.
type BookRepository struct {
	pool *pgxpool.Pool
}

func NewBookRepository(pool *pgxpool.Pool) *BookRepository {
	return &BookRepository{pool: pool}
}

func (r *BookRepository) Create(ctx context.Context, b *book.Book) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO books (book_id, owner_id, title, author, genre, condition, available, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, b.BookID, b.OwnerID, b.Title, b.Author, b.Genre, b.Condition, b.Available, b.CreatedAt, b.UpdatedAt)
	return err
}

func (r *BookRepository) Update(ctx context.Context, b *book.Book) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE books
		SET title=$2, author=$3, genre=$4, condition=$5, available=$6, updated_at=$7
		WHERE book_id=$1
	`, b.BookID, b.Title, b.Author, b.Genre, b.Condition, b.Available, b.UpdatedAt)
	return err
}

func (r *BookRepository) GetByID(ctx context.Context, bookID uuid.UUID) (*book.Book, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE book_id=$1`, bookID)
	return scanBook(row)
}

func (r *BookRepository) List(ctx context.Context, filter book.Filter, limit, offset int) ([]*book.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books`
	args := []interface{}{}
	idx := 1
	if filter.OwnerID != nil {
		query += whereOrAnd(idx) + " owner_id=$" + itoa(idx)
		args = append(args, *filter.OwnerID)
		idx++
	}
	if filter.Available != nil {
		query += whereOrAnd(idx) + " available=$" + itoa(idx)
		args = append(args, *filter.Available)
		idx++
	}
	if filter.Genre != nil {
		query += whereOrAnd(idx) + " genre=$" + itoa(idx)
		args = append(args, *filter.Genre)
		idx++
	}
	query += " ORDER BY created_at DESC LIMIT $" + itoa(idx) + " OFFSET $" + itoa(idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var books []*book.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *BookRepository) SetAvailability(ctx context.Context, bookID uuid.UUID, available bool) error {
	_, err := r.pool.Exec(ctx, `UPDATE books SET available=$2, updated_at=NOW() WHERE book_id=$1`, bookID, available)
	return err
}

func scanBook(row pgx.Row) (*book.Book, error) {
	var b book.Book
	if err := row.Scan(&b.ID, &b.BookID, &b.OwnerID, &b.Title, &b.Author, &b.Genre, &b.Condition, &b.Available, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}
