package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/azkar-hub/azkar-hub/internal/domain/azkar"
	"github.com/azkar-hub/azkar-hub/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// AZKAR REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const azkarColumns = `
	id::text, text, COALESCE(translation, ''), COALESCE(meaning, ''), category,
	repetitions, COALESCE(source, ''), benefits, COALESCE(audio_url, ''),
	sort_order, created_at
`

// AzkarRepository implements azkar.Repository and azkar.Writer for PostgreSQL.
type AzkarRepository struct {
	q Querier
}

// NewAzkarRepository creates a new AzkarRepository.
func NewAzkarRepository(q Querier) *AzkarRepository {
	return &AzkarRepository{q: q}
}

// GetByID returns a zikr by ID.
func (r *AzkarRepository) GetByID(ctx context.Context, id shared.ZikrID) (*azkar.Zikr, error) {
	if !id.IsValid() {
		return nil, shared.ErrZikrNotFound
	}

	query := `SELECT ` + azkarColumns + ` FROM azkar WHERE id = $1`

	z, err := scanZikr(r.q.QueryRow(ctx, query, string(id)))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrZikrNotFound
		}
		return nil, fmt.Errorf("failed to get zikr: %w", err)
	}
	return z, nil
}

// ListByCategory returns a category's azkar ordered by display order.
func (r *AzkarRepository) ListByCategory(ctx context.Context, category azkar.Category) ([]*azkar.Zikr, error) {
	if category == "" {
		return []*azkar.Zikr{}, nil
	}

	query := `SELECT ` + azkarColumns + `
		FROM azkar
		WHERE category = $1
		ORDER BY sort_order ASC, created_at ASC
	`

	rows, err := r.q.Query(ctx, query, string(category))
	if err != nil {
		return nil, fmt.Errorf("failed to list azkar: %w", err)
	}
	return collectAzkar(rows)
}

// Search runs a full-text search over zikr text, best matches first.
func (r *AzkarRepository) Search(ctx context.Context, sq azkar.SearchQuery) ([]*azkar.Zikr, error) {
	term := strings.TrimSpace(sq.Term)
	if term == "" {
		return nil, shared.ErrEmptySearchTerm
	}

	query, args := buildSearchQuery(term, sq.Category, azkar.SearchLimit)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search azkar: %w", err)
	}
	return collectAzkar(rows)
}

// buildSearchQuery assembles the search SQL. The category filter is only
// added when a category is given.
func buildSearchQuery(term string, category azkar.Category, limit int) (string, []any) {
	var sb strings.Builder
	args := []any{term}

	sb.WriteString(`SELECT `)
	sb.WriteString(azkarColumns)
	sb.WriteString(` FROM azkar WHERE search_vector @@ plainto_tsquery('simple', $1)`)

	if category != "" {
		args = append(args, string(category))
		fmt.Fprintf(&sb, ` AND category = $%d`, len(args))
	}

	args = append(args, limit)
	fmt.Fprintf(&sb,
		` ORDER BY ts_rank(search_vector, plainto_tsquery('simple', $1)) DESC, sort_order ASC LIMIT $%d`,
		len(args))

	return sb.String(), args
}

// Upsert creates or replaces a zikr by ID.
func (r *AzkarRepository) Upsert(ctx context.Context, z *azkar.Zikr) error {
	query := `
		INSERT INTO azkar (
			id, text, translation, meaning, category, repetitions,
			source, benefits, audio_url, sort_order, created_at
		) VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, NULLIF($7, ''), $8, NULLIF($9, ''), $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			text = EXCLUDED.text,
			translation = EXCLUDED.translation,
			meaning = EXCLUDED.meaning,
			category = EXCLUDED.category,
			repetitions = EXCLUDED.repetitions,
			source = EXCLUDED.source,
			benefits = EXCLUDED.benefits,
			audio_url = EXCLUDED.audio_url,
			sort_order = EXCLUDED.sort_order
	`

	_, err := r.q.Exec(ctx, query,
		string(z.ID),
		z.Text,
		z.Translation,
		z.Meaning,
		string(z.Category),
		z.Repetitions,
		z.Source,
		z.Benefits,
		z.AudioURL,
		z.Order,
		z.CreatedAt,
	)
	if err != nil {
		if IsCheckViolation(err) {
			return fmt.Errorf("%w: %v", shared.ErrInvalidEntity, err)
		}
		return fmt.Errorf("failed to upsert zikr: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning
// ─────────────────────────────────────────────────────────────────────────────

func scanZikr(row pgx.Row) (*azkar.Zikr, error) {
	var (
		z        azkar.Zikr
		id       string
		category string
	)

	err := row.Scan(
		&id,
		&z.Text,
		&z.Translation,
		&z.Meaning,
		&category,
		&z.Repetitions,
		&z.Source,
		&z.Benefits,
		&z.AudioURL,
		&z.Order,
		&z.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	z.ID = shared.ZikrID(id)
	z.Category = azkar.Category(category)
	return &z, nil
}

func collectAzkar(rows pgx.Rows) ([]*azkar.Zikr, error) {
	defer rows.Close()

	out := make([]*azkar.Zikr, 0)
	for rows.Next() {
		z, err := scanZikr(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan zikr: %w", err)
		}
		out = append(out, z)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate azkar: %w", err)
	}
	return out, nil
}
