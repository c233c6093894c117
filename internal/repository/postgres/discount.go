package postgres

import (
	"context"
	"database/sql"
	"time"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/repository"

	"github.com/lib/pq"
)

type discountRuleRepository struct {
	db *sql.DB
}

func NewDiscountRuleRepository(db *sql.DB) repository.DiscountRuleRepository {
	return &discountRuleRepository{db: db}
}

func (r *discountRuleRepository) Create(ctx context.Context, rule *domain.DiscountRule) error {
	logger.DatabaseCall("INSERT", "discount_rules", "name", rule.Name)
	query := `INSERT INTO discount_rules (name, note, scope, value_kind, amount_cents, percent, min_cents, max_cents, priority, code,
	          expires_on, published, customer_groups, unit_ids, repeat_shipping)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, rule.Name, rule.Note, rule.Scope, rule.ValueKind, rule.AmountCents, rule.Percent,
		rule.MinCents, rule.MaxCents, rule.Priority, rule.Code, rule.ExpiresOn, rule.Published,
		pq.Array(rule.Conditions.CustomerGroups), pq.Array(int32sToInt64s(rule.Conditions.UnitIDs)), rule.Conditions.RepeatShipping).Scan(&rule.ID)
	logger.DatabaseResult("INSERT", 1, err, "rule_id", rule.ID)
	return err
}

// ListActive returns published rules that have not expired. Coupon matching is left
// to the discount engine.
func (r *discountRuleRepository) ListActive(ctx context.Context, now time.Time) ([]domain.DiscountRule, error) {
	query := `SELECT id, name, note, scope, value_kind, amount_cents, percent, min_cents, max_cents, priority, code,
	          expires_on, published, customer_groups, unit_ids, repeat_shipping
	          FROM discount_rules WHERE published = TRUE AND (expires_on IS NULL OR expires_on > $1)
	          ORDER BY priority DESC, id`
	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []domain.DiscountRule
	for rows.Next() {
		var (
			rule               domain.DiscountRule
			minCents, maxCents sql.NullInt64
			code               sql.NullString
			expiresOn          sql.NullTime
			groups             []string
			unitIDs            []int64
		)
		if err := rows.Scan(&rule.ID, &rule.Name, &rule.Note, &rule.Scope, &rule.ValueKind, &rule.AmountCents, &rule.Percent,
			&minCents, &maxCents, &rule.Priority, &code, &expiresOn, &rule.Published,
			pq.Array(&groups), pq.Array(&unitIDs), &rule.Conditions.RepeatShipping); err != nil {
			return nil, err
		}
		if minCents.Valid {
			rule.MinCents = &minCents.Int64
		}
		if maxCents.Valid {
			rule.MaxCents = &maxCents.Int64
		}
		if code.Valid {
			rule.Code = &code.String
		}
		if expiresOn.Valid {
			rule.ExpiresOn = &expiresOn.Time
		}
		rule.Conditions.CustomerGroups = groups
		rule.Conditions.UnitIDs = int64sToInt32s(unitIDs)
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}
