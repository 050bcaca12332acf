package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/concesionario-api/internal/domain"
	"github.com/jhoicas/concesionario-api/internal/domain/entity"
	"github.com/jhoicas/concesionario-api/internal/domain/pricing"
	"github.com/jhoicas/concesionario-api/internal/domain/repository"
	"github.com/jhoicas/concesionario-api/internal/domain/sale"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo registra ventas: cabecera, líneas, cuotas y descuento de stock en una sola transacción.
type SaleRepo struct {
	q  Querier
	tx *TxRunner
}

// NewSaleRepository construye el adaptador sobre el pool.
func NewSaleRepository(pool *pgxpool.Pool) *SaleRepo {
	return &SaleRepo{q: pool, tx: NewTxRunner(pool)}
}

// Create registra la venta. Si alguna línea ya no tiene existencias devuelve
// domain.ErrInsufficientStock y no queda nada escrito.
func (r *SaleRepo) Create(ctx context.Context, companyID string, sub sale.Submission) (*entity.Sale, error) {
	s := &entity.Sale{
		ID:                uuid.New().String(),
		CompanyID:         companyID,
		CustomerID:        sub.CustomerID,
		SaleType:          string(sub.SaleType),
		TotalAmount:       sub.Payment.TotalAmount,
		DownPayment:       sub.Payment.DownPayment,
		Frequency:         string(sub.Payment.Frequency),
		TotalWithInterest: sub.Payment.TotalAmount,
		Notes:             sub.Notes,
		CreatedAt:         time.Now().UTC(),
	}
	if p := sub.Payment; p.InstallmentCount != nil {
		s.InstallmentCount = *p.InstallmentCount
		s.InterestRate = derefDecimal(p.InterestRate)
		s.PeriodicPayment = derefDecimal(p.PeriodicPayment)
		s.TotalWithInterest = derefDecimal(p.TotalWithInterest)
	}

	err := r.tx.Run(ctx, func(q Querier) error {
		guarantorID, err := resolveGuarantor(ctx, q, companyID, sub.Guarantor, s.CreatedAt)
		if err != nil {
			return err
		}
		s.GuarantorID = guarantorID

		for i, line := range sub.LineItems {
			if err := reserveStock(ctx, q, companyID, line); err != nil {
				return fmt.Errorf("línea %d: %w", i, err)
			}
		}
		if err := insertSale(ctx, q, s, sub.SelectedDocumentIDs); err != nil {
			return err
		}
		for i, line := range sub.LineItems {
			if err := insertSaleItem(ctx, q, s.ID, i+1, line); err != nil {
				return err
			}
		}
		for _, inst := range sub.Schedule {
			_, err := q.Exec(ctx, `
				INSERT INTO sale_installments
					(sale_id, number, due_date, total_payment, interest_portion, principal_portion, remaining_balance)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				s.ID, inst.Index, inst.DueDate, inst.TotalPayment, inst.InterestPortion, inst.PrincipalPortion, inst.RemainingBalance,
			)
			if err != nil {
				return fmt.Errorf("insert installment %d: %w", inst.Index, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// resolveGuarantor devuelve el ID del fiador de la venta; los fiadores nuevos se registran aquí.
func resolveGuarantor(ctx context.Context, q Querier, companyID string, g sale.Guarantor, now time.Time) (string, error) {
	switch v := g.(type) {
	case nil:
		return "", nil
	case sale.ExistingGuarantor:
		existing, err := NewGuarantorRepository(q).GetByID(ctx, companyID, v.ID)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return "", domain.NewValidationError("guarantor.id", "el fiador no existe")
		}
		return existing.ID, nil
	case sale.NewGuarantor:
		return NewGuarantorRepository(q).upsertByTaxID(ctx, &entity.Guarantor{
			ID:        uuid.New().String(),
			CompanyID: companyID,
			TaxID:     v.TaxID,
			FirstName: v.FirstName,
			LastName:  v.LastName,
			Address:   v.Address,
			Phone:     v.Phone,
			CreatedAt: now,
		})
	}
	return "", fmt.Errorf("%w: fiador de tipo %T", domain.ErrPrecondition, g)
}

// reserveStock bloquea las filas de inventario de la línea (SELECT … FOR UPDATE) y descuenta.
func reserveStock(ctx context.Context, q Querier, companyID string, line sale.SubmissionLine) error {
	switch line.SourceKind {
	case pricing.SourceIndividualUnit:
		var available bool
		err := q.QueryRow(ctx,
			`SELECT available FROM individual_units WHERE company_id = $1 AND id = $2 FOR UPDATE`,
			companyID, line.ReferenceID,
		).Scan(&available)
		if errors.Is(err, pgx.ErrNoRows) || (err == nil && !available) {
			return domain.ErrInsufficientStock
		}
		if err != nil {
			return fmt.Errorf("lock individual unit: %w", err)
		}
		_, err = q.Exec(ctx, `UPDATE individual_units SET available = false, updated_at = now() WHERE id = $1`, line.ReferenceID)
		if err != nil {
			return fmt.Errorf("update individual unit: %w", err)
		}
		return nil

	case pricing.SourceModel:
		var stock int
		err := q.QueryRow(ctx, `
			SELECT mc.stock FROM model_colors mc
			JOIN vehicle_models vm ON vm.id = mc.model_id
			WHERE vm.company_id = $1 AND mc.model_id = $2 AND mc.color = $3
			FOR UPDATE OF mc`,
			companyID, line.ReferenceID, line.Color,
		).Scan(&stock)
		if errors.Is(err, pgx.ErrNoRows) || (err == nil && stock < line.Quantity) {
			return domain.ErrInsufficientStock
		}
		if err != nil {
			return fmt.Errorf("lock model color: %w", err)
		}
		_, err = q.Exec(ctx,
			`UPDATE model_colors SET stock = stock - $3 WHERE model_id = $1 AND color = $2`,
			line.ReferenceID, line.Color, line.Quantity,
		)
		if err != nil {
			if isCheckViolation(err) {
				return domain.ErrInsufficientStock
			}
			return fmt.Errorf("update model color: %w", err)
		}
		if line.ChassisID == "" {
			return nil
		}
		// El chasis identificado también sale del inventario.
		tag, err := q.Exec(ctx,
			`UPDATE chassis_records SET stock = stock - 1 WHERE id = $1 AND model_id = $2 AND stock >= 1`,
			line.ChassisID, line.ReferenceID,
		)
		if err != nil {
			return fmt.Errorf("update chassis record: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrInsufficientStock
		}
		return nil
	}
	return fmt.Errorf("%w: origen de línea desconocido %q", domain.ErrPrecondition, line.SourceKind)
}

func insertSale(ctx context.Context, q Querier, s *entity.Sale, documentIDs []string) error {
	if documentIDs == nil {
		documentIDs = []string{}
	}
	_, err := q.Exec(ctx, `
		INSERT INTO sales (id, company_id, customer_id, guarantor_id, sale_type, total_amount, down_payment,
			installment_count, frequency, interest_rate, periodic_payment, total_with_interest,
			document_ids, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		s.ID, s.CompanyID, s.CustomerID, nullIfEmpty(s.GuarantorID), s.SaleType, s.TotalAmount, s.DownPayment,
		s.InstallmentCount, s.Frequency, s.InterestRate, s.PeriodicPayment, s.TotalWithInterest,
		documentIDs, s.Notes, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func insertSaleItem(ctx context.Context, q Querier, saleID string, lineNo int, line sale.SubmissionLine) error {
	_, err := q.Exec(ctx, `
		INSERT INTO sale_items (sale_id, line_no, source_kind, reference_id, color, chassis_record_id, chassis, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		saleID, lineNo, string(line.SourceKind), line.ReferenceID, line.Color, nullIfEmpty(line.ChassisID),
		line.Chassis, line.Quantity, line.UnitPrice,
	)
	if err != nil {
		return fmt.Errorf("insert sale item %d: %w", lineNo, err)
	}
	return nil
}

// GetByID obtiene la cabecera de una venta de la empresa.
func (r *SaleRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Sale, error) {
	query := `
		SELECT id, company_id, customer_id, COALESCE(guarantor_id, ''), sale_type, total_amount, down_payment,
			installment_count, frequency, interest_rate, periodic_payment, total_with_interest, notes, created_at
		FROM sales WHERE company_id = $1 AND id = $2`
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, companyID, id).Scan(
		&s.ID, &s.CompanyID, &s.CustomerID, &s.GuarantorID, &s.SaleType, &s.TotalAmount, &s.DownPayment,
		&s.InstallmentCount, &s.Frequency, &s.InterestRate, &s.PeriodicPayment, &s.TotalWithInterest, &s.Notes, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}

func derefDecimal(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
