package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/nutrition-program-api/internal/application/auth"
	"github.com/jhoicas/nutrition-program-api/internal/application/party"
	"github.com/jhoicas/nutrition-program-api/internal/application/voucher"
	"github.com/jhoicas/nutrition-program-api/internal/domain/repository"
)

var (
	_ party.TxRunner     = (*TxRunner)(nil)
	_ voucher.TxRunner   = (*TxRunner)(nil)
	_ auth.UsersTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Si el contexto no trae deadline se aplica timeout, para que una conexión de cliente
// caída termine siempre en COMMIT o ROLLBACK completo.
type TxRunner struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, timeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, timeout: timeout}
}

// RunParty ejecuta fn con los repos de contratistas y supporters atados a la tx.
func (r *TxRunner) RunParty(ctx context.Context, fn func(
	contractorRepo repository.ContractorRepository,
	supporterRepo repository.SupporterRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewContractorRepository(tx), NewSupporterRepository(tx))
	})
}

// RunVoucher ejecuta fn con los repos de vouchers y usuarios atados a la tx.
func (r *TxRunner) RunVoucher(ctx context.Context, fn func(
	voucherRepo repository.VoucherRepository,
	userRepo repository.UserRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewVoucherRepository(tx), NewUserRepository(tx))
	})
}

// RunUsers ejecuta fn con el repo de usuarios atado a la tx.
func (r *TxRunner) RunUsers(ctx context.Context, fn func(userRepo repository.UserRepository) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewUserRepository(tx))
	})
}

// run inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	if _, ok := ctx.Deadline(); !ok && r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
