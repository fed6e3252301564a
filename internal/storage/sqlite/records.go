package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lfcamara/fundef-registry/internal/common"
	"github.com/lfcamara/fundef-registry/internal/models"
	"github.com/lfcamara/fundef-registry/internal/timex"
)

const recordColumns = `id, nome, cpf, rg, matricula, escola, cargo,
	situacao_servidor, data_admissao, telefone, email, endereco,
	banco, agencia, conta, tipo_conta, data_inicio_fundef, data_fim_fundef,
	carga_horaria, quantidade_meses_trabalhados, aceitou_declaracao, criado_em`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.Record, error) {
	rec := &models.Record{}
	var accepted int64
	err := row.Scan(
		&rec.ID, &rec.Name, &rec.CPF, &rec.RG, &rec.Registration, &rec.School,
		&rec.Role, &rec.EmploymentStatus, &rec.AdmissionDate, &rec.Phone,
		&rec.Email, &rec.Address, &rec.Bank, &rec.Branch, &rec.Account,
		&rec.AccountType, &rec.FundefStart, &rec.FundefEnd, &rec.WeeklyHours,
		&rec.MonthsWorked, &accepted, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.AcceptedDeclaration = accepted != 0
	return rec, nil
}

func (b *Backend) queryRecords(ctx context.Context, query string, args ...any) ([]models.Record, error) {
	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select records: %w", err)
	}
	defer rows.Close()

	var result []models.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		result = append(result, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return result, nil
}

// ListRecords returns every record ordered by id.
func (b *Backend) ListRecords(ctx context.Context, orderDesc bool) ([]models.Record, error) {
	direction := "ASC"
	if orderDesc {
		direction = "DESC"
	}
	query := fmt.Sprintf(`SELECT %s FROM professores ORDER BY id %s`, recordColumns, direction)
	return b.queryRecords(ctx, query)
}

// FindRecordByCPF returns the record registered under cpf.
func (b *Backend) FindRecordByCPF(ctx context.Context, cpf string) (*models.Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM professores WHERE cpf = ?`, recordColumns)
	rec, err := scanRecord(b.db.QueryRowContext(ctx, query, cpf))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("find record by cpf: %w", err)
	}
	return rec, nil
}

// GetRecord returns the record with the given id.
func (b *Backend) GetRecord(ctx context.Context, id int64) (*models.Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM professores WHERE id = ?`, recordColumns)
	rec, err := scanRecord(b.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// InsertRecord stores a new record, letting the store assign the id and
// stamping CreatedAt. The UNIQUE constraint on cpf surfaces as
// common.ErrConflict.
func (b *Backend) InsertRecord(ctx context.Context, rec *models.Record) (int64, error) {
	createdAt := timex.Now()
	res, err := b.db.ExecContext(ctx, `
		INSERT INTO professores (
			nome, cpf, rg, matricula, escola, cargo,
			situacao_servidor, data_admissao, telefone, email, endereco,
			banco, agencia, conta, tipo_conta,
			data_inicio_fundef, data_fim_fundef,
			carga_horaria, quantidade_meses_trabalhados,
			aceitou_declaracao, criado_em
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Name, rec.CPF, rec.RG, rec.Registration, rec.School, rec.Role,
		rec.EmploymentStatus, rec.AdmissionDate, rec.Phone, rec.Email, rec.Address,
		rec.Bank, rec.Branch, rec.Account, rec.AccountType,
		rec.FundefStart, rec.FundefEnd,
		rec.WeeklyHours, rec.MonthsWorked,
		boolToInt(rec.AcceptedDeclaration), createdAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("cpf already registered: %w", common.ErrConflict)
		}
		return 0, fmt.Errorf("insert record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert record id: %w", err)
	}
	rec.ID = id
	rec.CreatedAt = createdAt
	return id, nil
}

// UpdateRecord rewrites every updatable column of the record. A missing id
// affects zero rows and is not an error.
func (b *Backend) UpdateRecord(ctx context.Context, id int64, rec *models.Record) error {
	_, err := b.db.ExecContext(ctx, `
		UPDATE professores SET
			nome = ?, cpf = ?, rg = ?, matricula = ?, escola = ?, cargo = ?,
			situacao_servidor = ?, data_admissao = ?, telefone = ?, email = ?, endereco = ?,
			banco = ?, agencia = ?, conta = ?, tipo_conta = ?,
			data_inicio_fundef = ?, data_fim_fundef = ?,
			carga_horaria = ?, quantidade_meses_trabalhados = ?,
			aceitou_declaracao = ?
		WHERE id = ?`,
		rec.Name, rec.CPF, rec.RG, rec.Registration, rec.School, rec.Role,
		rec.EmploymentStatus, rec.AdmissionDate, rec.Phone, rec.Email, rec.Address,
		rec.Bank, rec.Branch, rec.Account, rec.AccountType,
		rec.FundefStart, rec.FundefEnd,
		rec.WeeklyHours, rec.MonthsWorked,
		boolToInt(rec.AcceptedDeclaration),
		id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("cpf already registered: %w", common.ErrConflict)
		}
		return fmt.Errorf("update record: %w", err)
	}
	return nil
}

// DeleteRecord physically removes the record. A missing id is a no-op.
func (b *Backend) DeleteRecord(ctx context.Context, id int64) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM professores WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// ExportRecords returns the complete field set ordered by id descending.
func (b *Backend) ExportRecords(ctx context.Context) ([]models.Record, error) {
	return b.ListRecords(ctx, true)
}

// RecordsForAllocation returns the allocation projection ordered by name.
func (b *Backend) RecordsForAllocation(ctx context.Context) ([]models.RecordSummary, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT id, nome, cpf, escola, cargo, situacao_servidor, quantidade_meses_trabalhados
		FROM professores ORDER BY nome ASC`)
	if err != nil {
		return nil, fmt.Errorf("select allocation records: %w", err)
	}
	defer rows.Close()

	var result []models.RecordSummary
	for rows.Next() {
		var s models.RecordSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.CPF, &s.School, &s.Role, &s.EmploymentStatus, &s.MonthsWorked); err != nil {
			return nil, fmt.Errorf("scan allocation record: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate allocation records: %w", err)
	}
	return result, nil
}

func boolToInt(v bool) int64 {
	if v {
		return 1
	}
	return 0
}
