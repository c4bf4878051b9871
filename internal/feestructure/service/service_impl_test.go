package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/james21411/Projet-scolapp-sub004/internal/cache"
	feestructuredomain "github.com/james21411/Projet-scolapp-sub004/internal/feestructure/domain"
	studentrepository "github.com/james21411/Projet-scolapp-sub004/internal/student/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS students (
			id TEXT PRIMARY KEY,
			full_name TEXT NOT NULL,
			class_name TEXT NOT NULL,
			school_year TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS fee_structures (
			class_name TEXT NOT NULL,
			school_year TEXT NOT NULL,
			registration_fee BIGINT NOT NULL DEFAULT 0,
			total BIGINT NOT NULL DEFAULT 0,
			installments TEXT NOT NULL DEFAULT '[]',
			created_at DATETIME,
			updated_at DATETIME,
			PRIMARY KEY (class_name, school_year)
		)`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	return &Service{
		db:          db,
		log:         zap.NewNop(),
		studentRepo: studentrepository.Provide(),
		lookups:     cache.New[structureKey, feestructuredomain.FeeStructure](cacheTTL),
	}
}

func validUpsert() feestructuredomain.UpsertRequest {
	return feestructuredomain.UpsertRequest{
		ClassName:       "6ème A",
		SchoolYear:      "2025-2026",
		RegistrationFee: 50000,
		Total:           200000,
		Installments: []feestructuredomain.Installment{
			{Name: "Tranche 1", Amount: 75000, DueDate: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)},
			{Name: "Tranche 2", Amount: 75000, DueDate: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
}

func TestUpsertAndGet(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	created, err := svc.Upsert(ctx, validUpsert())
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if created.Installments[0].ID != "tranche1" || created.Installments[1].ID != "tranche2" {
		t.Fatalf("ids not normalized: %+v", created.Installments)
	}

	got, err := svc.Get(ctx, "6ème A", "2025-2026")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Total != 200000 || got.RegistrationFee != 50000 {
		t.Fatalf("unexpected structure: %+v", got)
	}
	if len(got.Installments) != 2 {
		t.Fatalf("expected 2 installments, got %d", len(got.Installments))
	}
}

func TestUpsertValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	req := validUpsert()
	req.Total = 199999
	if _, err := svc.Upsert(ctx, req); !errors.Is(err, feestructuredomain.ErrTotalMismatch) {
		t.Fatalf("total mismatch: got %v", err)
	}

	req = validUpsert()
	req.RegistrationFee = -1
	if _, err := svc.Upsert(ctx, req); !errors.Is(err, feestructuredomain.ErrNegativeAmount) {
		t.Fatalf("negative registration fee: got %v", err)
	}

	req = validUpsert()
	req.Installments[0].Amount = -75000
	if _, err := svc.Upsert(ctx, req); !errors.Is(err, feestructuredomain.ErrNegativeAmount) {
		t.Fatalf("negative installment: got %v", err)
	}

	req = validUpsert()
	req.ClassName = "  "
	if _, err := svc.Upsert(ctx, req); !errors.Is(err, feestructuredomain.ErrInvalidClassName) {
		t.Fatalf("blank class: got %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)

	if _, err := svc.Get(context.Background(), "Terminale C", "2025-2026"); !errors.Is(err, feestructuredomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpsertInvalidatesCache(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, validUpsert()); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := svc.Get(ctx, "6ème A", "2025-2026"); err != nil {
		t.Fatalf("get: %v", err)
	}

	req := validUpsert()
	req.RegistrationFee = 60000
	req.Total = 210000
	if _, err := svc.Upsert(ctx, req); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := svc.Get(ctx, "6ème A", "2025-2026")
	if err != nil {
		t.Fatalf("get after upsert: %v", err)
	}
	if got.Total != 210000 {
		t.Fatalf("stale cache served, total = %d", got.Total)
	}
}

func TestEnsureDefaultsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	for i, class := range []string{"6ème A", "5ème B"} {
		err := db.Exec(
			`INSERT INTO students (id, full_name, class_name, school_year) VALUES (?, ?, ?, ?)`,
			fmt.Sprintf("S%03d", i+1), fmt.Sprintf("Élève %d", i+1), class, "2025-2026",
		).Error
		if err != nil {
			t.Fatalf("insert student: %v", err)
		}
	}
	if _, err := svc.Upsert(ctx, validUpsert()); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	created, err := svc.EnsureDefaults(ctx, "2025-2026")
	if err != nil {
		t.Fatalf("ensure defaults: %v", err)
	}
	if created != 1 {
		t.Fatalf("expected 1 placeholder, got %d", created)
	}

	// The priced structure must stay untouched.
	got, err := svc.Get(ctx, "6ème A", "2025-2026")
	if err != nil || got.Total != 200000 {
		t.Fatalf("priced structure changed: %+v, %v", got, err)
	}

	created, err = svc.EnsureDefaults(ctx, "2025-2026")
	if err != nil {
		t.Fatalf("second ensure defaults: %v", err)
	}
	if created != 0 {
		t.Fatalf("expected idempotent run, got %d", created)
	}
}

func TestRepairInstallmentIDs(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	legacy := feestructuredomain.FeeStructure{
		ClassName:       "6ème A",
		SchoolYear:      "2025-2026",
		RegistrationFee: 50000,
		Total:           200000,
		Installments: datatypes.NewJSONSlice([]feestructuredomain.Installment{
			{ID: "tranche1-1712345678901", Name: "Tranche 1", Amount: 75000},
			{ID: "1712345678902", Amount: 75000},
		}),
	}
	if err := db.Create(&legacy).Error; err != nil {
		t.Fatalf("seed legacy structure: %v", err)
	}

	repaired, err := svc.RepairInstallmentIDs(ctx, "2025-2026")
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	if repaired != 1 {
		t.Fatalf("expected 1 repaired structure, got %d", repaired)
	}

	got, err := svc.Get(ctx, "6ème A", "2025-2026")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Installments[0].ID != "tranche1" || got.Installments[1].ID != "tranche2" {
		t.Fatalf("ids not repaired: %+v", got.Installments)
	}
	if got.Installments[1].Name != "Tranche 2" {
		t.Fatalf("missing default name: %+v", got.Installments[1])
	}

	repaired, err = svc.RepairInstallmentIDs(ctx, "2025-2026")
	if err != nil {
		t.Fatalf("second repair: %v", err)
	}
	if repaired != 0 {
		t.Fatalf("repair not idempotent, got %d", repaired)
	}
}
