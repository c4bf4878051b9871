package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	balancedomain "github.com/james21411/Projet-scolapp-sub004/internal/balance/domain"
	"github.com/james21411/Projet-scolapp-sub004/internal/clock"
	feestructuredomain "github.com/james21411/Projet-scolapp-sub004/internal/feestructure/domain"
	feestructureservice "github.com/james21411/Projet-scolapp-sub004/internal/feestructure/service"
	paymentdomain "github.com/james21411/Projet-scolapp-sub004/internal/payment/domain"
	paymentservice "github.com/james21411/Projet-scolapp-sub004/internal/payment/service"
	studentrepository "github.com/james21411/Projet-scolapp-sub004/internal/student/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, 11, 15, 10, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:balance_%s?mode=memory&cache=shared", t.Name())
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
		`CREATE TABLE IF NOT EXISTS payments (
			id BIGINT PRIMARY KEY,
			student_id TEXT NOT NULL,
			school_year TEXT NOT NULL,
			amount BIGINT NOT NULL,
			paid_at DATETIME NOT NULL,
			method TEXT NOT NULL,
			reason TEXT,
			cashier TEXT,
			cashier_username TEXT,
			installments_paid TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

type testEnv struct {
	db         *gorm.DB
	balance    *Service
	payments   paymentdomain.Service
	structures feestructuredomain.Service
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new snowflake node: %v", err)
	}

	log := zap.NewNop()
	clk := clock.Fixed{At: testNow}
	studentRepo := studentrepository.Provide()
	structures := feestructureservice.NewService(feestructureservice.Params{
		DB:          db,
		Log:         log,
		StudentRepo: studentRepo,
	})
	payments := paymentservice.NewService(paymentservice.Params{
		DB:          db,
		Log:         log,
		Clock:       clk,
		GenID:       node,
		StudentRepo: studentRepo,
	})
	balance := &Service{
		db:           db,
		log:          log,
		clk:          clk,
		studentRepo:  studentRepo,
		paymentSvc:   payments,
		structureSvc: structures,
	}
	return &testEnv{db: db, balance: balance, payments: payments, structures: structures}
}

func (env *testEnv) addStudent(t *testing.T, id, name, class string) {
	t.Helper()
	err := env.db.Exec(
		`INSERT INTO students (id, full_name, class_name, school_year) VALUES (?, ?, ?, ?)`,
		id, name, class, "2025-2026",
	).Error
	if err != nil {
		t.Fatalf("insert student: %v", err)
	}
}

func (env *testEnv) addStructure(t *testing.T, class string) {
	t.Helper()
	_, err := env.structures.Upsert(context.Background(), feestructuredomain.UpsertRequest{
		ClassName:       class,
		SchoolYear:      "2025-2026",
		RegistrationFee: 50000,
		Total:           200000,
		Installments: []feestructuredomain.Installment{
			{Name: "Tranche 1", Amount: 75000, DueDate: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)},
			{Name: "Tranche 2", Amount: 75000, DueDate: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)},
		},
	})
	if err != nil {
		t.Fatalf("upsert structure: %v", err)
	}
}

func (env *testEnv) pay(t *testing.T, studentID string, amount int64, reason string, entries ...paymentdomain.AllocationEntry) {
	t.Helper()
	_, err := env.payments.Record(context.Background(), paymentdomain.RecordRequest{
		StudentID:        studentID,
		SchoolYear:       "2025-2026",
		Amount:           amount,
		Method:           paymentdomain.MethodCash,
		Reason:           reason,
		InstallmentsPaid: entries,
	})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
}

func installmentByID(t *testing.T, summary *balancedomain.StudentFinancialSummary, id string) balancedomain.InstallmentBalance {
	t.Helper()
	for _, inst := range summary.PerInstallment {
		if inst.InstallmentID == id {
			return inst
		}
	}
	t.Fatalf("installment %q not in summary", id)
	return balancedomain.InstallmentBalance{}
}

func TestSummarizeStudent(t *testing.T) {
	env := setupEnv(t)
	env.addStructure(t, "6ème A")
	env.addStudent(t, "S001", "Amina Bello", "6ème A")

	env.pay(t, "S001", 50000, "Frais d'inscription")
	env.pay(t, "S001", 75000, "", paymentdomain.AllocationEntry{InstallmentID: "tranche1", Amount: 75000})

	summary, err := env.balance.Summarize(context.Background(), "S001", "2025-2026")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}

	if summary.TotalDue != 200000 {
		t.Fatalf("total due = %d, want 200000", summary.TotalDue)
	}
	if summary.TotalPaid != 125000 {
		t.Fatalf("total paid = %d, want 125000", summary.TotalPaid)
	}
	if summary.Outstanding != 75000 {
		t.Fatalf("outstanding = %d, want 75000", summary.Outstanding)
	}
	if summary.PaymentRate != 62.5 {
		t.Fatalf("payment rate = %v, want 62.5", summary.PaymentRate)
	}
	if summary.UnassignedPaid != 50000 {
		t.Fatalf("unassigned = %d, want 50000", summary.UnassignedPaid)
	}

	// Clock is past tranche1's due date and before tranche2's.
	if got := installmentByID(t, summary, "tranche1"); got.Status != balancedomain.StatusPaid {
		t.Fatalf("tranche1 status = %s, want paid", got.Status)
	}
	if got := installmentByID(t, summary, "tranche2"); got.Status != balancedomain.StatusPending {
		t.Fatalf("tranche2 status = %s, want pending", got.Status)
	}
}

func TestSummarizeOverdueInstallment(t *testing.T) {
	env := setupEnv(t)
	env.addStructure(t, "6ème A")
	env.addStudent(t, "S001", "Amina Bello", "6ème A")

	summary, err := env.balance.Summarize(context.Background(), "S001", "2025-2026")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got := installmentByID(t, summary, "tranche1"); got.Status != balancedomain.StatusOverdue {
		t.Fatalf("tranche1 status = %s, want overdue", got.Status)
	}
	if got := installmentByID(t, summary, "tranche2"); got.Status != balancedomain.StatusPending {
		t.Fatalf("tranche2 status = %s, want pending", got.Status)
	}
	if summary.Outstanding != 200000 {
		t.Fatalf("outstanding = %d, want 200000", summary.Outstanding)
	}
}

func TestSummarizeOutstandingNeverNegative(t *testing.T) {
	env := setupEnv(t)
	env.addStructure(t, "6ème A")
	env.addStudent(t, "S001", "Amina Bello", "6ème A")

	env.pay(t, "S001", 250000, "Paiement total annuel")

	summary, err := env.balance.Summarize(context.Background(), "S001", "2025-2026")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.Outstanding != 0 {
		t.Fatalf("outstanding = %d, want 0", summary.Outstanding)
	}
	if summary.TotalPaid != 250000 {
		t.Fatalf("total paid = %d, want 250000", summary.TotalPaid)
	}
}

func TestSummarizeMissingStructureFails(t *testing.T) {
	env := setupEnv(t)
	env.addStudent(t, "S001", "Amina Bello", "6ème A")

	_, err := env.balance.Summarize(context.Background(), "S001", "2025-2026")
	if !errors.Is(err, feestructuredomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClassSummary(t *testing.T) {
	env := setupEnv(t)
	env.addStructure(t, "6ème A")
	env.addStudent(t, "S002", "Chantal Mbia", "6ème A")
	env.addStudent(t, "S001", "Amina Bello", "6ème A")

	env.pay(t, "S001", 200000, "Paiement total annuel")
	env.pay(t, "S002", 50000, "Frais d'inscription")

	class, err := env.balance.ClassSummary(context.Background(), "6ème A", "2025-2026")
	if err != nil {
		t.Fatalf("class summary: %v", err)
	}
	if class.StudentCount != 2 {
		t.Fatalf("student count = %d, want 2", class.StudentCount)
	}
	if class.TotalDue != 400000 || class.TotalPaid != 250000 || class.Outstanding != 150000 {
		t.Fatalf("unexpected totals: %+v", class)
	}
	if class.AveragePaymentRate != 62.5 {
		t.Fatalf("average rate = %v, want 62.5", class.AveragePaymentRate)
	}
	if class.Students[0].FullName != "Amina Bello" || class.Students[1].FullName != "Chantal Mbia" {
		t.Fatalf("students not sorted by name: %+v", class.Students)
	}
}

func TestOverallSummary(t *testing.T) {
	env := setupEnv(t)
	env.addStructure(t, "6ème A")
	env.addStructure(t, "5ème B")
	env.addStudent(t, "S001", "Amina Bello", "6ème A")
	env.addStudent(t, "S002", "Chantal Mbia", "5ème B")

	env.pay(t, "S001", 100000, "Acompte")

	overall, err := env.balance.OverallSummary(context.Background(), "2025-2026")
	if err != nil {
		t.Fatalf("overall summary: %v", err)
	}
	if overall.StudentCount != 2 {
		t.Fatalf("student count = %d, want 2", overall.StudentCount)
	}
	if overall.TotalDue != 400000 || overall.TotalPaid != 100000 || overall.Outstanding != 300000 {
		t.Fatalf("unexpected totals: %+v", overall)
	}
	if len(overall.Classes) != 2 {
		t.Fatalf("expected 2 classes, got %d", len(overall.Classes))
	}
	if overall.AveragePaymentRate != 25 {
		t.Fatalf("average rate = %v, want 25", overall.AveragePaymentRate)
	}
}
