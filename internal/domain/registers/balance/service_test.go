package balance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/entity"
	"retailpos/internal/core/types"
	"retailpos/internal/domain/catalogs/customer"
	"retailpos/internal/domain/catalogs/supplier"
)

func money(s string) types.Money { return types.MustMoney(s) }

func day(d int) time.Time {
	return time.Date(2026, 4, d, 0, 0, 0, 0, time.UTC)
}

// --- fakes ---

type fakeLedgerRepo struct {
	invoices map[PartyKind]map[int64][]Entry
	payments map[PartyKind]map[int64][]Entry
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{
		invoices: map[PartyKind]map[int64][]Entry{PartyCustomer: {}, PartySupplier: {}},
		payments: map[PartyKind]map[int64][]Entry{PartyCustomer: {}, PartySupplier: {}},
	}
}

func (f *fakeLedgerRepo) InvoiceEntries(_ context.Context, kind PartyKind, id int64) ([]Entry, error) {
	return f.invoices[kind][id], nil
}

func (f *fakeLedgerRepo) PaymentEntries(_ context.Context, kind PartyKind, id int64) ([]Entry, error) {
	return f.payments[kind][id], nil
}

type fakePayments struct {
	rows []*entity.Payment
}

func (f *fakePayments) Append(_ context.Context, ps ...*entity.Payment) error {
	f.rows = append(f.rows, ps...)
	return nil
}

type fakeCustomers struct {
	customer.Repository
	byID map[int64]*customer.Customer
}

func (f *fakeCustomers) GetByID(_ context.Context, id int64) (*customer.Customer, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, apperror.NewNotFound("customer", id)
	}
	return c, nil
}

func (f *fakeCustomers) GetForUpdate(ctx context.Context, id int64) (*customer.Customer, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeCustomers) AdjustBalance(_ context.Context, id int64, delta types.Money) error {
	f.byID[id].CurrentBalance = f.byID[id].CurrentBalance.Add(delta)
	return nil
}

type fakeSuppliers struct {
	supplier.Repository
	byID map[int64]*supplier.Supplier
}

func (f *fakeSuppliers) GetByID(_ context.Context, id int64) (*supplier.Supplier, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, apperror.NewNotFound("supplier", id)
	}
	return s, nil
}

func (f *fakeSuppliers) GetForUpdate(ctx context.Context, id int64) (*supplier.Supplier, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeSuppliers) AdjustBalance(_ context.Context, id int64, delta types.Money) error {
	f.byID[id].CurrentBalance = f.byID[id].CurrentBalance.Add(delta)
	return nil
}

type fakeShifts struct {
	open *int64
}

func (f *fakeShifts) OpenShiftID(context.Context) (*int64, error) { return f.open, nil }

// passthroughTx runs the function without a database.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newService(repo Repository, pays *fakePayments, custs *fakeCustomers, sups *fakeSuppliers, shifts *fakeShifts) *Service {
	if pays == nil {
		pays = &fakePayments{}
	}
	if custs == nil {
		custs = &fakeCustomers{byID: map[int64]*customer.Customer{}}
	}
	if sups == nil {
		sups = &fakeSuppliers{byID: map[int64]*supplier.Supplier{}}
	}
	if shifts == nil {
		shifts = &fakeShifts{}
	}
	return NewService(repo, pays, custs, sups, shifts, passthroughTx{})
}

// --- tests ---

func TestStatement_CustomerFold(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.invoices[PartyCustomer][7] = []Entry{
		{Date: day(1), Kind: EntryInvoice, Reference: "INV-20260401-0001", Amount: money("200")},
		{Date: day(10), Kind: EntryInvoice, Reference: "INV-20260410-0001", Amount: money("50")},
	}
	repo.payments[PartyCustomer][7] = []Entry{
		{Date: day(5), Kind: EntryPayment, Reference: "PAY-1", Amount: money("120")},
	}

	svc := newService(repo, nil, nil, nil, nil)
	lines, err := svc.Statement(context.Background(), PartyCustomer, 7)
	require.NoError(t, err)
	require.Len(t, lines, 3)

	assert.True(t, lines[0].Debit.Equal(money("200")))
	assert.True(t, lines[0].RunningBalance.Equal(money("200")))
	assert.True(t, lines[1].Credit.Equal(money("120")))
	assert.True(t, lines[1].RunningBalance.Equal(money("80")))
	assert.True(t, lines[2].Debit.Equal(money("50")))
	assert.True(t, lines[2].RunningBalance.Equal(money("130")))
}

func TestStatement_SupplierColumns(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.invoices[PartySupplier][3] = []Entry{
		{Date: day(2), Kind: EntryInvoice, Reference: "PUR-20260402-0001", Amount: money("500")},
	}
	repo.payments[PartySupplier][3] = []Entry{
		{Date: day(8), Kind: EntryPayment, Reference: "PAY-2", Amount: money("200")},
	}

	svc := newService(repo, nil, nil, nil, nil)
	lines, err := svc.Statement(context.Background(), PartySupplier, 3)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	// Supplier convention: invoice in the credit column, payment in debit.
	assert.True(t, lines[0].Credit.Equal(money("500")))
	assert.True(t, lines[1].Debit.Equal(money("200")))
	assert.True(t, lines[1].RunningBalance.Equal(money("300")))
}

func TestVerifyBalance_Reconstruction(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.invoices[PartyCustomer][7] = []Entry{
		{Date: day(1), Kind: EntryInvoice, Reference: "A", Amount: money("200")},
		{Date: day(3), Kind: EntryInvoice, Reference: "B", Amount: money("75.50")},
	}
	repo.payments[PartyCustomer][7] = []Entry{
		{Date: day(2), Kind: EntryPayment, Reference: "P", Amount: money("100")},
	}

	c := customer.New("Ali")
	c.ID = 7
	c.CurrentBalance = money("175.50")
	custs := &fakeCustomers{byID: map[int64]*customer.Customer{7: c}}

	svc := newService(repo, nil, custs, nil, nil)
	cached, derived, err := svc.VerifyBalance(context.Background(), PartyCustomer, 7)
	require.NoError(t, err)
	assert.True(t, cached.Equal(derived), "cached %s derived %s", cached, derived)
}

func TestRecordCustomerPayment(t *testing.T) {
	c := customer.New("Ali")
	c.ID = 7
	c.CurrentBalance = money("150")
	custs := &fakeCustomers{byID: map[int64]*customer.Customer{7: c}}
	pays := &fakePayments{}
	shiftID := int64(4)
	shifts := &fakeShifts{open: &shiftID}

	svc := newService(newFakeLedgerRepo(), pays, custs, nil, shifts)
	p, err := svc.RecordCustomerPayment(context.Background(), 7, money("60"), entity.MethodCash, "partial settle")
	require.NoError(t, err)

	assert.Equal(t, entity.PayIn, p.Direction)
	assert.Equal(t, entity.PayRefCustomerPayment, p.RefType)
	require.NotNil(t, p.ShiftID)
	assert.Equal(t, int64(4), *p.ShiftID)
	assert.True(t, c.CurrentBalance.Equal(money("90")))
	require.Len(t, pays.rows, 1)
}

func TestRecordCustomerPayment_CardSkipsShift(t *testing.T) {
	c := customer.New("Ali")
	c.ID = 7
	custs := &fakeCustomers{byID: map[int64]*customer.Customer{7: c}}
	shiftID := int64(4)

	svc := newService(newFakeLedgerRepo(), &fakePayments{}, custs, nil, &fakeShifts{open: &shiftID})
	p, err := svc.RecordCustomerPayment(context.Background(), 7, money("60"), entity.MethodCard, "")
	require.NoError(t, err)
	assert.Nil(t, p.ShiftID, "non-cash payments never join a shift")
}

func TestRecordSupplierPayment(t *testing.T) {
	s := supplier.New("Acme")
	s.ID = 3
	s.CurrentBalance = money("500")
	sups := &fakeSuppliers{byID: map[int64]*supplier.Supplier{3: s}}
	pays := &fakePayments{}

	svc := newService(newFakeLedgerRepo(), pays, nil, sups, nil)
	p, err := svc.RecordSupplierPayment(context.Background(), 3, money("200"), entity.MethodTransfer, "")
	require.NoError(t, err)

	assert.Equal(t, entity.PayOut, p.Direction)
	assert.Equal(t, entity.PayRefSupplierPayment, p.RefType)
	assert.True(t, s.CurrentBalance.Equal(money("300")))
}

func TestRecordPayment_RejectsNonPositive(t *testing.T) {
	svc := newService(newFakeLedgerRepo(), nil, nil, nil, nil)
	_, err := svc.RecordCustomerPayment(context.Background(), 7, money("0"), entity.MethodCash, "")
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}
