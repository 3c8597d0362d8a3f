package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/caveo/pos-api/internal/domain/entity"
	"github.com/caveo/pos-api/internal/domain/enum"
	"github.com/caveo/pos-api/internal/domain/money"
	"github.com/caveo/pos-api/internal/domain/repository"
	"github.com/caveo/pos-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory repository doubles. They mimic the persistence contract the
// service relies on: aggregates come back fully loaded and value-copied,
// so totals are always recomputed from stored state.

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uuid.UUID]*entity.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	u := *user
	r.users[user.ID] = &u
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := *user
	r.users[user.ID] = &u
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

type memUnitRepo struct {
	mu       sync.Mutex
	units    map[uuid.UUID]*entity.PackagingUnit
	products map[uuid.UUID]*entity.Product
}

func newMemUnitRepo() *memUnitRepo {
	return &memUnitRepo{
		units:    map[uuid.UUID]*entity.PackagingUnit{},
		products: map[uuid.UUID]*entity.Product{},
	}
}

func (r *memUnitRepo) addProduct(p *entity.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
}

func (r *memUnitRepo) Create(ctx context.Context, unit *entity.PackagingUnit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if unit.ID == uuid.Nil {
		unit.ID = uuid.New()
	}
	u := *unit
	r.units[unit.ID] = &u
	return nil
}

func (r *memUnitRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.PackagingUnit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.units[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *memUnitRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.PackagingUnit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.units {
		if u.Barcode == barcode {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memUnitRepo) Update(ctx context.Context, unit *entity.PackagingUnit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := *unit
	r.units[unit.ID] = &u
	return nil
}

func (r *memUnitRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.units, id)
	return nil
}

func (r *memUnitRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]entity.PackagingUnit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.PackagingUnit
	for _, u := range r.units {
		if u.ProductID == productID {
			out = append(out, *u)
		}
	}
	return out, nil
}

type memSaleRepo struct {
	mu    sync.Mutex
	sales map[uuid.UUID]*entity.Sale
	order []uuid.UUID
	users *memUserRepo
	units *memUnitRepo
	seq   int
}

func newMemSaleRepo(users *memUserRepo, units *memUnitRepo) *memSaleRepo {
	return &memSaleRepo{
		sales: map[uuid.UUID]*entity.Sale{},
		users: users,
		units: units,
	}
}

func (r *memSaleRepo) nextTimestamp() time.Time {
	r.seq++
	return time.Unix(0, int64(r.seq)*int64(time.Millisecond))
}

func (r *memSaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	sale.CreatedAt = r.nextTimestamp()
	stored := *sale
	r.sales[sale.ID] = &stored
	r.order = append(r.order, sale.ID)
	return nil
}

func (r *memSaleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (r *memSaleRepo) GetByNumber(ctx context.Context, number string) (*entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sales {
		if s.Number == number {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

// GetWithDetails clones the aggregate with its seller, product and
// packaging unit associations attached, the way Preload would.
func (r *memSaleRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, nil
	}

	copied := *s
	if seller, ok := r.users.users[s.SellerID]; ok {
		copied.Seller = *seller
	}
	copied.Lines = make([]entity.SaleLine, len(s.Lines))
	for i, line := range s.Lines {
		copied.Lines[i] = line
		if unit, ok := r.units.units[line.PackagingUnitID]; ok {
			copied.Lines[i].PackagingUnit = *unit
		}
		if product, ok := r.units.products[line.ProductID]; ok {
			copied.Lines[i].Product = *product
		}
	}
	copied.Payments = append([]entity.Payment(nil), s.Payments...)
	return &copied, nil
}

func (r *memSaleRepo) Update(ctx context.Context, sale *entity.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.sales[sale.ID]
	if !ok {
		return apperror.NewNotFoundError("Sale")
	}
	stored.DiscountKind = sale.DiscountKind
	stored.DiscountValue = sale.DiscountValue
	stored.UpdatedAt = r.nextTimestamp()
	return nil
}

func (r *memSaleRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.SaleStatus, settledAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.sales[id]
	if !ok {
		return apperror.NewNotFoundError("Sale")
	}
	stored.Status = status
	stored.SettledAt = settledAt
	return nil
}

func (r *memSaleRepo) List(ctx context.Context, params *repository.SaleFilterParams) ([]entity.Sale, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Sale
	for _, id := range r.order {
		s := r.sales[id]
		if params.Status != nil && s.Status != *params.Status {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *memSaleRepo) ListDrafts(ctx context.Context, sellerID uuid.UUID) ([]entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Sale
	// Most recent first.
	for i := len(r.order) - 1; i >= 0; i-- {
		s := r.sales[r.order[i]]
		if s.SellerID == sellerID && s.Status == enum.SaleStatusDraft {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *memSaleRepo) CreateLine(ctx context.Context, line *entity.SaleLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sale, ok := r.sales[line.SaleID]
	if !ok {
		return apperror.NewNotFoundError("Sale")
	}
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	line.CreatedAt = r.nextTimestamp()
	sale.Lines = append(sale.Lines, *line)
	return nil
}

func (r *memSaleRepo) UpdateLine(ctx context.Context, line *entity.SaleLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sale, ok := r.sales[line.SaleID]
	if !ok {
		return apperror.NewNotFoundError("Sale")
	}
	for i := range sale.Lines {
		if sale.Lines[i].ID == line.ID {
			sale.Lines[i].Quantity = line.Quantity
			sale.Lines[i].LineDiscount = line.LineDiscount
			return nil
		}
	}
	return apperror.ErrLineNotFound
}

func (r *memSaleRepo) DeleteLine(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sale := range r.sales {
		for i := range sale.Lines {
			if sale.Lines[i].ID == id {
				sale.Lines = append(sale.Lines[:i], sale.Lines[i+1:]...)
				return nil
			}
		}
	}
	return apperror.ErrLineNotFound
}

func (r *memSaleRepo) CreatePayment(ctx context.Context, payment *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sale, ok := r.sales[payment.SaleID]
	if !ok {
		return apperror.NewNotFoundError("Sale")
	}
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	payment.CreatedAt = r.nextTimestamp()
	sale.Payments = append(sale.Payments, *payment)
	return nil
}

type memReceiptRepo struct {
	mu       sync.Mutex
	receipts map[uuid.UUID]*entity.Receipt
}

func newMemReceiptRepo() *memReceiptRepo {
	return &memReceiptRepo{receipts: map[uuid.UUID]*entity.Receipt{}}
}

func (r *memReceiptRepo) Create(ctx context.Context, receipt *entity.Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if receipt.ID == uuid.Nil {
		receipt.ID = uuid.New()
	}
	stored := *receipt
	stored.Lines = append([]entity.ReceiptLine(nil), receipt.Lines...)
	stored.Payments = append([]entity.ReceiptPayment(nil), receipt.Payments...)
	r.receipts[receipt.SaleID] = &stored
	return nil
}

func (r *memReceiptRepo) GetBySaleID(ctx context.Context, saleID uuid.UUID) (*entity.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.receipts[saleID]
	if !ok {
		return nil, nil
	}
	copied := *rec
	copied.Lines = append([]entity.ReceiptLine(nil), rec.Lines...)
	copied.Payments = append([]entity.ReceiptPayment(nil), rec.Payments...)
	return &copied, nil
}

type instantTerminal struct {
	mu         sync.Mutex
	authorized []money.Money
}

func (t *instantTerminal) Authorize(ctx context.Context, amount money.Money) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.authorized = append(t.authorized, amount)
	return "AUTH-TEST0001", nil
}

type saleFixture struct {
	svc      *SaleService
	saleRepo *memSaleRepo
	receipts *memReceiptRepo
	units    *memUnitRepo
	terminal *instantTerminal
	seller   *entity.User
	bottle   *entity.PackagingUnit // 12.50
	caseSix  *entity.PackagingUnit // 70.00
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()

	users := newMemUserRepo()
	units := newMemUnitRepo()
	saleRepo := newMemSaleRepo(users, units)
	receipts := newMemReceiptRepo()
	terminal := &instantTerminal{}

	seller := &entity.User{FirstName: "Claire", LastName: "Moreau", Email: "claire@caveo.fr", Username: "claire", Role: "cashier"}
	require.NoError(t, users.Create(context.Background(), seller))

	product := &entity.Product{ID: uuid.New(), Name: "Chateau Margaux 2015", Slug: "chateau-margaux-2015", Code: "PROD-MARGAUX"}
	units.addProduct(product)

	bottle := &entity.PackagingUnit{ProductID: product.ID, Label: "Bouteille 75cl", Barcode: "37010001", UnitCount: 1, Price: money.FromCents(1250)}
	caseSix := &entity.PackagingUnit{ProductID: product.ID, Label: "Carton de 6", Barcode: "37010002", UnitCount: 6, Price: money.FromCents(7000)}
	require.NoError(t, units.Create(context.Background(), bottle))
	require.NoError(t, units.Create(context.Background(), caseSix))

	return &saleFixture{
		svc:      NewSaleService(saleRepo, receipts, units, users, terminal),
		saleRepo: saleRepo,
		receipts: receipts,
		units:    units,
		terminal: terminal,
		seller:   seller,
		bottle:   bottle,
		caseSix:  caseSix,
	}
}

func (f *saleFixture) newDraft(t *testing.T) *entity.Sale {
	t.Helper()
	sale, err := f.svc.CreateDraftSale(context.Background(), f.seller.ID)
	require.NoError(t, err)
	return sale
}

func TestAddLine_MergesByPackagingUnit(t *testing.T) {
	f := newSaleFixture(t)
	sale := f.newDraft(t)
	ctx := context.Background()

	sale, err := f.svc.AddLine(ctx, sale.ID, f.bottle.ID, 2)
	require.NoError(t, err)
	require.Len(t, sale.Lines, 1)

	sale, err = f.svc.AddLine(ctx, sale.ID, f.bottle.ID, 1)
	require.NoError(t, err)
	require.Len(t, sale.Lines, 1)
	assert.Equal(t, 3, sale.Lines[0].Quantity)

	// A different packaging of the same product is its own line.
	sale, err = f.svc.AddLine(ctx, sale.ID, f.caseSix.ID, 1)
	require.NoError(t, err)
	require.Len(t, sale.Lines, 2)
}

func TestAddLine_CapturesPriceAtAddTime(t *testing.T) {
	f := newSaleFixture(t)
	sale := f.newDraft(t)
	ctx := context.Background()

	sale, err := f.svc.AddLine(ctx, sale.ID, f.bottle.ID, 1)
	require.NoError(t, err)

	// A later catalog price change must not touch the captured price.
	updated := *f.bottle
	updated.Price = money.FromCents(1999)
	require.NoError(t, f.units.Update(ctx, &updated))

	sale, err = f.svc.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, money.FromCents(1250), sale.Lines[0].UnitPrice)
	assert.Equal(t, money.FromCents(1250), sale.Subtotal())
}

func TestAddLine_RejectsInvalidQuantity(t *testing.T) {
	f := newSaleFixture(t)
	sale := f.newDraft(t)

	_, err := f.svc.AddLine(context.Background(), sale.ID, f.bottle.ID, 0)
	assert.ErrorIs(t, err, apperror.ErrInvalidQuantity)
}

func TestSetLineQuantity_RecomputesTotals(t *testing.T) {
	f := newSaleFixture(t)
	sale := f.newDraft(t)
	ctx := context.Background()

	sale, err := f.svc.AddLine(ctx, sale.ID, f.bottle.ID, 2)
	require.NoError(t, err)
	require.Equal(t, money.FromCents(2500), sale.Total())

	sale, err = f.svc.SetLineQuantity(ctx, sale.ID, sale.Lines[0].ID, 5)
	require.NoError(t, err)
	assert.Equal(t, money.FromCents(6250), sale.Subtotal())
	assert.Equal(t, money.FromCents(6250), sale.Total())
	assert.Equal(t, money.FromCents(6250), sale.BalanceDue())

	_, err = f.svc.SetLineQuantity(ctx, sale.ID, sale.Lines[0].ID, 0)
	assert.ErrorIs(t, err, apperror.ErrInvalidQuantity)
}

func TestRemoveLine(t *testing.T) {
	f := newSaleFixture(t)
	sale := f.newDraft(t)
	ctx := context.Background()

	sale, err := f.svc.AddLine(ctx, sale.ID, f.bottle.ID, 2)
	require.NoError(t, err)

	sale, err = f.svc.RemoveLine(ctx, sale.ID, sale.Lines[0].ID)
	require.NoError(t, err)
	assert.Empty(t, sale.Lines)
	assert.True(t, sale.Total().IsZero())

	_, err = f.svc.RemoveLine(ctx, sale.ID, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrLineNotFound)
}

func TestApplyDiscount_PercentageRoundsHalfUp(t *testing.T) {
	f := newSaleFixture(t)
	sale := f.newDraft(t)
	ctx := context.Background()

	// Subtotal 12.50; 5% is 0.625 which rounds up to 0.63.
	sale, err := f.svc.AddLine(ctx, sale.ID, f.bottle.ID, 1)
	require.NoError(t, err)

	sale, err = f.svc.ApplyDiscount(ctx, sale.ID, entity.Discount{Kind: enum.DiscountKindPercentage, Value: 5})
	require.NoError(t, err)
	assert.Equal(t, money.FromCents(63), sale.DiscountAmount())
	assert.Equal(t, money.FromCents(1187), sale.Total())
}

func TestApplyDiscount_FixedAmountClampedToSubtotal(t *testing.T) {
	f := newSaleFixture(t)
	sale := f.newDraft(t)
	ctx := context.Background()

	sale, err := f.svc.AddLine(ctx, sale.ID, f.bottle.ID, 4) // 50.00
	require.NoError(t, err)

	// 80.00 off a 50.00 sale clamps: the total never goes negative.
	sale, err = f.svc.ApplyDiscount(ctx, sale.ID, entity.Discount{Kind: enum.DiscountKindFixedAmount, Value: 8000})
	require.NoError(t, err)
	assert.Equal(t, money.FromCents(5000), sale.DiscountAmount())
	assert.True(t, sale.Total().IsZero())
}

func TestApplyDiscount_ReplacesExisting(t *testing.T) {
	f := newSaleFixture(t)
	sale := f.newDraft(t)
	ctx := context.Background()

	sale, err := f.svc.AddLine(ctx, sale.ID, f.caseSix.ID, 1) // 70.00
	require.NoError(t, err)

	sale, err = f.svc.ApplyDiscount(ctx, sale.ID, entity.Discount{Kind: enum.DiscountKindPercentage, Value: 10})
	require.NoError(t, err)
	require.Equal(t, money.FromCents(700), sale.DiscountAmount())

	sale, err = f.svc.ApplyDiscount(ctx, sale.ID, entity.Discount{Kind: enum.DiscountKindFixedAmount, Value: 500})
	require.NoError(t, err)
	assert.Equal(t, money.FromCents(500), sale.DiscountAmount())
	assert.Equal(t, money.FromCents(6500), sale.Total())
}

func TestApplyDiscount_RejectsOutOfRangeValues(t *testing.T) {
	f := newSaleFixture(t)
	sale := f.newDraft(t)
	ctx := context.Background()

	_, err := f.svc.ApplyDiscount(ctx, sale.ID, entity.Discount{Kind: enum.DiscountKindPercentage, Value: 101})
	assert.ErrorIs(t, err, apperror.ErrInvalidDiscountValue)

	_, err = f.svc.ApplyDiscount(ctx, sale.ID, entity.Discount{Kind: enum.DiscountKindPercentage, Value: 0})
	assert.ErrorIs(t, err, apperror.ErrInvalidDiscountValue)

	_, err = f.svc.ApplyDiscount(ctx, sale.ID, entity.Discount{Kind: enum.DiscountKindFixedAmount, Value: -100})
	assert.ErrorIs(t, err, apperror.ErrInvalidDiscountValue)
}

func TestRemoveDiscount(t *testing.T) {
	f := newSaleFixture(t)
	sale := f.newDraft(t)
	ctx := context.Background()

	sale, err := f.svc.AddLine(ctx, sale.ID, f.caseSix.ID, 1)
	require.NoError(t, err)
	sale, err = f.svc.ApplyDiscount(ctx, sale.ID, entity.Discount{Kind: enum.DiscountKindPercentage, Value: 10})
	require.NoError(t, err)

	sale, err = f.svc.RemoveDiscount(ctx, sale.ID)
	require.NoError(t, err)
	assert.Nil(t, sale.DiscountKind)
	assert.Equal(t, money.FromCents(7000), sale.Total())
}

func TestRecordPayment_SplitAcrossModes(t *testing.T) {
	f := newSaleFixture(t)
	sale := f.newDraft(t)
	ctx := context.Background()

	sale, err := f.svc.AddLine(ctx, sale.ID, f.caseSix.ID, 1) // 70.00
	require.NoError(t, err)

	res, err := f.svc.RecordPayment(ctx, sale.ID, PaymentInput{Mode: enum.PaymentModeCash, Amount: money.FromCents(2000)})
	require.NoError(t, err)
	assert.Equal(t, money.FromCents(2000), res.Payment.Amount)
	assert.Equal(t, money.FromCents(5000), res.Sale.BalanceDue())
	assert.False(t, res.Sale.IsFullyPaid())

	res, err = f.svc.RecordPayment(ctx, sale.ID, PaymentInput{Mode: enum.PaymentModeCard, Amount: money.FromCents(5000)})
	require.NoError(t, err)
	assert.True(t, res.Sale.IsFullyPaid())
	assert.True(t, res.Sale.BalanceDue().IsZero())

	// Payments are kept in submission order.
	require.Len(t, res.Sale.Payments, 2)
	assert.Equal(t, enum.PaymentModeCash, res.Sale.Payments[0].Mode)
	assert.Equal(t, enum.PaymentModeCard, res.Sale.Payments[1].Mode)

	// The card leg went through terminal authorization.
	require.NotNil(t, res.Sale.Payments[1].Reference)
	assert.Equal(t, "AUTH-TEST0001", *res.Sale.Payments[1].Reference)
	assert.Equal(t, []money.Money{money.FromCents(5000)}, f.terminal.authorized)
}

func TestRecordPayment_ClampedToBalanceDue(t *testing.T) {
	f := newSaleFixture(t)
	sale := f.newDraft(t)
	ctx := context.Background()

	sale, err := f.svc.AddLine(ctx, sale.ID, f.bottle.ID, 1) // 12.50
	require.NoError(t, err)

	res, err := f.svc.RecordPayment(ctx, sale.ID, PaymentInput{Mode: enum.PaymentModeCard, Amount: money.FromCents(2000)})
	require.NoError(t, err)
	assert.Equal(t, money.FromCents(1250), res.Payment.Amount)
	assert.True(t, res.Sale.BalanceDue().IsZero())
}

func TestRecordPayment_CashChange(t *testing.T) {
	f := newSaleFixture(t)
	sale := f.newDraft(t)
	ctx := context.Background()

	// Two bottles minus a 6.50 fixed discount leaves 18.50 due.
	sale, err := f.svc.AddLine(ctx, sale.ID, f.bottle.ID, 2) // 25.00
	require.NoError(t, err)
	sale, err = f.svc.ApplyDiscount(ctx, sale.ID, entity.Discount{Kind: enum.DiscountKindFixedAmount, Value: 650})
	require.NoError(t, err)
	require.Equal(t, money.FromCents(1850), sale.BalanceDue())

	tendered := money.FromCents(2000)
	res, err := f.svc.RecordPayment(ctx, sale.ID, PaymentInput{
		Mode:           enum.PaymentModeCash,
		Amount:         tendered,
		AmountTendered: &tendered,
	})
	require.NoError(t, err)
	assert.Equal(t, money.FromCents(1850), res.Payment.Amount)
	assert.Equal(t, money.FromCents(150), res.ChangeDue)
	assert.True(t, res.Sale.IsFullyPaid())
}

func TestRecordPayment_Guards(t *testing.T) {
	f := newSaleFixture(t)
	sale := f.newDraft(t)
	ctx := context.Background()

	// Empty sale takes no payment.
	_, err := f.svc.RecordPayment(ctx, sale.ID, PaymentInput{Mode: enum.PaymentModeCash, Amount: money.FromCents(100)})
	assert.ErrorIs(t, err, apperror.ErrSaleEmpty)

	sale, err = f.svc.AddLine(ctx, sale.ID, f.bottle.ID, 1)
	require.NoError(t, err)

	_, err = f.svc.RecordPayment(ctx, sale.ID, PaymentInput{Mode: enum.PaymentModeCash, Amount: money.FromCents(0)})
	assert.ErrorIs(t, err, apperror.ErrInvalidPaymentAmount)

	// Pay in full, then any further payment is rejected.
	_, err = f.svc.RecordPayment(ctx, sale.ID, PaymentInput{Mode: enum.PaymentModeCash, Amount: money.FromCents(1250)})
	require.NoError(t, err)
	_, err = f.svc.RecordPayment(ctx, sale.ID, PaymentInput{Mode: enum.PaymentModeCash, Amount: money.FromCents(100)})
	assert.ErrorIs(t, err, apperror.ErrSaleAlreadySettled)
}

func TestCartLockedAfterFirstPayment(t *testing.T) {
	f := newSaleFixture(t)
	sale := f.newDraft(t)
	ctx := context.Background()

	sale, err := f.svc.AddLine(ctx, sale.ID, f.caseSix.ID, 1)
	require.NoError(t, err)
	_, err = f.svc.RecordPayment(ctx, sale.ID, PaymentInput{Mode: enum.PaymentModeCash, Amount: money.FromCents(1000)})
	require.NoError(t, err)

	_, err = f.svc.AddLine(ctx, sale.ID, f.bottle.ID, 1)
	assert.ErrorIs(t, err, apperror.ErrSaleLocked)
	_, err = f.svc.SetLineQuantity(ctx, sale.ID, sale.Lines[0].ID, 2)
	assert.ErrorIs(t, err, apperror.ErrSaleLocked)
	_, err = f.svc.RemoveLine(ctx, sale.ID, sale.Lines[0].ID)
	assert.ErrorIs(t, err, apperror.ErrSaleLocked)
	_, err = f.svc.ApplyDiscount(ctx, sale.ID, entity.Discount{Kind: enum.DiscountKindPercentage, Value: 10})
	assert.ErrorIs(t, err, apperror.ErrSaleLocked)
	_, err = f.svc.RemoveDiscount(ctx, sale.ID)
	assert.ErrorIs(t, err, apperror.ErrSaleLocked)
}

func TestFinalize_RequiresLinesAndFullPayment(t *testing.T) {
	f := newSaleFixture(t)
	sale := f.newDraft(t)
	ctx := context.Background()

	_, _, err := f.svc.Finalize(ctx, sale.ID)
	assert.ErrorIs(t, err, apperror.ErrSaleEmpty)

	sale, err = f.svc.AddLine(ctx, sale.ID, f.bottle.ID, 1)
	require.NoError(t, err)

	_, _, err = f.svc.Finalize(ctx, sale.ID)
	assert.ErrorIs(t, err, apperror.ErrSaleNotFullyPaid)

	_, err = f.svc.RecordPayment(ctx, sale.ID, PaymentInput{Mode: enum.PaymentModeCash, Amount: money.FromCents(1000)})
	require.NoError(t, err)

	_, _, err = f.svc.Finalize(ctx, sale.ID)
	assert.ErrorIs(t, err, apperror.ErrSaleNotFullyPaid)
}

func TestFinalize_ProjectsImmutableReceipt(t *testing.T) {
	f := newSaleFixture(t)
	sale := f.newDraft(t)
	ctx := context.Background()

	sale, err := f.svc.AddLine(ctx, sale.ID, f.bottle.ID, 2) // 25.00
	require.NoError(t, err)
	sale, err = f.svc.ApplyDiscount(ctx, sale.ID, entity.Discount{Kind: enum.DiscountKindPercentage, Value: 10})
	require.NoError(t, err)
	_, err = f.svc.RecordPayment(ctx, sale.ID, PaymentInput{Mode: enum.PaymentModeCard, Amount: money.FromCents(2250)})
	require.NoError(t, err)

	settled, receipt, err := f.svc.Finalize(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.SaleStatusPaid, settled.Status)
	require.NotNil(t, settled.SettledAt)

	require.NotNil(t, receipt)
	assert.Equal(t, sale.Number, receipt.Number)
	assert.Equal(t, "Claire Moreau", receipt.SellerName)
	assert.Equal(t, money.FromCents(2500), receipt.Subtotal)
	assert.Equal(t, money.FromCents(250), receipt.DiscountAmount)
	assert.Equal(t, money.FromCents(2250), receipt.Total)
	assert.Equal(t, money.FromCents(2250), receipt.AmountPaid)
	require.Len(t, receipt.Lines, 1)
	assert.Equal(t, "Chateau Margaux 2015", receipt.Lines[0].ProductName)
	assert.Equal(t, "Bouteille 75cl", receipt.Lines[0].PackagingLabel)

	// Catalog changes after settlement never reach the snapshot.
	renamed := *f.bottle
	renamed.Label = "Bouteille 75cl (nouvelle etiquette)"
	renamed.Price = money.FromCents(2999)
	require.NoError(t, f.units.Update(ctx, &renamed))

	stored, err := f.svc.GetReceipt(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bouteille 75cl", stored.Lines[0].PackagingLabel)
	assert.Equal(t, money.FromCents(1250), stored.Lines[0].UnitPrice)
}

func TestFinalize_Idempotent(t *testing.T) {
	f := newSaleFixture(t)
	sale := f.newDraft(t)
	ctx := context.Background()

	sale, err := f.svc.AddLine(ctx, sale.ID, f.bottle.ID, 1)
	require.NoError(t, err)
	_, err = f.svc.RecordPayment(ctx, sale.ID, PaymentInput{Mode: enum.PaymentModeCash, Amount: money.FromCents(1250)})
	require.NoError(t, err)

	_, first, err := f.svc.Finalize(ctx, sale.ID)
	require.NoError(t, err)

	settled, second, err := f.svc.Finalize(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.SaleStatusPaid, settled.Status)
	assert.Equal(t, first.ID, second.ID)
}

func TestCancel(t *testing.T) {
	f := newSaleFixture(t)
	sale := f.newDraft(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Cancel(ctx, sale.ID))

	reloaded, err := f.svc.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.SaleStatusCancelled, reloaded.Status)

	// Terminal states refuse further transitions.
	assert.ErrorIs(t, f.svc.Cancel(ctx, sale.ID), apperror.ErrSaleAlreadySettled)
	_, err = f.svc.AddLine(ctx, sale.ID, f.bottle.ID, 1)
	assert.ErrorIs(t, err, apperror.ErrSaleAlreadySettled)
}

func TestListDraftSales_MostRecentFirst(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	first := f.newDraft(t)
	second := f.newDraft(t)

	drafts, err := f.svc.ListDraftSales(ctx, f.seller.ID)
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, second.ID, drafts[0].ID)
	assert.Equal(t, first.ID, drafts[1].ID)
}
