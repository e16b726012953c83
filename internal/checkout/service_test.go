package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/order"
	"storefront/internal/payment/card"
	"storefront/internal/payment/crypto"
)

type memorySessionRepo struct {
	sessions map[string]domain.CheckoutSession
}

func newMemorySessionRepo() *memorySessionRepo {
	return &memorySessionRepo{sessions: make(map[string]domain.CheckoutSession)}
}

func (r *memorySessionRepo) Create(_ context.Context, session domain.CheckoutSession) (*domain.CheckoutSession, error) {
	session.CreatedAt = time.Now().UTC()
	session.UpdatedAt = session.CreatedAt
	r.sessions[session.ID] = session
	out := session
	return &out, nil
}

func (r *memorySessionRepo) GetByID(_ context.Context, id string) (*domain.CheckoutSession, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := session
	return &out, nil
}

func (r *memorySessionRepo) Update(_ context.Context, session domain.CheckoutSession) (*domain.CheckoutSession, error) {
	if _, ok := r.sessions[session.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	session.UpdatedAt = time.Now().UTC()
	r.sessions[session.ID] = session
	out := session
	return &out, nil
}

type stubCardProcessor struct {
	intent *card.Intent
	err    error
	calls  int
}

func (p *stubCardProcessor) CreateIntent(context.Context, card.IntentInput) (*card.Intent, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.intent, nil
}

type stubCryptoProvider struct {
	invoice *crypto.Invoice
	err     error
	calls   int
	lastIn  crypto.InvoiceInput
}

func (p *stubCryptoProvider) CreateInvoice(_ context.Context, in crypto.InvoiceInput) (*crypto.Invoice, error) {
	p.calls++
	p.lastIn = in
	if p.err != nil {
		return nil, p.err
	}
	if p.invoice != nil {
		out := *p.invoice
		if out.ID == "" {
			out.ID = in.OrderCode
		}
		return &out, nil
	}
	return &crypto.Invoice{ID: in.OrderCode, PayAddress: "bc1qstub", PayAmountBTC: decimal.RequireFromString("0.0018")}, nil
}

type recordingOrders struct {
	created []order.CreateInput
	err     error
	events  *[]string
}

func (o *recordingOrders) Create(_ context.Context, in order.CreateInput) (*domain.Order, error) {
	if o.err != nil {
		return nil, o.err
	}
	o.created = append(o.created, in)
	if o.events != nil {
		*o.events = append(*o.events, "order:"+in.Code)
	}
	return &domain.Order{
		Code:         in.Code,
		Customer:     in.Customer,
		TotalCents:   in.Totals.TotalCents,
		Currency:     in.Currency,
		Method:       in.Method,
		ProcessorRef: in.ProcessorRef,
		Instructions: in.Instructions,
		Status:       in.Status,
		ExpiresAt:    in.ExpiresAt,
	}, nil
}

type queuedMail struct {
	Template  string
	Recipient string
	OrderCode string
	Payload   map[string]interface{}
}

type recordingNotifier struct {
	queued []queuedMail
	events *[]string
}

func (n *recordingNotifier) Enqueue(_ context.Context, template, recipient, orderCode string, payload map[string]interface{}) error {
	n.queued = append(n.queued, queuedMail{Template: template, Recipient: recipient, OrderCode: orderCode, Payload: payload})
	if n.events != nil {
		*n.events = append(*n.events, "mail:"+template)
	}
	return nil
}

type fixture struct {
	service  *Service
	sessions *memorySessionRepo
	carts    cart.Store
	cards    *stubCardProcessor
	provider *stubCryptoProvider
	fallback *stubCryptoProvider
	orders   *recordingOrders
	notify   *recordingNotifier
	events   []string
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	f := &fixture{
		sessions: newMemorySessionRepo(),
		carts:    cart.NewMemory(),
		cards:    &stubCardProcessor{intent: &card.Intent{ID: "pi_test", ClientSecret: "pi_test_secret"}},
		provider: &stubCryptoProvider{},
		fallback: &stubCryptoProvider{invoice: &crypto.Invoice{PayAddress: "bc1qfallback", PayAmountBTC: decimal.RequireFromString("0.002")}},
		orders:   &recordingOrders{},
		notify:   &recordingNotifier{},
	}
	f.orders.events = &f.events
	f.notify.events = &f.events
	f.service = New(cfg, Deps{
		Sessions: f.sessions,
		Carts:    f.carts,
		Cards:    f.cards,
		Provider: f.provider,
		Fallback: f.fallback,
		Rates:    crypto.StaticRateSource{Rate: decimal.NewFromInt(60000)},
		Orders:   f.orders,
		Notify:   f.notify,
	}, nil)
	return f
}

func testConfig() Config {
	return Config{
		Currency:         "USD",
		TaxRateBps:       800,
		CashRecipientTag: "$storefront",
		OperatorEmail:    "ops@example.com",
	}
}

var testCustomer = domain.CustomerInfo{
	Name:  "Ada Lovelace",
	Email: "ada@example.com",
	Phone: "555-0100",
}

func testCartItems() []domain.CartItem {
	return []domain.CartItem{
		{ProductID: "p1", Name: "Ceramic Mug", ProcessorName: "Mug", UnitPriceCents: 2500, Quantity: 4},
	}
}

// seedCart fills the cart and returns its session id.
func (f *fixture) seedCart(t *testing.T, items []domain.CartItem) string {
	t.Helper()
	const cartID = "cart-1"
	require.NoError(t, f.carts.Set(context.Background(), cartID, items))
	return cartID
}

// advanceToExecuting walks a fresh session through steps 1 and 2.
func (f *fixture) advanceToExecuting(t *testing.T, method domain.PaymentMethod) *domain.CheckoutSession {
	t.Helper()
	ctx := context.Background()
	cartID := f.seedCart(t, testCartItems())
	session, err := f.service.Start(ctx, cartID)
	require.NoError(t, err)
	session, err = f.service.SubmitCustomerInfo(ctx, session.ID, testCustomer)
	require.NoError(t, err)
	session, err = f.service.SelectPayment(ctx, session.ID, method)
	require.NoError(t, err)
	require.Equal(t, domain.CheckoutStateExecutingPayment, session.State)
	return session
}

func TestStartRequiresNonEmptyCart(t *testing.T) {
	f := newFixture(t, testConfig())
	_, err := f.service.Start(context.Background(), "missing-cart")
	assert.Error(t, err)
}

func TestStartOpensSessionAtStepOne(t *testing.T) {
	f := newFixture(t, testConfig())
	cartID := f.seedCart(t, testCartItems())

	session, err := f.service.Start(context.Background(), cartID)
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, cartID, session.CartSessionID)
	assert.Equal(t, domain.CheckoutStateCollectingInfo, session.State)
	assert.False(t, session.Committed)
}

func TestSubmitCustomerInfoValidates(t *testing.T) {
	f := newFixture(t, testConfig())
	cartID := f.seedCart(t, testCartItems())
	session, err := f.service.Start(context.Background(), cartID)
	require.NoError(t, err)

	_, err = f.service.SubmitCustomerInfo(context.Background(), session.ID, domain.CustomerInfo{Name: "Ada"})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)

	// Session stays on step 1 after a rejected submit.
	current, err := f.service.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStateCollectingInfo, current.State)
}

func TestSubmitCustomerInfoRequiresShippingWhenConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.CollectShipping = true
	f := newFixture(t, cfg)
	cartID := f.seedCart(t, testCartItems())
	session, err := f.service.Start(context.Background(), cartID)
	require.NoError(t, err)

	_, err = f.service.SubmitCustomerInfo(context.Background(), session.ID, testCustomer)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)

	full := testCustomer
	full.Address = "1 Main St"
	full.City = "Springfield"
	full.State = "IL"
	full.Zip = "62701"
	updated, err := f.service.SubmitCustomerInfo(context.Background(), session.ID, full)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStateSelectingPayment, updated.State)
}

func TestSelectPaymentRejectsUnknownMethod(t *testing.T) {
	f := newFixture(t, testConfig())
	cartID := f.seedCart(t, testCartItems())
	ctx := context.Background()
	session, err := f.service.Start(ctx, cartID)
	require.NoError(t, err)
	session, err = f.service.SubmitCustomerInfo(ctx, session.ID, testCustomer)
	require.NoError(t, err)

	_, err = f.service.SelectPayment(ctx, session.ID, domain.PaymentMethod("paypal"))
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestSelectPaymentCardCreatesIntent(t *testing.T) {
	f := newFixture(t, testConfig())
	session := f.advanceToExecuting(t, domain.PaymentMethodCard)

	assert.Equal(t, 1, f.cards.calls)
	assert.Equal(t, "pi_test", session.IntentID)
	assert.Equal(t, "pi_test_secret", session.ClientSecret)
}

func TestSelectPaymentCardFailureStaysOnStepTwo(t *testing.T) {
	f := newFixture(t, testConfig())
	f.cards.err = errors.New("processor down")
	cartID := f.seedCart(t, testCartItems())
	ctx := context.Background()
	session, err := f.service.Start(ctx, cartID)
	require.NoError(t, err)
	session, err = f.service.SubmitCustomerInfo(ctx, session.ID, testCustomer)
	require.NoError(t, err)

	_, err = f.service.SelectPayment(ctx, session.ID, domain.PaymentMethodCard)
	var provider *ProviderError
	require.ErrorAs(t, err, &provider)

	current, err := f.service.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStateSelectingPayment, current.State)
	assert.Empty(t, current.IntentID)
}

func TestSelectPaymentCardReusesIntentAfterBack(t *testing.T) {
	f := newFixture(t, testConfig())
	session := f.advanceToExecuting(t, domain.PaymentMethodCard)
	ctx := context.Background()

	session, err := f.service.Back(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStateSelectingPayment, session.State)

	session, err = f.service.SelectPayment(ctx, session.ID, domain.PaymentMethodCard)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cards.calls, "re-selecting card must not create a second intent")
	assert.Equal(t, "pi_test", session.IntentID)
}

func TestBackPreservesCustomerAndMethod(t *testing.T) {
	f := newFixture(t, testConfig())
	session := f.advanceToExecuting(t, domain.PaymentMethodCash)
	ctx := context.Background()

	session, err := f.service.Back(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStateSelectingPayment, session.State)
	assert.Equal(t, testCustomer, session.Customer)
	assert.Equal(t, domain.PaymentMethodCash, session.Method)

	session, err = f.service.Back(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStateCollectingInfo, session.State)
	assert.Equal(t, testCustomer, session.Customer)

	_, err = f.service.Back(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestConfirmCardSucceededCommitsOnce(t *testing.T) {
	f := newFixture(t, testConfig())
	session := f.advanceToExecuting(t, domain.PaymentMethodCard)
	ctx := context.Background()

	result, err := f.service.ConfirmCard(ctx, session.ID, "succeeded", "pi_test")
	require.NoError(t, err)
	assert.Equal(t, card.OutcomeSucceeded, result.Outcome)
	require.NotEmpty(t, result.OrderCode)

	require.Len(t, f.orders.created, 1)
	placed := f.orders.created[0]
	assert.Equal(t, result.OrderCode, placed.Code)
	assert.Equal(t, domain.OrderStatusPaid, placed.Status)
	assert.Equal(t, domain.PaymentMethodCard, placed.Method)
	assert.Equal(t, "pi_test", placed.ProcessorRef)
	assert.Equal(t, int64(10800), placed.Totals.TotalCents)

	assert.True(t, result.Session.Committed)
	assert.Equal(t, domain.CheckoutStateComplete, result.Session.State)
	assert.Empty(t, result.Session.ClientSecret, "client secret must not survive commit")

	// Cart cleared after commit.
	items, err := f.carts.Get(ctx, session.CartSessionID)
	require.NoError(t, err)
	assert.Empty(t, items)

	// Customer receipt and operator alert, queued after the insert.
	require.Len(t, f.notify.queued, 2)
	assert.Equal(t, "ada@example.com", f.notify.queued[0].Recipient)
	assert.Equal(t, "ops@example.com", f.notify.queued[1].Recipient)
	require.Len(t, f.events, 3)
	assert.Equal(t, "order:"+result.OrderCode, f.events[0])
}

func TestConfirmCardIdempotentAfterCommit(t *testing.T) {
	f := newFixture(t, testConfig())
	session := f.advanceToExecuting(t, domain.PaymentMethodCard)
	ctx := context.Background()

	first, err := f.service.ConfirmCard(ctx, session.ID, "succeeded", "pi_test")
	require.NoError(t, err)

	second, err := f.service.ConfirmCard(ctx, session.ID, "succeeded", "pi_test")
	require.NoError(t, err)
	assert.Equal(t, first.OrderCode, second.OrderCode)
	assert.Len(t, f.orders.created, 1, "a second success callback must not create a second order")
	assert.Len(t, f.notify.queued, 2)
}

func TestConfirmCardPendingAndFailedCreateNoOrder(t *testing.T) {
	for _, status := range []string{"processing", "requires_action", "canceled"} {
		t.Run(status, func(t *testing.T) {
			f := newFixture(t, testConfig())
			session := f.advanceToExecuting(t, domain.PaymentMethodCard)

			result, err := f.service.ConfirmCard(context.Background(), session.ID, status, "pi_test")
			require.NoError(t, err)
			assert.NotEqual(t, card.OutcomeSucceeded, result.Outcome)
			assert.Empty(t, result.OrderCode)
			assert.Empty(t, f.orders.created)
			assert.Empty(t, f.notify.queued)
			assert.False(t, result.Session.Committed)
			assert.Equal(t, domain.CheckoutStateExecutingPayment, result.Session.State)
		})
	}
}

func TestConfirmCardRejectsForeignPaymentID(t *testing.T) {
	f := newFixture(t, testConfig())
	session := f.advanceToExecuting(t, domain.PaymentMethodCard)

	_, err := f.service.ConfirmCard(context.Background(), session.ID, "succeeded", "pi_other")
	var provider *ProviderError
	assert.ErrorAs(t, err, &provider)
	assert.Empty(t, f.orders.created)
}

func TestConfirmCardPersistenceFailureCarriesPaymentRef(t *testing.T) {
	f := newFixture(t, testConfig())
	f.orders.err = errors.New("connection reset")
	session := f.advanceToExecuting(t, domain.PaymentMethodCard)

	_, err := f.service.ConfirmCard(context.Background(), session.ID, "succeeded", "pi_test")
	var persistence *PersistenceError
	require.ErrorAs(t, err, &persistence)
	assert.Equal(t, "pi_test", persistence.PaymentRef)
	assert.Contains(t, persistence.Error(), "pi_test")
	assert.Empty(t, f.notify.queued, "no mail without an order row")
}

func TestExecuteBitcoinHappyPath(t *testing.T) {
	f := newFixture(t, testConfig())
	session := f.advanceToExecuting(t, domain.PaymentMethodBitcoin)
	ctx := context.Background()

	before := time.Now().UTC()
	result, err := f.service.ExecuteBitcoin(ctx, session.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, f.provider.calls)
	assert.Zero(t, f.fallback.calls)
	assert.True(t, result.Rate.Equal(decimal.NewFromInt(60000)))
	assert.True(t, f.provider.lastIn.Rate.Equal(result.Rate), "the flow's single rate fetch is handed to the provider")
	assert.NotEmpty(t, result.PayAddress)
	assert.True(t, result.PayAmountBTC.IsPositive())

	require.Len(t, f.orders.created, 1)
	placed := f.orders.created[0]
	assert.Equal(t, domain.OrderStatusPending, placed.Status)
	assert.Equal(t, domain.PaymentMethodBitcoin, placed.Method)
	assert.Equal(t, result.OrderCode, placed.Code)
	require.NotNil(t, placed.ExpiresAt)
	assert.WithinDuration(t, before.Add(time.Hour), *placed.ExpiresAt, 5*time.Second)

	items, err := f.carts.Get(ctx, session.CartSessionID)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.True(t, result.Session.Committed)
	assert.Len(t, f.notify.queued, 2)
}

func TestExecuteBitcoinFallsBackToOfflineProvider(t *testing.T) {
	f := newFixture(t, testConfig())
	f.provider.err = errors.New("processor timeout")
	session := f.advanceToExecuting(t, domain.PaymentMethodBitcoin)

	result, err := f.service.ExecuteBitcoin(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.provider.calls)
	assert.Equal(t, 1, f.fallback.calls)
	assert.Equal(t, "bc1qfallback", result.PayAddress)
	assert.True(t, result.PayAmountBTC.IsPositive())

	// Still a pending order with an expiry; the customer is never dead-ended.
	require.Len(t, f.orders.created, 1)
	assert.Equal(t, domain.OrderStatusPending, f.orders.created[0].Status)
	require.NotNil(t, f.orders.created[0].ExpiresAt)
	assert.Len(t, f.notify.queued, 2)
}

func TestExecuteBitcoinBothProvidersDown(t *testing.T) {
	f := newFixture(t, testConfig())
	f.provider.err = errors.New("processor timeout")
	f.fallback.err = errors.New("no rate")
	session := f.advanceToExecuting(t, domain.PaymentMethodBitcoin)

	_, err := f.service.ExecuteBitcoin(context.Background(), session.ID)
	var provider *ProviderError
	require.ErrorAs(t, err, &provider)
	assert.Empty(t, f.orders.created)

	current, err := f.service.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.False(t, current.Committed)
}

func TestExecuteBitcoinRequiresBitcoinMethod(t *testing.T) {
	f := newFixture(t, testConfig())
	session := f.advanceToExecuting(t, domain.PaymentMethodCash)

	_, err := f.service.ExecuteBitcoin(context.Background(), session.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestExecuteCash(t *testing.T) {
	f := newFixture(t, testConfig())
	session := f.advanceToExecuting(t, domain.PaymentMethodCash)

	before := time.Now().UTC()
	result, err := f.service.ExecuteCash(context.Background(), session.ID)
	require.NoError(t, err)

	assert.Equal(t, "$storefront", result.Instruction.RecipientTag)
	assert.Equal(t, "108.00", result.Instruction.Amount)
	assert.Equal(t, result.OrderCode, result.Instruction.Memo)
	assert.Len(t, result.Instruction.Steps, 5)

	require.Len(t, f.orders.created, 1)
	placed := f.orders.created[0]
	assert.Equal(t, domain.OrderStatusPending, placed.Status)
	assert.Equal(t, domain.PaymentMethodCash, placed.Method)
	assert.Equal(t, result.Instruction.Rendered, placed.Instructions)
	require.NotNil(t, placed.ExpiresAt)
	assert.WithinDuration(t, before.Add(2*time.Hour), *placed.ExpiresAt, 5*time.Second)

	assert.True(t, result.Session.Committed)
	assert.Len(t, f.notify.queued, 2)
}

func TestCommittedSessionRefusesFurtherSteps(t *testing.T) {
	f := newFixture(t, testConfig())
	session := f.advanceToExecuting(t, domain.PaymentMethodCash)
	_, err := f.service.ExecuteCash(context.Background(), session.ID)
	require.NoError(t, err)

	_, err = f.service.Back(context.Background(), session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionCommitted)
	_, err = f.service.SubmitCustomerInfo(context.Background(), session.ID, testCustomer)
	assert.ErrorIs(t, err, domain.ErrSessionCommitted)
	_, err = f.service.SelectPayment(context.Background(), session.ID, domain.PaymentMethodCard)
	assert.ErrorIs(t, err, domain.ErrSessionCommitted)
	_, err = f.service.ExecuteCash(context.Background(), session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionCommitted)
}

func TestSummaryReflectsCartEdits(t *testing.T) {
	f := newFixture(t, testConfig())
	ctx := context.Background()
	cartID := f.seedCart(t, testCartItems())
	session, err := f.service.Start(ctx, cartID)
	require.NoError(t, err)

	_, totals, err := f.service.Summary(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, int64(10800), totals.TotalCents)

	items := testCartItems()
	items[0].Quantity = 2
	require.NoError(t, f.carts.Set(ctx, cartID, items))

	_, totals, err = f.service.Summary(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, int64(5400), totals.TotalCents)
}
