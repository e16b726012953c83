package checkout

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/order"
	"storefront/internal/payment/card"
	"storefront/internal/payment/crypto"
	"storefront/internal/pricing"
)

// Config parameterizes the single checkout wizard. The source system had
// several near-duplicate checkout variants; they collapse into these flags.
type Config struct {
	Currency          string
	TaxRateBps        int64
	CollectShipping   bool
	CryptoCallbackURL string
	CashRecipientTag  string
	BitcoinExpiry     time.Duration
	CashExpiry        time.Duration
	OperatorEmail     string
}

func (c Config) withDefaults() Config {
	if c.Currency == "" {
		c.Currency = "USD"
	}
	if c.BitcoinExpiry == 0 {
		c.BitcoinExpiry = time.Hour
	}
	if c.CashExpiry == 0 {
		c.CashExpiry = 2 * time.Hour
	}
	return c
}

type sessionRepo interface {
	Create(ctx context.Context, session domain.CheckoutSession) (*domain.CheckoutSession, error)
	GetByID(ctx context.Context, id string) (*domain.CheckoutSession, error)
	Update(ctx context.Context, session domain.CheckoutSession) (*domain.CheckoutSession, error)
}

type orderService interface {
	Create(ctx context.Context, in order.CreateInput) (*domain.Order, error)
}

type notifier interface {
	Enqueue(ctx context.Context, template, recipient, orderCode string, payload map[string]interface{}) error
}

// Service drives the three-step wizard and exactly one payment flow per
// session. Totals are recomputed from the cart store at every step; the
// cart is never cached across calls.
type Service struct {
	cfg      Config
	sessions sessionRepo
	carts    cart.Store
	cards    card.Processor
	provider crypto.Provider
	fallback crypto.Provider
	rates    crypto.RateSource
	orders   orderService
	notify   notifier
	logger   *log.Logger
}

// Deps are the orchestrator's collaborators. Provider may be nil when no
// crypto processor is configured; Fallback must not be.
type Deps struct {
	Sessions sessionRepo
	Carts    cart.Store
	Cards    card.Processor
	Provider crypto.Provider
	Fallback crypto.Provider
	Rates    crypto.RateSource
	Orders   orderService
	Notify   notifier
}

func New(cfg Config, deps Deps, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		cfg:      cfg.withDefaults(),
		sessions: deps.Sessions,
		carts:    deps.Carts,
		cards:    deps.Cards,
		provider: deps.Provider,
		fallback: deps.Fallback,
		rates:    deps.Rates,
		orders:   deps.Orders,
		notify:   deps.Notify,
		logger:   logger,
	}
}

// Start opens a session for a non-empty cart.
func (s *Service) Start(ctx context.Context, cartSessionID string) (*domain.CheckoutSession, error) {
	items, err := s.carts.Get(ctx, cartSessionID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.New("cart is empty")
	}
	return s.sessions.Create(ctx, domain.CheckoutSession{
		ID:            uuid.NewString(),
		CartSessionID: cartSessionID,
		State:         domain.CheckoutStateCollectingInfo,
	})
}

// Get returns the session without side effects.
func (s *Service) Get(ctx context.Context, sessionID string) (*domain.CheckoutSession, error) {
	return s.sessions.GetByID(ctx, sessionID)
}

// Summary recomputes the price breakdown for the session's cart. Called
// fresh on every step so line adjustments up through step 2 are reflected.
func (s *Service) Summary(ctx context.Context, session *domain.CheckoutSession) ([]domain.CartItem, pricing.Totals, error) {
	items, err := s.carts.Get(ctx, session.CartSessionID)
	if err != nil {
		return nil, pricing.Totals{}, err
	}
	return items, pricing.Calculate(items, s.cfg.TaxRateBps), nil
}

// SubmitCustomerInfo validates step 1 and advances to payment selection.
func (s *Service) SubmitCustomerInfo(ctx context.Context, sessionID string, info domain.CustomerInfo) (*domain.CheckoutSession, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Committed {
		return nil, domain.ErrSessionCommitted
	}
	if session.State != domain.CheckoutStateCollectingInfo {
		return nil, domain.ErrInvalidTransition
	}
	if err := info.Validate(s.cfg.CollectShipping); err != nil {
		return nil, &ValidationError{Err: err}
	}
	session.Customer = info
	session.State = domain.CheckoutStateSelectingPayment
	return s.sessions.Update(ctx, *session)
}

// SelectPayment records the chosen provider and advances to execution.
// For the card method the transition only completes after a successful
// payment-intent creation; an existing intent on the session is reused so
// user-initiated retries do not double-create.
func (s *Service) SelectPayment(ctx context.Context, sessionID string, method domain.PaymentMethod) (*domain.CheckoutSession, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Committed {
		return nil, domain.ErrSessionCommitted
	}
	if session.State != domain.CheckoutStateSelectingPayment {
		return nil, domain.ErrInvalidTransition
	}
	if !method.Valid() {
		return nil, &ValidationError{Err: errors.New("payment method required")}
	}

	if method == domain.PaymentMethodCard && session.IntentID == "" {
		items, totals, err := s.Summary(ctx, session)
		if err != nil {
			return nil, err
		}
		intent, err := s.cards.CreateIntent(ctx, card.IntentInput{
			AmountCents: totals.TotalCents,
			Currency:    s.cfg.Currency,
			Email:       session.Customer.Email,
			Name:        session.Customer.Name,
			Items:       items,
		})
		if err != nil {
			// Stay on step 2; the user retries by re-clicking.
			return nil, &ProviderError{Err: err}
		}
		session.IntentID = intent.ID
		session.ClientSecret = intent.ClientSecret
	}

	session.Method = method
	session.State = domain.CheckoutStateExecutingPayment
	return s.sessions.Update(ctx, *session)
}

// Back navigates one step backwards without losing entered customer info
// or the previously selected payment method. Refused once the session has
// committed an order.
func (s *Service) Back(ctx context.Context, sessionID string) (*domain.CheckoutSession, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Committed {
		return nil, domain.ErrSessionCommitted
	}
	var prev domain.CheckoutState
	switch session.State {
	case domain.CheckoutStateExecutingPayment:
		prev = domain.CheckoutStateSelectingPayment
	case domain.CheckoutStateSelectingPayment:
		prev = domain.CheckoutStateCollectingInfo
	default:
		return nil, domain.ErrInvalidTransition
	}
	if !domain.CanTransitionTo(session.State, prev) {
		return nil, domain.ErrInvalidTransition
	}
	session.State = prev
	return s.sessions.Update(ctx, *session)
}

// complete commits the session terminally. Backward navigation is no
// longer offered past this point.
func (s *Service) complete(ctx context.Context, session *domain.CheckoutSession, orderCode string) (*domain.CheckoutSession, error) {
	session.State = domain.CheckoutStateComplete
	session.Committed = true
	session.OrderCode = orderCode
	session.ClientSecret = ""
	return s.sessions.Update(ctx, *session)
}

// clearCart empties the cart after a committed order. Best effort: a
// stale cart is an annoyance, not a correctness problem.
func (s *Service) clearCart(ctx context.Context, session *domain.CheckoutSession) {
	if err := s.carts.Clear(ctx, session.CartSessionID); err != nil {
		s.logger.Printf("checkout: clear cart session=%s: %v", session.CartSessionID, err)
	}
}
