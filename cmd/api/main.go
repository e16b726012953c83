package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	"storefront/internal/notify"
	"storefront/internal/order"
	cardpay "storefront/internal/payment/card"
	cryptopay "storefront/internal/payment/crypto"
	"storefront/internal/redisdb"
	checkoutrepo "storefront/internal/repository/checkoutsession"
	notifrepo "storefront/internal/repository/notification"
	orderrepo "storefront/internal/repository/order"
	productrepo "storefront/internal/repository/product"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	var cartStore cart.Store
	if cfg.RedisAddr != "" {
		redisClient, err := redisdb.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Fatalf("connect to redis: %v", err)
		}
		defer redisClient.Close()
		cartStore = cart.NewRedis(redisClient)
	} else {
		logger.Printf("no REDIS_ADDR configured, carts are held in memory")
		cartStore = cart.NewMemory()
	}

	productRepo := productrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	sessionRepo := checkoutrepo.NewPostgres(dbpool)
	notificationRepo := notifrepo.NewPostgres(dbpool)

	orderService := order.New(orderRepo, logger)
	notifyService := notify.New(notificationRepo, logger)

	cardProcessor := cardpay.NewDisabled()
	if cfg.StripeSecretKey != "" {
		cardProcessor, err = cardpay.NewStripe(cfg.StripeSecretKey)
		if err != nil {
			logger.Fatalf("init card processor: %v", err)
		}
	} else {
		logger.Printf("no STRIPE_SECRET_KEY configured, card checkout is disabled")
	}

	rates, err := cryptopay.NewHTTPRateSource(cfg.RateAPIURL, cfg.CryptoFallbackRate, logger)
	if err != nil {
		logger.Fatalf("init rate source: %v", err)
	}
	var cryptoProvider cryptopay.Provider
	if cfg.CryptoAPIURL != "" {
		cryptoProvider, err = cryptopay.NewHTTPProvider(cfg.CryptoAPIURL, cfg.CryptoAPIKey)
		if err != nil {
			logger.Fatalf("init crypto provider: %v", err)
		}
	} else {
		logger.Printf("no CRYPTO_API_URL configured, bitcoin checkout uses the offline fallback only")
	}
	offlineProvider := cryptopay.NewOfflineProvider(cfg.CryptoFallbackAddress, rates)

	checkoutService := checkout.New(checkout.Config{
		Currency:          cfg.Currency,
		TaxRateBps:        cfg.TaxRateBps,
		CollectShipping:   cfg.CollectShipping,
		CryptoCallbackURL: cfg.CryptoCallbackURL,
		CashRecipientTag:  cfg.CashRecipientTag,
		OperatorEmail:     cfg.OperatorEmail,
	}, checkout.Deps{
		Sessions: sessionRepo,
		Carts:    cartStore,
		Cards:    cardProcessor,
		Provider: cryptoProvider,
		Fallback: offlineProvider,
		Rates:    rates,
		Orders:   orderService,
		Notify:   notifyService,
	}, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Products:   productRepo,
		Carts:      cartStore,
		Checkout:   checkoutService,
		Orders:     orderService,
		TaxRateBps: cfg.TaxRateBps,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	sender := notify.NewSMTPSender(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.FromEmail,
	})
	poller := notify.NewPoller(notificationRepo, sender, orderService, logger)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if cfg.SMTPHost != "" {
		group.Go(func() error {
			if err := poller.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	} else {
		logger.Printf("no SMTP_HOST configured, queued notifications stay pending")
	}
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Printf("shutdown with error: %v", err)
		return
	}
	logger.Printf("server stopped")
}
