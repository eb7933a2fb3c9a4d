package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	v10validator "github.com/go-playground/validator/v10"
	"github.com/ivanpodgorny/doc2pdf/internal/client"
	"github.com/ivanpodgorny/doc2pdf/internal/config"
	"github.com/ivanpodgorny/doc2pdf/internal/entity"
	"github.com/ivanpodgorny/doc2pdf/internal/handler"
	"github.com/ivanpodgorny/doc2pdf/internal/middleware"
	"github.com/ivanpodgorny/doc2pdf/internal/migrations"
	"github.com/ivanpodgorny/doc2pdf/internal/repository"
	"github.com/ivanpodgorny/doc2pdf/internal/security"
	"github.com/ivanpodgorny/doc2pdf/internal/service"
	"github.com/ivanpodgorny/doc2pdf/internal/validator"
	"github.com/ivanpodgorny/doc2pdf/internal/worker"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	if err := Execute(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func Execute() error {
	cfg, err := config.NewBuilder().LoadFlags().LoadEnv().Build()
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", cfg.DatabaseURI())
	if err != nil {
		return err
	}

	defer func(db *sql.DB) {
		err = db.Close()
	}(db)

	if err := migrations.Up(db); err != nil {
		return err
	}

	validationEngine := v10validator.New()
	if err := validationEngine.RegisterValidation("document", validator.Document); err != nil {
		return err
	}

	var (
		ctx, cancel = context.WithCancel(context.Background())
		r           = chi.NewRouter()
		v           = validator.New(validationEngine)
		a           = security.NewAuthenticator(client.NewIdentity(cfg.AuthAddress()))
		wg          = &sync.WaitGroup{}
		cj          = make(chan entity.ConversionJob, 8)
		or          = repository.NewOrder(db)
		sc          = client.NewStorage(cfg.StorageAddress(), cfg.StorageServiceKey(), cfg.StorageBucket())
		pc          = client.NewPayPal(cfg.PayPalAddress(), cfg.PayPalClientID(), cfg.PayPalSecretKey())
		cw          = worker.NewConverter(ctx, or, sc, client.NewRenderer(cfg.RendererAddress()), cj, wg, 4)
		os          = service.NewOrder(or, cfg.ConversionPrice(), cfg.ConversionCurrency())
		cs          = service.NewCheckout(or, pc, cfg.PaymentReturnAddress())
		ps          = service.NewPayment(or, pc, cj)
		oh          = handler.NewOrder(os, a, v)
		ch          = handler.NewCheckout(cs, a, v)
		ph          = handler.NewPayment(ps, a, v)
		vh          = handler.NewConversion(os, cw, a, v)
	)

	defer func() {
		cancel()
		wg.Wait()
		close(cj)
	}()

	cw.Do(ctx)

	r.Use(chimiddleware.Recoverer)

	r.Route("/api/user", func(r chi.Router) {
		r.Use(middleware.Authenticate(a))

		r.Post("/conversions", oh.Create)
		r.Get("/conversions", oh.GetAll)
		r.Post("/checkout", ch.Start)
		r.Get("/payment/approve", ph.Approve)
		r.Get("/payment/cancel", ph.Cancel)
		r.Post("/convert", vh.Convert)
	})

	err = http.ListenAndServe(cfg.ServerAddress(), r)

	return err
}
