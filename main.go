package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/MarcGrol/printshop/lib/myconfig"
	"github.com/MarcGrol/printshop/lib/mylog"
	"github.com/MarcGrol/printshop/lib/mypublisher"
	"github.com/MarcGrol/printshop/lib/mypubsub"
	"github.com/MarcGrol/printshop/lib/mystore"
	"github.com/MarcGrol/printshop/lib/mytime"
	"github.com/MarcGrol/printshop/lib/myuuid"
	"github.com/MarcGrol/printshop/services/cart"
	"github.com/MarcGrol/printshop/services/catalog"
	"github.com/MarcGrol/printshop/services/checkout"
	"github.com/MarcGrol/printshop/services/checkoutstats"
	"github.com/MarcGrol/printshop/services/warmup"
)

func main() {
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCommand().ExecuteContext(c)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	configFile := ""

	rootCmd := &cobra.Command{
		Use:          "printshop",
		Short:        "Backend of the printable products shop",
		SilenceUsage: true,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the shop webserver",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := myconfig.Load(configFile)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	serveCmd.Flags().StringVar(&configFile, "config", "", "yaml file with configuration")

	validateCmd := &cobra.Command{
		Use:   "validate-catalog [file]",
		Short: "Check a product catalog without starting the webserver",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(argOrEmpty(args))
			if err != nil {
				return err
			}
			cmd.Printf("Catalog is valid: %d products in %d categories\n", len(cat.Products()), len(cat.Categories()))
			return nil
		},
	}

	rootCmd.AddCommand(serveCmd, validateCmd)

	return rootCmd
}

func serve(c context.Context, cfg myconfig.Config) error {
	if cfg.LogFile != "" {
		mylog.UseLogFile(cfg.LogFile)
	}
	logger := mylog.New("main")

	router, cleanup, err := createRouter(c, cfg)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		return err
	}

	server := http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      router,
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Log(c, "", mylog.SeverityInfo, "Starting webserver on port %s (try http://localhost:%s)", cfg.Port, cfg.Port)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("error starting webserver on port %s: %s", cfg.Port, err)
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-c.Done():
	}

	logger.Log(c, "", mylog.SeverityInfo, "Received interruption signal, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func createRouter(c context.Context, cfg myconfig.Config) (*mux.Router, func(), error) {
	router := mux.NewRouter()

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating pubsub: %s", err)
	}
	publisher := mypublisher.New(pubsub, mytime.RealNower{})

	cat, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, pubsubCleanup, err
	}
	catalogService := catalog.NewWebService(cat)
	err = catalogService.RegisterEndpoints(c, router)
	if err != nil {
		return nil, pubsubCleanup, err
	}

	cartStore, cartStoreCleanup, err := mystore.New[cart.Cart](c)
	if err != nil {
		return nil, pubsubCleanup, fmt.Errorf("error creating cart store: %s", err)
	}
	cartService := cart.NewWebService(cartStore, catalogService.ProductGetter(), mytime.RealNower{}, myuuid.RealUUIDer{}, publisher)
	err = cartService.RegisterEndpoints(c, router)
	if err != nil {
		return nil, pubsubCleanup, err
	}

	flowStore, flowStoreCleanup, err := mystore.New[*checkout.Flow](c)
	if err != nil {
		return nil, pubsubCleanup, fmt.Errorf("error creating checkout store: %s", err)
	}
	checkoutService := checkout.NewWebService(flowStore, cartService.Totaler(), mytime.RealScheduler{}, cfg.ConfirmationDelay, publisher)
	err = checkoutService.RegisterEndpoints(c, router)
	if err != nil {
		return nil, pubsubCleanup, err
	}

	statsStore, statsStoreCleanup, err := mystore.New[checkoutstats.Stats](c)
	if err != nil {
		return nil, pubsubCleanup, fmt.Errorf("error creating checkout stats store: %s", err)
	}
	statsService := checkoutstats.NewWebService(statsStore, pubsub, cfg.BaseURL)
	err = statsService.RegisterEndpoints(c, router)
	if err != nil {
		return nil, pubsubCleanup, err
	}

	warmup.NewService(func(c context.Context) error {
		if len(cat.Products()) == 0 {
			return fmt.Errorf("catalog is empty")
		}
		return nil
	}).RegisterEndpoints(c, router)

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return router, func() {
		statsStoreCleanup()
		flowStoreCleanup()
		cartStoreCleanup()
		pubsubCleanup()
	}, nil
}

func loadCatalog(filename string) (*catalog.Catalog, error) {
	if filename == "" {
		return catalog.LoadDefault()
	}
	return catalog.LoadFile(filename)
}

func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
