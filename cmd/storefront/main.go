package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/storefront-dietetica/internal/admin"
	"github.com/noah-isme/storefront-dietetica/internal/api"
	"github.com/noah-isme/storefront-dietetica/internal/auth"
	"github.com/noah-isme/storefront-dietetica/internal/cart"
	"github.com/noah-isme/storefront-dietetica/internal/catalog"
	"github.com/noah-isme/storefront-dietetica/internal/checkout"
	"github.com/noah-isme/storefront-dietetica/internal/config"
	"github.com/noah-isme/storefront-dietetica/internal/health"
	"github.com/noah-isme/storefront-dietetica/internal/obs"
	"github.com/noah-isme/storefront-dietetica/internal/order"
	"github.com/noah-isme/storefront-dietetica/internal/state"
	"github.com/noah-isme/storefront-dietetica/internal/ui"
	"github.com/noah-isme/storefront-dietetica/internal/user"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app bundles the wired storefront services.
type app struct {
	cfg       *config.Config
	logger    zerolog.Logger
	client    *api.Client
	session   *auth.Session
	profile   *user.Store
	cartStore *cart.Store
	cartSvc   *cart.Service
	submitter *checkout.Submitter
	catalog   *catalog.Service
	history   *order.History
	orders    *order.Admin
	admin     *admin.Service
	shell     *ui.State
	probe     health.Probe
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return errors.New("no command given")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()
	obs.MustRegisterDomainMetrics(cfg.MetricsNamespace, nil)

	ctx := context.Background()
	if cfg.TracingEnabled {
		shutdown, err := obs.InitTracer(ctx, obs.TracingConfig{
			ServiceName:   "storefront-dietetica",
			Endpoint:      cfg.TracingEndpoint,
			SamplingRatio: cfg.SamplingRatio,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer func() { _ = rdb.Close() }()
	if err := redisotel.InstrumentTracing(rdb); err != nil {
		logger.Warn().Err(err).Msg("instrument redis tracing")
	}

	app, err := wire(cfg, logger, rdb)
	if err != nil {
		return err
	}
	if err := app.session.Restore(ctx); err != nil {
		logger.Warn().Err(err).Msg("restore session")
	}
	if err := app.cartStore.Load(ctx); err != nil {
		logger.Warn().Err(err).Msg("restore cart")
	}

	return app.dispatch(ctx, args)
}

func wire(cfg *config.Config, logger zerolog.Logger, rdb *redis.Client) (*app, error) {
	store := state.NewRedisStore(rdb, cfg.StateNamespace)
	client := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, logger.With().Str("component", "api").Logger())

	session := &auth.Session{
		API:    client,
		State:  store,
		Logger: logger.With().Str("component", "auth").Logger(),
	}
	client.Token = session.Token
	client.OnUnauthorized = session.ForceLogout

	profile := &user.Store{API: client, Logger: logger.With().Str("component", "user").Logger()}
	cartStore := cart.NewStore(cart.StoreConfig{
		Persist:         store,
		NotificationTTL: cfg.NotificationTTL,
		Logger:          logger.With().Str("component", "cart").Logger(),
	})
	session.OnLogout = []func(context.Context){
		func(ctx context.Context) { cartStore.Dispatch(ctx, cart.Clear{}) },
		func(context.Context) { profile.Clear() },
	}

	cartSvc := &cart.Service{Products: client, Store: cartStore, Logger: logger.With().Str("component", "cart").Logger()}
	cache := catalog.NewCache(rdb, cfg.CatalogCacheTTL)
	cat := &catalog.Service{API: client, Cache: cache, Logger: logger.With().Str("component", "catalog").Logger()}
	submitter := &checkout.Submitter{
		Orders: client,
		Cart:   cartStore,
		Forms:  checkout.NewForms(),
		Logger: logger.With().Str("component", "checkout").Logger(),
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		client:    client,
		session:   session,
		profile:   profile,
		cartStore: cartStore,
		cartSvc:   cartSvc,
		submitter: submitter,
		catalog:   cat,
		history:   &order.History{API: client, Logger: logger.With().Str("component", "order").Logger()},
		orders:    &order.Admin{API: client, Logger: logger.With().Str("component", "order").Logger()},
		admin:     &admin.Service{API: client, Cache: cache, Logger: logger.With().Str("component", "admin").Logger()},
		shell:     ui.NewState(nil),
		probe: health.Probe{
			APIBaseURL: cfg.APIBaseURL,
			Redis:      rdb,
		},
	}, nil
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	switch args[0] {
	case "health":
		status := a.probe.Check(ctx)
		fmt.Printf("backend: %s\nredis:   %s\n", status.Backend, status.Redis)
		if !status.Healthy() {
			return errors.New("dependencies unavailable")
		}
		return nil
	case "login":
		return a.cmdLogin(ctx, args[1:])
	case "register":
		return a.cmdRegister(ctx, args[1:])
	case "logout":
		a.session.Logout(ctx)
		return nil
	case "products":
		return a.cmdProducts(ctx, args[1:])
	case "product":
		return a.cmdProduct(ctx, args[1:])
	case "categories":
		return a.cmdCategories(ctx)
	case "cart":
		return a.cmdCart(ctx, args[1:])
	case "checkout":
		return a.cmdCheckout(ctx, args[1:])
	case "orders":
		return a.cmdOrders(ctx)
	case "order":
		return a.cmdOrder(ctx, args[1:])
	case "admin":
		return a.cmdAdmin(ctx, args[1:])
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errors.New("login requires -email and -password")
	}
	if err := a.session.Login(ctx, *email, *password); err != nil {
		return err
	}
	if id, ok := a.session.UserID(); ok {
		if _, err := a.profile.Fetch(ctx, id); err != nil {
			a.logger.Warn().Err(err).Msg("load profile")
		}
	}
	fmt.Println("signed in as", *email)
	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	first := fs.String("first-name", "", "first name")
	last := fs.String("last-name", "", "last name")
	address := fs.String("address", "", "shipping address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errors.New("register requires -email and -password")
	}
	err := a.session.Register(ctx, api.Registration{
		Email:     *email,
		Password:  *password,
		FirstName: *first,
		LastName:  *last,
		Address:   *address,
	})
	if err != nil {
		return err
	}
	fmt.Println("account created for", *email)
	return nil
}

func (a *app) cmdProducts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	category := fs.Int64("category", 0, "filter by category id")
	search := fs.String("search", "", "filter by name")
	sortBy := fs.String("sort", "name", "sort field: name or price")
	sortOrder := fs.String("order", "asc", "sort order: asc or desc")
	if err := fs.Parse(args); err != nil {
		return err
	}
	products, err := a.catalog.Products(ctx, catalog.Filter{
		CategoryID: *category,
		SearchTerm: *search,
		SortBy:     *sortBy,
		SortOrder:  *sortOrder,
	})
	if err != nil {
		return err
	}
	for _, p := range products {
		fmt.Printf("%6d  %-40s  %8.2f  stock %d\n", p.ID, p.Name, p.EffectivePrice(), p.Stock)
	}
	return nil
}

func (a *app) cmdProduct(ctx context.Context, args []string) error {
	id, err := parseID(args, "product")
	if err != nil {
		return err
	}
	p, err := a.catalog.Product(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n  price: %.2f", p.Name, p.Price)
	if p.DiscountPercentage > 0 {
		fmt.Printf(" (-%.0f%% -> %.2f)", p.DiscountPercentage, p.EffectivePrice())
	}
	fmt.Printf("\n  stock: %d\n", p.Stock)
	if p.Description != "" {
		fmt.Println(" ", p.Description)
	}
	return nil
}

func (a *app) cmdCategories(ctx context.Context) error {
	categories, err := a.catalog.Categories(ctx)
	if err != nil {
		return err
	}
	for _, c := range categories {
		fmt.Printf("%6d  %s\n", c.ID, c.Name)
	}
	return nil
}

func (a *app) cmdCart(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.printCart()
	}
	switch args[0] {
	case "add":
		id, err := parseID(args[1:], "cart add")
		if err != nil {
			return err
		}
		qty := 1
		if len(args) > 2 {
			qty, err = strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[2])
			}
		}
		if err := a.cartSvc.Add(ctx, id, qty); err != nil {
			return err
		}
		if n, ok := a.cartStore.Notification(); ok {
			fmt.Printf("added %d x %s (%.2f)\n", n.QuantityAdded, n.ProductName, n.ProductPrice)
		}
		return nil
	case "rm":
		id, err := parseID(args[1:], "cart rm")
		if err != nil {
			return err
		}
		a.cartStore.Dispatch(ctx, cart.RemoveItem{ProductID: id})
		return a.printCart()
	case "qty":
		if len(args) < 3 {
			return errors.New("cart qty requires <product-id> <quantity>")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[1])
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[2])
		}
		line, ok := a.cartStore.Snapshot().Find(id)
		if !ok {
			return fmt.Errorf("product %d is not in the cart", id)
		}
		a.cartStore.Dispatch(ctx, cart.UpdateQuantity{ProductID: id, Quantity: qty, Stock: line.Stock})
		return a.printCart()
	case "clear":
		a.cartStore.Dispatch(ctx, cart.Clear{})
		return nil
	case "validate":
		if err := a.ensureHealthy(ctx); err != nil {
			return err
		}
		result, err := a.cartSvc.Validate(ctx)
		if err != nil {
			return err
		}
		for _, id := range result.RemovedProducts {
			a.shell.PushNotice(fmt.Sprintf("removed-%d", id), "warning",
				fmt.Sprintf("product %d is no longer available and was removed from your cart", id), 0)
		}
		a.flushNotices()
		return a.printCart()
	default:
		return fmt.Errorf("unknown cart subcommand %q", args[0])
	}
}

func (a *app) printCart() error {
	snapshot := a.cartStore.Snapshot()
	if len(snapshot.Lines) == 0 {
		fmt.Println("cart is empty")
		return nil
	}
	for _, l := range snapshot.Lines {
		fmt.Printf("%6d  %-40s  %3d x %8.2f = %8.2f\n", l.ProductID, l.Name, l.Quantity, l.EffectivePrice, l.Subtotal())
	}
	fmt.Printf("%d items, total %.2f\n", snapshot.ItemCount(), snapshot.Total())
	return nil
}

func (a *app) cmdCheckout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	cardName := fs.String("card-name", "", "cardholder name")
	cardNumber := fs.String("card-number", "", "16 digit card number")
	expiry := fs.String("expiry", "", "card expiry MM/YY")
	cvv := fs.String("cvv", "", "3 digit security code")
	useDefault := fs.Bool("default-address", false, "ship to the saved profile address")
	first := fs.String("first-name", "", "recipient first name")
	last := fs.String("last-name", "", "recipient last name")
	address := fs.String("address", "", "shipping address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !a.session.Authenticated() {
		return errors.New("sign in before checking out")
	}
	if err := a.ensureHealthy(ctx); err != nil {
		return err
	}

	// Reconcile against server stock first, exactly like the checkout page.
	if _, err := a.cartSvc.Validate(ctx); err != nil {
		return err
	}

	profile, _ := a.profile.Current()
	receipt, err := a.submitter.Submit(ctx, checkout.Input{
		Payment: checkout.PaymentForm{
			CardName:   *cardName,
			CardNumber: *cardNumber,
			Expiry:     *expiry,
			CVV:        *cvv,
		},
		UseDefaultAddress: *useDefault,
		Profile:           profile,
		Address:           checkout.AddressForm{FirstName: *first, LastName: *last, Address: *address},
	})
	if err != nil {
		return err
	}
	if receipt.OrderID != "" {
		a.shell.PushNotice("order-placed", "success", "order placed, id "+receipt.OrderID, 0)
	} else {
		a.shell.PushNotice("order-placed", "success", receipt.Message, 0)
	}
	a.flushNotices()
	return nil
}

// ensureHealthy runs the dependency probe ahead of flows that need the
// backend to be up for every step.
func (a *app) ensureHealthy(ctx context.Context) error {
	status := a.probe.Check(ctx)
	if !status.Healthy() {
		return fmt.Errorf("dependencies unavailable: backend %s, redis %s", status.Backend, status.Redis)
	}
	return nil
}

func (a *app) flushNotices() {
	for _, n := range a.shell.Notices() {
		fmt.Printf("[%s] %s\n", n.Kind, n.Message)
	}
	a.shell.ClearNotices()
}

func (a *app) cmdOrders(ctx context.Context) error {
	userID, ok := a.session.UserID()
	if !ok {
		return order.ErrNotSignedIn
	}
	orders, err := a.history.ForUser(ctx, userID)
	if err != nil {
		return err
	}
	printOrders(orders)
	return nil
}

func (a *app) cmdOrder(ctx context.Context, args []string) error {
	id, err := parseID(args, "order")
	if err != nil {
		return err
	}
	o, err := a.history.Get(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("order %d  %s  total %.2f\n", o.ID, o.Status, o.Total)
	for _, item := range o.Items {
		fmt.Printf("  product %d x %d\n", item.ProductID, item.Quantity)
	}
	return nil
}

func (a *app) cmdAdmin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("admin requires a subcommand: orders, confirm, cancel, users, delete-product")
	}
	switch args[0] {
	case "orders":
		orders, err := a.orders.All(ctx)
		if err != nil {
			return err
		}
		printOrders(orders)
		return nil
	case "confirm", "cancel":
		id, err := parseID(args[1:], "admin "+args[0])
		if err != nil {
			return err
		}
		status := order.StatusConfirmed
		if args[0] == "cancel" {
			status = order.StatusCancelled
		}
		orders, err := a.orders.SetStatus(ctx, id, status)
		if err != nil {
			return err
		}
		printOrders(orders)
		return nil
	case "users":
		users, err := a.admin.Users(ctx)
		if err != nil {
			return err
		}
		for _, u := range users {
			fmt.Printf("%6d  %-30s  %s %s  %s\n", u.ID, u.Email, u.FirstName, u.LastName, u.Role)
		}
		return nil
	case "delete-product":
		id, err := parseID(args[1:], "admin delete-product")
		if err != nil {
			return err
		}
		return a.admin.DeleteProduct(ctx, id)
	default:
		return fmt.Errorf("unknown admin subcommand %q", args[0])
	}
}

func printOrders(orders []api.Order) {
	for _, o := range orders {
		fmt.Printf("%6d  %-10s  %8.2f  %s\n", o.ID, o.Status, o.Total, o.CreatedAt)
	}
}

func parseID(args []string, command string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s requires an id", command)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: storefront <command>

commands:
  health                               probe backend and redis
  login -email -password               sign in
  register -email -password [...]      create an account
  logout                               sign out and clear local state
  products [-category] [-search] [-sort] [-order]
  product <id>
  categories
  cart [add|rm|qty|clear|validate]
  checkout -card-name -card-number -expiry -cvv [-default-address | -first-name -last-name -address]
  orders                               order history for the signed-in user
  order <id>
  admin orders|confirm|cancel|users|delete-product`)
}
