package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/analytics"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/shop"
)

type runOptions struct {
	productID   string
	expand      bool
	rabbitMQURL string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "storefront-demo",
		Short: "Walk the storefront flow and print the analytics event feed",
		Long: "Runs product listing, product detail, add to cart, cart and checkout " +
			"against a fresh session and renders every recorded analytics event.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.productID, "product", "p", "shoes_5", "Product to view, add and buy")
	cmd.Flags().BoolVarP(&opts.expand, "expand", "e", false, "Show every event panel instead of the count")
	cmd.Flags().StringVar(&opts.rabbitMQURL, "rabbitmq-url", "", "Also publish events to this RabbitMQ broker")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log every event while it is recorded")

	cmd.AddCommand(newTailCmd(&opts.verbose))
	return cmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return logging.New("development")
}

func runDemo(ctx context.Context, out io.Writer, opts runOptions) error {
	logger, err := newLogger(opts.verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	session := shop.NewSession()
	if opts.verbose {
		session.Mirror.SetObserver(analytics.NewLogObserver(logger))
	}

	if opts.rabbitMQURL != "" {
		dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		conn, err := events.Dial(dialCtx, opts.rabbitMQURL)
		cancel()
		if err != nil {
			return err
		}
		defer conn.Close()

		publisher, err := events.NewPublisher(conn, nil, logger, events.PublisherOptions{PartitionKey: session.ID})
		if err != nil {
			return fmt.Errorf("create publisher: %w", err)
		}
		defer publisher.Close()
		session.Mirror.Subscribe(publisher)
	}

	svc := shop.NewService(catalog.Default(), session)
	receipt, err := walkFlow(ctx, svc, opts.productID)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, renderReceipt(receipt))
	fmt.Fprintln(out, renderFeed(session.Mirror.Snapshot(), opts.expand))
	return nil
}

// walkFlow performs the screens of the shop in order: listing, detail,
// add to cart, cart and checkout.
func walkFlow(ctx context.Context, svc *shop.Service, productID string) (shop.Receipt, error) {
	svc.ListProducts(ctx)

	if _, err := svc.ViewProduct(ctx, productID); err != nil {
		return shop.Receipt{}, fmt.Errorf("view %q: %w", productID, err)
	}
	if _, err := svc.AddToCart(ctx, productID); err != nil {
		return shop.Receipt{}, fmt.Errorf("add %q to cart: %w", productID, err)
	}
	svc.ViewCart(ctx)

	receipt, err := svc.Checkout(ctx)
	if err != nil {
		return shop.Receipt{}, fmt.Errorf("checkout: %w", err)
	}
	return receipt, nil
}
