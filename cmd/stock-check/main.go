package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"

	"github.com/kmdiallo/gescom-pos/internal/backend"
)

func main() {
	var (
		backendURL   string
		backendToken string
		productID    int64
		timeout      time.Duration
	)

	flag.StringVar(&backendURL, "backend-url", "", "management backend base URL (or BACKEND_URL env)")
	flag.StringVar(&backendToken, "backend-token", "", "API token for the backend (or POS_BACKEND_TOKEN env)")
	flag.Int64Var(&productID, "product", 0, "product ID to check")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
	flag.Parse()

	if backendURL == "" {
		backendURL = os.Getenv("BACKEND_URL")
	}
	if backendURL == "" {
		slog.Error("backend URL is required: set --backend-url or BACKEND_URL")
		os.Exit(1)
	}
	if backendToken == "" {
		backendToken = os.Getenv("POS_BACKEND_TOKEN")
	}
	if productID <= 0 {
		slog.Error("product ID is required: set --product")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, backendURL, backendToken, productID, timeout); err != nil {
		slog.Error("stock check failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, backendURL, token string, productID int64, timeout time.Duration) error {
	client, err := backend.New(backend.Config{
		BaseURL: backendURL,
		Token:   token,
		Timeout: timeout,
	})
	if err != nil {
		return errors.Wrap(err, "create backend client")
	}

	product, err := client.Product(ctx, productID)
	if err != nil {
		return errors.Wrap(err, "fetch product")
	}

	stocks, err := client.ProductStock(ctx, productID)
	if err != nil {
		return errors.Wrap(err, "fetch stock")
	}

	fmt.Printf("%s (%s) price %s\n", product.Name, product.Reference, product.SalePrice.StringFixed(2))
	if len(stocks) == 0 {
		fmt.Println("no stock records")
		return nil
	}

	fmt.Printf("%-12s %10s %10s %10s\n", "WAREHOUSE", "AVAILABLE", "TOTAL", "RESERVED")
	for _, s := range stocks {
		fmt.Printf("%-12d %10d %10d %10d\n", s.WarehouseID, s.Available, s.Total, s.Reserved)
	}
	return nil
}
