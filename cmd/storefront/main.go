package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/linemk/storefront/internal/api"
	"github.com/linemk/storefront/internal/config"
	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/lib/logger"
	"github.com/linemk/storefront/internal/lib/toast"
	"github.com/linemk/storefront/internal/service"
)

const usage = `usage: storefront [-config path] <command> [args]

commands:
  login <username> <password>   obtain a bearer token
  cart                          show the cart
  update <product-id> <qty>     set the quantity of a cart line
  remove <product-id>           remove a cart line
  checkout                      place an order for the cart total
  orders                        list your orders
  order <id>                    show one order
  set-status <id> <status>      request an order status transition
  admin-orders                  list all orders (admin token required)
`

func main() {
	cfg := config.MustLoad()
	log := logger.SetupLogger(cfg.Env)

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	token := func() string { return cfg.OrderAPI.Token }
	backend := api.NewClient(log, cfg.OrderAPI.BaseURL, cfg.OrderAPI.Timeout, token)
	cartBackend := api.NewClient(log, cfg.CartService.BaseURL, cfg.CartService.Timeout, token)

	orderClient := api.NewOrderClient(backend)
	cartClient := api.NewCartClient(cartBackend)
	authClient := api.NewAuthClient(backend)

	notifier := toast.New(os.Stdout)
	nav := &ordersView{orders: orderClient, out: os.Stdout, log: log}
	cartSvc := service.NewCartService(log, cartClient, orderClient, notifier, nav)

	if err := run(context.Background(), args, cartSvc, orderClient, authClient); err != nil {
		log.Debug("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, cartSvc *service.CartService, orders api.OrderAPI, auth api.AuthAPI) error {
	switch args[0] {
	case "login":
		if len(args) != 3 {
			return usageError()
		}
		token, err := auth.Login(ctx, args[1], args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, "login failed:", err)
			return err
		}
		fmt.Println("export STOREFRONT_TOKEN=" + token)
		return nil

	case "cart":
		if err := cartSvc.LoadCart(ctx); err != nil {
			return err
		}
		renderCart(os.Stdout, cartSvc.Cart())
		return nil

	case "update":
		if len(args) != 3 {
			return usageError()
		}
		productID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return usageError()
		}
		quantity, err := strconv.Atoi(args[2])
		if err != nil {
			return usageError()
		}
		if err := cartSvc.UpdateQuantity(ctx, productID, quantity); err != nil {
			return err
		}
		renderCart(os.Stdout, cartSvc.Cart())
		return nil

	case "remove":
		if len(args) != 2 {
			return usageError()
		}
		productID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return usageError()
		}
		if err := cartSvc.RemoveItem(ctx, productID); err != nil {
			return err
		}
		renderCart(os.Stdout, cartSvc.Cart())
		return nil

	case "checkout":
		if err := cartSvc.LoadCart(ctx); err != nil {
			return err
		}
		return cartSvc.Checkout(ctx)

	case "orders":
		list, err := orders.GetOrders(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to list orders:", err)
			return err
		}
		renderOrders(os.Stdout, list)
		return nil

	case "order":
		if len(args) != 2 {
			return usageError()
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return usageError()
		}
		order, err := orders.GetOrder(ctx, id)
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to get order:", err)
			return err
		}
		renderOrders(os.Stdout, []*models.Order{order})
		return nil

	case "set-status":
		if len(args) != 3 {
			return usageError()
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return usageError()
		}
		order, err := orders.UpdateOrderStatus(ctx, id, models.OrderStatus(args[2]))
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to update status:", err)
			return err
		}
		renderOrders(os.Stdout, []*models.Order{order})
		return nil

	case "admin-orders":
		list, err := orders.GetAllOrders(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to list all orders:", err)
			return err
		}
		renderOrders(os.Stdout, list)
		return nil

	default:
		return usageError()
	}
}

func usageError() error {
	fmt.Fprint(os.Stderr, usage)
	return fmt.Errorf("invalid arguments")
}

// ordersView is the Navigator target of a successful checkout: it renders
// the order history, the terminal stand-in for routing to /orders.
type ordersView struct {
	orders api.OrderAPI
	out    io.Writer
	log    *slog.Logger
}

func (v *ordersView) NavigateToOrders() {
	list, err := v.orders.GetOrders(context.Background())
	if err != nil {
		v.log.Error("failed to render order history", slog.Any("error", err))
		return
	}
	fmt.Fprintln(v.out, "your orders:")
	renderOrders(v.out, list)
}

func renderCart(out io.Writer, cart *models.Cart) {
	if cart == nil || len(cart.Items) == 0 {
		fmt.Fprintln(out, "cart is empty")
		return
	}
	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tPRICE\tQTY\tSUBTOTAL")
	for _, item := range cart.Items {
		name := fmt.Sprintf("#%d", item.ProductID)
		var price, subtotal float64
		if item.Product != nil {
			name = item.Product.Name
			price = item.Product.Price
			subtotal = price * float64(item.Quantity)
		}
		fmt.Fprintf(w, "%s\t%.2f\t%d\t%.2f\n", name, price, item.Quantity, subtotal)
	}
	w.Flush()
	fmt.Fprintf(out, "total: %.2f\n", service.CheckoutTotal(cart))
}

func renderOrders(out io.Writer, orders []*models.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(out, "no orders")
		return
	}
	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTOTAL\tSTATUS\tCREATED")
	for _, order := range orders {
		fmt.Fprintf(w, "%d\t%.2f\t%s\t%s\n",
			order.ID, order.TotalAmount, order.Status, order.CreatedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()
}
