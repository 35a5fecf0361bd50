package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dukahq/go-duka/auth"
	"github.com/dukahq/go-duka/cart"
	"github.com/dukahq/go-duka/flow"
	"github.com/dukahq/go-duka/phone"
)

var payPhone string

var payCmd = &cobra.Command{
	Use:   "pay",
	Short: "Check out the cart and confirm the M-Pesa payment",
	Long: `Creates an order from the local cart, sends an STK push to the
given phone and polls the order until it is paid, failed or the
attempt budget runs out. Ctrl-C cancels the poll cleanly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// Prefetch profile (phone fallback) and the remote cart view in
		// parallel; neither is required for the flow itself.
		var (
			profile *auth.Profile
			remote  []cart.Line
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			p, err := client.Auth().Profile(gctx)
			if err == nil {
				profile = p
			}
			return err
		})
		g.Go(func() error {
			items, err := client.Cart().Fetch(gctx)
			if err == nil {
				remote = items
			}
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		if payPhone == "" && profile != nil {
			payPhone = profile.Phone
		}
		if payPhone == "" {
			return errors.New("no phone number: pass --phone or set one on your profile")
		}
		if !phone.Valid(payPhone) {
			return fmt.Errorf("invalid M-Pesa number %q (0712345678 or 254712345678)", payPhone)
		}

		if len(remote) > 0 {
			fmt.Printf("Server cart total: %d KSH\n", cart.Total(remote))
		}

		checkout, err := client.CheckoutFlow(basket, flow.Options{
			OnTransition: func(from, to flow.State) {
				logger.Sugar().Debugf("checkout: %s -> %s", from, to)
			},
		})
		if err != nil {
			return err
		}

		fmt.Println("Sending STK push, check your phone...")
		res, err := checkout.Run(ctx, payPhone)
		switch {
		case errors.Is(err, flow.ErrEmptyCart):
			return errors.New("your cart is empty, add items before paying")
		case errors.Is(err, flow.ErrPollTimeout):
			fmt.Println(res.Message)
			return nil
		case err != nil:
			if res != nil && res.Message != "" {
				return errors.New(res.Message)
			}
			return err
		}

		fmt.Println(res.Message)
		fmt.Printf("Order %s", res.OrderID)
		if res.Order != nil {
			fmt.Printf(", total %d KSH", res.Order.TotalAmount)
			if res.Order.TransactionCode != "" {
				fmt.Printf(", transaction %s", res.Order.TransactionCode)
			}
		}
		fmt.Println()
		return nil
	},
}

func init() {
	payCmd.Flags().StringVar(&payPhone, "phone", "", "M-Pesa number (defaults to profile phone)")
	rootCmd.AddCommand(payCmd)
}
