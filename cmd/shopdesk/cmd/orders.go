package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/akulov/shopdesk/orders"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List orders and drive their status workflow",
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all orders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := controller.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No orders yet")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNUMBER\tCUSTOMER\tTOTAL\tSTATUS\tPAYMENT\tDATE")
		for _, o := range list {
			fmt.Fprintf(w, "%s\t%s\t%s %s\t%.2f\t%s\t%s\t%s\n",
				o.ID, o.Number, o.Customer.FirstName, o.Customer.LastName,
				o.TotalAmount, o.FulfillmentStatus.Label(), o.PaymentStatus.Label(),
				o.CreatedAt.Format("2006-01-02"))
		}
		return w.Flush()
	},
}

var shipTracking string

var ordersShipCmd = &cobra.Command{
	Use:   "ship <order-id>",
	Short: "Mark an order shipped, notifying the customer",
	Long: `Mark an order shipped. With --tracking, the tracking number is
included in the same request so the customer is notified with it in one
message; without it the order still moves to shipped but no tracking
notice is sent.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := refreshOrders(cmd.Context()); err != nil {
			return err
		}
		updated, err := controller.SetFulfillmentStatus(cmd.Context(), args[0], orders.FulfillmentShipped, shipTracking)
		if err != nil {
			return err
		}
		if updated.TrackingNumber != "" {
			fmt.Printf("Order %s shipped, customer notified with tracking number %s\n", updated.Number, updated.TrackingNumber)
		} else {
			fmt.Printf("Order %s shipped\n", updated.Number)
		}
		return nil
	},
}

var ordersStatusCmd = &cobra.Command{
	Use:   "status <order-id> <new|processing|shipped|delivered|cancelled>",
	Short: "Set an order's fulfillment status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := orders.ParseFulfillmentStatus(args[1])
		if err != nil {
			return err
		}
		if err := refreshOrders(cmd.Context()); err != nil {
			return err
		}
		updated, err := controller.SetFulfillmentStatus(cmd.Context(), args[0], status, "")
		if err != nil {
			return err
		}
		fmt.Printf("Order %s is now %s\n", updated.Number, updated.FulfillmentStatus.Label())
		return nil
	},
}

var ordersPayCmd = &cobra.Command{
	Use:   "pay <order-id> <pending|paid|refunded>",
	Short: "Set an order's payment status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := orders.ParsePaymentStatus(args[1])
		if err != nil {
			return err
		}
		if err := refreshOrders(cmd.Context()); err != nil {
			return err
		}
		updated, err := controller.SetPaymentStatus(cmd.Context(), args[0], status)
		if err != nil {
			return err
		}
		fmt.Printf("Order %s payment is now %s\n", updated.Number, updated.PaymentStatus.Label())
		return nil
	},
}

var ordersSendLinkCmd = &cobra.Command{
	Use:   "send-link <order-id> <payment-link>",
	Short: "Email a payment link to the order's customer",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := refreshOrders(cmd.Context()); err != nil {
			return err
		}
		receipt, err := controller.SendPaymentLink(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if receipt.Resent {
			fmt.Println("Payment link re-sent to the customer")
		} else {
			fmt.Println("Payment link sent to the customer")
		}
		return nil
	},
}

// refreshOrders populates the controller's collection so mutations
// operate on the backend's current records.
func refreshOrders(ctx context.Context) error {
	_, err := controller.List(ctx)
	return err
}

func init() {
	ordersShipCmd.Flags().StringVarP(&shipTracking, "tracking", "t", "", "tracking number to send to the customer")
	ordersCmd.AddCommand(ordersListCmd, ordersShipCmd, ordersStatusCmd, ordersPayCmd, ordersSendLinkCmd)
	rootCmd.AddCommand(ordersCmd)
}
