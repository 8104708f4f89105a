package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aurelia-jewels/storefront/app/configs"
	"github.com/urfave/cli/v3"
)

func RunCli() {
	cmd := &cli.Command{
		Commands: []*cli.Command{
			{
				Name:  "generate-keys",
				Usage: "Generate new session authentication, encryption and CSRF keys for .env",
				Action: func(ctx context.Context, c *cli.Command) error {
					if err := configs.GenerateAndPrintSessionKeys(); err != nil {
						return err
					}
					log.Println("✅ Key generation complete. Please copy the keys to your .env file.")
					return nil
				},
			},
			{
				Name:  "endpoints",
				Usage: "Print the effective upstream endpoint configuration",
				Action: func(ctx context.Context, c *cli.Command) error {
					env := configs.LoadEnv()
					eps, err := configs.LoadEndpoints(env.EndpointsFile)
					if err != nil {
						return err
					}
					fmt.Printf("cart:           %s\n", eps.Cart)
					fmt.Printf("cart_line:      %v\n", eps.CartLine)
					fmt.Printf("products:       %s\n", eps.Products)
					fmt.Printf("product:        %s\n", eps.Product)
					fmt.Printf("favorites:      %s\n", eps.Favorites)
					fmt.Printf("favorite:       %s\n", eps.Favorite)
					fmt.Printf("orders:         %s\n", eps.Orders)
					fmt.Printf("checkout:       %s\n", eps.Checkout)
					fmt.Printf("payment_intent: %s\n", eps.PaymentIntent)
					fmt.Printf("profile:        %s\n", eps.Profile)
					fmt.Printf("data_export:    %s\n", eps.DataExport)
					fmt.Printf("delete_account: %s\n", eps.DeleteAccount)
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
