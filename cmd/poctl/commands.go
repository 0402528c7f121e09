// cmd/poctl/commands.go
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/hasithasandunlakshan/inventory-console/internal/client"
	"github.com/hasithasandunlakshan/inventory-console/internal/config"
	"github.com/hasithasandunlakshan/inventory-console/internal/domain"
	"github.com/hasithasandunlakshan/inventory-console/internal/service"
	"github.com/hasithasandunlakshan/inventory-console/internal/storage"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// reportError translates typed failures into operator-facing messages.
func reportError(err error) error {
	var validation *service.ValidationError
	var transition *service.TransitionError
	var receive *service.ReceiveError

	switch {
	case errors.Is(err, client.ErrUnauthorized):
		return fmt.Errorf("session expired, log in again with `poctl login`")
	case errors.As(err, &validation):
		return fmt.Errorf("invalid input: %s %s", validation.Field, validation.Message)
	case errors.As(err, &receive):
		return fmt.Errorf("receive rejected (inventory NOT updated): %v", receive.Err)
	case errors.As(err, &transition):
		return fmt.Errorf("status change rejected, reload the order: %v", transition.Err)
	default:
		return err
	}
}

func orderIDArg(c *cli.Context) (int64, error) {
	if c.Args().Len() < 1 {
		return 0, fmt.Errorf("order id is required")
	}
	var id int64
	if _, err := fmt.Sscanf(c.Args().First(), "%d", &id); err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid order id %q", c.Args().First())
	}
	return id, nil
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Store the bearer token used on backend calls",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "token", Required: true, Usage: "Bearer token issued by the user service"},
		},
		Action: func(c *cli.Context) error {
			app := newConsole(c)
			if err := app.tokens.Save(c.String("token")); err != nil {
				return err
			}
			fmt.Println("token stored")
			return nil
		},
	}
}

func searchFilterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "q", Usage: "Free-text search term"},
		&cli.StringFlag{Name: "status", Usage: "Filter by status (draft, sent, pending, received, cancelled)"},
		&cli.Int64Flag{Name: "supplier", Usage: "Filter by supplier id"},
		&cli.StringFlag{Name: "from", Usage: "Date window start (YYYY-MM-DD)"},
		&cli.StringFlag{Name: "to", Usage: "Date window end (YYYY-MM-DD)"},
		&cli.IntFlag{Name: "page", Value: 1},
		&cli.IntFlag{Name: "size", Value: 20},
	}
}

func filterFromFlags(c *cli.Context) domain.SearchFilter {
	filter := domain.SearchFilter{
		Q:          c.String("q"),
		SupplierID: c.Int64("supplier"),
		DateFrom:   c.String("from"),
		DateTo:     c.String("to"),
		Page:       c.Int("page"),
		Size:       c.Int("size"),
	}
	if status, ok := domain.ParseStatus(c.String("status")); ok {
		filter.Status = status
	}
	return filter
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List or search purchase orders",
		Flags: searchFilterFlags(),
		Action: func(c *cli.Context) error {
			app := newConsole(c)
			page, err := app.orders.SearchOrders(c.Context, filterFromFlags(c))
			if err != nil {
				return reportError(err)
			}
			for _, order := range page.Content {
				total := order.TotalView()
				tag := ""
				if !total.Persisted {
					tag = " (preview)"
				}
				fmt.Printf("%-8d %-12s %-24s %s  %10.2f%s\n",
					order.ID, order.Status.Label(), order.SupplierName, order.Date, total.Amount, tag)
			}
			fmt.Printf("page %d/%d, %d orders\n", page.Page, page.TotalPages, page.Total)
			return nil
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one order with items, notes and audit trail",
		ArgsUsage: "<order-id>",
		Action: func(c *cli.Context) error {
			id, err := orderIDArg(c)
			if err != nil {
				return err
			}
			app := newConsole(c)

			order, err := app.orders.GetOrder(c.Context, id)
			if err != nil {
				return reportError(err)
			}

			view := struct {
				Order       *domain.PurchaseOrder            `json:"order"`
				Total       domain.TotalView                 `json:"total"`
				Offered     []domain.Status                  `json:"offeredTransitions"`
				Notes       []domain.PurchaseOrderNote       `json:"notes"`
				Attachments []domain.PurchaseOrderAttachment `json:"attachments"`
				Audit       []domain.PurchaseOrderAudit      `json:"audit"`
			}{
				Order:       order,
				Total:       order.TotalView(),
				Offered:     order.Status.NextStatuses(),
				Notes:       app.orders.GetNotes(c.Context, id),
				Attachments: app.orders.GetAttachments(c.Context, id),
				Audit:       app.orders.GetAudit(c.Context, id),
			}
			return printJSON(view)
		},
	}
}

func createCommand() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a purchase order",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "supplier", Required: true, Usage: "Supplier id"},
			&cli.StringFlag{Name: "date", Required: true, Usage: "Order date (YYYY-MM-DD)"},
		},
		Action: func(c *cli.Context) error {
			app := newConsole(c)
			order, err := app.orders.CreateOrder(c.Context, domain.CreateOrderRequest{
				SupplierID: c.Int64("supplier"),
				Date:       c.String("date"),
			})
			if err != nil {
				return reportError(err)
			}
			return printJSON(order)
		},
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Request a status transition",
		ArgsUsage: "<order-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "to", Required: true, Usage: "Target status"},
			&cli.StringFlag{Name: "reason", Usage: "Optional transition reason"},
		},
		Action: func(c *cli.Context) error {
			id, err := orderIDArg(c)
			if err != nil {
				return err
			}
			app := newConsole(c)

			target, ok := domain.ParseStatus(c.String("to"))
			if !ok {
				return fmt.Errorf("unknown status %q", c.String("to"))
			}

			current, err := app.orders.GetOrder(c.Context, id)
			if err != nil {
				return reportError(err)
			}

			order, err := app.orders.RequestTransition(c.Context, id, current.Status, target, c.String("reason"))
			if err != nil {
				return reportError(err)
			}
			fmt.Printf("order %d is now %s\n", order.ID, order.Status.Label())
			return nil
		},
	}
}

func receiveCommand() *cli.Command {
	return &cli.Command{
		Name:      "receive",
		Usage:     "Mark an order received (triggers inventory updates upstream)",
		ArgsUsage: "<order-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "by", Usage: "Receiver identity"},
			&cli.StringFlag{Name: "notes", Usage: "Receiving notes"},
		},
		Action: func(c *cli.Context) error {
			id, err := orderIDArg(c)
			if err != nil {
				return err
			}
			app := newConsole(c)

			order, err := app.orders.MarkReceived(c.Context, id, domain.ReceiveRequest{
				ReceivedBy: c.String("by"),
				Notes:      c.String("notes"),
			})
			if err != nil {
				return reportError(err)
			}
			fmt.Printf("order %d received\n", order.ID)
			return nil
		},
	}
}

func itemsCommand() *cli.Command {
	return &cli.Command{
		Name:  "items",
		Usage: "Manage line items; every change reloads the order",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				ArgsUsage: "<order-id>",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "item", Required: true, Usage: "Inventory item id"},
					&cli.IntFlag{Name: "qty", Required: true},
					&cli.Float64Flag{Name: "price", Required: true, Usage: "Unit price"},
				},
				Action: func(c *cli.Context) error {
					id, err := orderIDArg(c)
					if err != nil {
						return err
					}
					app := newConsole(c)
					order, err := app.orders.AddItem(c.Context, id, domain.ItemInput{
						ItemID:    c.Int64("item"),
						Quantity:  c.Int("qty"),
						UnitPrice: c.Float64("price"),
					})
					if err != nil {
						return reportError(err)
					}
					return printJSON(order)
				},
			},
			{
				Name:      "update",
				ArgsUsage: "<order-id>",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "item", Required: true, Usage: "Line item id"},
					&cli.IntFlag{Name: "qty", Usage: "New quantity (unchanged when omitted)"},
					&cli.Float64Flag{Name: "price", Usage: "New unit price (unchanged when omitted)"},
				},
				Action: func(c *cli.Context) error {
					id, err := orderIDArg(c)
					if err != nil {
						return err
					}
					app := newConsole(c)

					var patch domain.ItemPatch
					if c.IsSet("qty") {
						qty := c.Int("qty")
						patch.Quantity = &qty
					}
					if c.IsSet("price") {
						price := c.Float64("price")
						patch.UnitPrice = &price
					}
					if patch.Quantity == nil && patch.UnitPrice == nil {
						return fmt.Errorf("nothing to update, pass --qty and/or --price")
					}

					order, err := app.orders.UpdateItem(c.Context, id, c.Int64("item"), patch)
					if err != nil {
						return reportError(err)
					}
					return printJSON(order)
				},
			},
			{
				Name:      "remove",
				ArgsUsage: "<order-id>",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "item", Required: true, Usage: "Line item id"},
				},
				Action: func(c *cli.Context) error {
					id, err := orderIDArg(c)
					if err != nil {
						return err
					}
					app := newConsole(c)
					order, err := app.orders.RemoveItem(c.Context, id, c.Int64("item"))
					if err != nil {
						return reportError(err)
					}
					return printJSON(order)
				},
			},
			{
				Name:      "qty",
				ArgsUsage: "<order-id>",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "item", Required: true, Usage: "Line item id"},
					&cli.IntFlag{Name: "qty", Required: true},
				},
				Action: func(c *cli.Context) error {
					id, err := orderIDArg(c)
					if err != nil {
						return err
					}
					app := newConsole(c)
					order, err := app.orders.UpdateItemQuantity(c.Context, id, c.Int64("item"), c.Int("qty"))
					if err != nil {
						return reportError(err)
					}
					return printJSON(order)
				},
			},
		},
	}
}

func notesCommand() *cli.Command {
	return &cli.Command{
		Name:  "notes",
		Usage: "List or append order notes",
		Subcommands: []*cli.Command{
			{
				Name:      "list",
				ArgsUsage: "<order-id>",
				Action: func(c *cli.Context) error {
					id, err := orderIDArg(c)
					if err != nil {
						return err
					}
					app := newConsole(c)
					return printJSON(app.orders.GetNotes(c.Context, id))
				},
			},
			{
				Name:      "add",
				ArgsUsage: "<order-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "body", Required: true},
				},
				Action: func(c *cli.Context) error {
					id, err := orderIDArg(c)
					if err != nil {
						return err
					}
					app := newConsole(c)
					note, err := app.orders.AddNote(c.Context, id, c.String("body"))
					if err != nil {
						return reportError(err)
					}
					return printJSON(note)
				},
			},
		},
	}
}

func attachmentsCommand() *cli.Command {
	return &cli.Command{
		Name:  "attachments",
		Usage: "List, upload or download order attachments",
		Subcommands: []*cli.Command{
			{
				Name:      "list",
				ArgsUsage: "<order-id>",
				Action: func(c *cli.Context) error {
					id, err := orderIDArg(c)
					if err != nil {
						return err
					}
					app := newConsole(c)
					return printJSON(app.orders.GetAttachments(c.Context, id))
				},
			},
			{
				Name:      "upload",
				ArgsUsage: "<order-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Required: true, Usage: "Path of the file to upload"},
					&cli.StringFlag{Name: "by", Usage: "Uploader identity"},
				},
				Action: func(c *cli.Context) error {
					id, err := orderIDArg(c)
					if err != nil {
						return err
					}
					app := newConsole(c)

					f, err := os.Open(c.String("file"))
					if err != nil {
						return err
					}
					defer f.Close()

					attachment, err := app.orders.UploadAttachment(c.Context, id, filepath.Base(c.String("file")), f, c.String("by"))
					if err != nil {
						return reportError(err)
					}
					return printJSON(attachment)
				},
			},
			{
				Name:      "download",
				ArgsUsage: "<order-id>",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Required: true, Usage: "Attachment id"},
					&cli.StringFlag{Name: "out", Usage: "Destination path (defaults to the server filename)"},
					&cli.BoolFlag{Name: "archive", Usage: "Also mirror the file into the attachment archive"},
				},
				Action: func(c *cli.Context) error {
					id, err := orderIDArg(c)
					if err != nil {
						return err
					}
					app := newConsole(c)
					return downloadAttachment(c, app, id)
				},
			},
		},
	}
}

func downloadAttachment(c *cli.Context, app *console, orderID int64) error {
	body, serverName, err := app.orders.DownloadAttachment(c.Context, orderID, c.Int64("id"))
	if err != nil {
		return reportError(err)
	}
	defer body.Close()

	dest := c.String("out")
	if dest == "" {
		dest = serverName
	}
	if dest == "" {
		dest = fmt.Sprintf("attachment-%d", c.Int64("id"))
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	if c.Bool("archive") {
		archive, err := newArchive(app.cfg.Archive)
		if err != nil {
			return err
		}
		// Write locally and archive from the local copy so one stream
		// serves both destinations.
		if _, err := io.Copy(f, body); err != nil {
			return err
		}
		local, err := os.Open(dest)
		if err != nil {
			return err
		}
		defer local.Close()
		if _, err := archive.Store(c.Context, orderID, filepath.Base(dest), local); err != nil {
			return err
		}
		fmt.Printf("saved %s and archived a copy\n", dest)
		return nil
	}

	if _, err := io.Copy(f, body); err != nil {
		return err
	}
	fmt.Printf("saved %s\n", dest)
	return nil
}

func newArchive(cfg config.ArchiveConfig) (storage.Archive, error) {
	if cfg.Enabled && cfg.Endpoint != "" {
		return storage.NewS3Archive(cfg)
	}
	return storage.NewLocalArchive(cfg.LocalDir)
}

func auditCommand() *cli.Command {
	return &cli.Command{
		Name:      "audit",
		Usage:     "Show the append-only audit trail for an order",
		ArgsUsage: "<order-id>",
		Action: func(c *cli.Context) error {
			id, err := orderIDArg(c)
			if err != nil {
				return err
			}
			app := newConsole(c)
			return printJSON(app.orders.GetAudit(c.Context, id))
		},
	}
}

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Build the spend/trend report for a date window",
		Flags: searchFilterFlags(),
		Action: func(c *cli.Context) error {
			app := newConsole(c)
			report := app.aggregator.BuildReport(c.Context, filterFromFlags(c))
			return printJSON(report)
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Download the server-side CSV export",
		Flags: append(searchFilterFlags(),
			&cli.StringFlag{Name: "out", Value: "purchase-orders.csv"},
		),
		Action: func(c *cli.Context) error {
			app := newConsole(c)
			body, err := app.orders.ExportCSV(c.Context, filterFromFlags(c))
			if err != nil {
				return reportError(err)
			}
			defer body.Close()

			f, err := os.Create(c.String("out"))
			if err != nil {
				return err
			}
			defer f.Close()

			if _, err := io.Copy(f, body); err != nil {
				return err
			}
			fmt.Printf("exported to %s\n", c.String("out"))
			return nil
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Upload an order import file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Required: true},
		},
		Action: func(c *cli.Context) error {
			app := newConsole(c)

			f, err := os.Open(c.String("file"))
			if err != nil {
				return err
			}
			defer f.Close()

			if err := app.orders.Import(c.Context, filepath.Base(c.String("file")), f); err != nil {
				return reportError(err)
			}
			fmt.Println("import accepted")
			return nil
		},
	}
}
