package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caveo/pos-api/internal/application/service"
	"github.com/caveo/pos-api/internal/config"
	"github.com/caveo/pos-api/internal/domain/entity"
	"github.com/caveo/pos-api/internal/domain/enum"
	"github.com/caveo/pos-api/internal/domain/money"
	"github.com/caveo/pos-api/internal/infrastructure/database"
	"github.com/caveo/pos-api/internal/infrastructure/repository"
	"github.com/caveo/pos-api/internal/pos"
	"github.com/caveo/pos-api/pkg/printer"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Register console. Stdin carries both the scanner wedge (it types like
// a keyboard, so its bursts flow through the barcode decoder) and the
// operator's commands; slow human typing never triggers a scan, so the
// two share the stream safely.
func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetOutput(os.Stderr)

	cfg := config.Load(log)

	db, err := database.NewPostgresDB(&cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	unitRepo := repository.NewPackagingUnitRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)

	terminal := service.NewSimulatedTerminal(cfg.Terminal.MinDelay, cfg.Terminal.MaxDelay)
	productService := service.NewProductService(productRepo, unitRepo)
	saleService := service.NewSaleService(saleRepo, receiptRepo, unitRepo, userRepo, terminal)

	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.WithError(err).Warn("Failed to initialize printer")
		thermalPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(thermalPrinter, receiptRepo, cfg.Printer.Type, cfg.Printer.Width, cfg.Printer.StoreName)

	operatorEmail := viper.GetString("OPERATOR_EMAIL")
	if operatorEmail == "" {
		log.Fatal("OPERATOR_EMAIL is required")
	}
	ctx := context.Background()
	operator, err := userRepo.GetByEmail(ctx, operatorEmail)
	if err != nil {
		log.WithError(err).Fatal("Failed to look up operator")
	}
	if operator == nil {
		log.WithField("email", operatorEmail).Fatal("Unknown operator")
	}

	sess := pos.NewSession(operator.ID, saleService, productService)

	// Reattach the most recent draft so a crashed terminal never loses
	// a sale in progress.
	if recovered, err := sess.Recover(ctx); err != nil {
		log.WithError(err).Fatal("Failed to recover draft sale")
	} else if recovered != nil {
		fmt.Printf("Recovered draft %s\n", recovered.Number)
		printSale(recovered)
	}
	if sess.Current() == nil {
		sale, err := sess.StartNewSale(ctx)
		if err != nil {
			log.WithError(err).Fatal("Failed to open a sale")
		}
		fmt.Printf("Sale %s open\n", sale.Number)
	}

	decoder := pos.NewBarcodeDecoder(func(code string) {
		sale, err := sess.ScanBarcode(ctx, code)
		if err != nil {
			log.WithField("barcode", code).Warn(err.Error())
			return
		}
		printSale(sale)
	})
	defer decoder.Close()

	console := &console{
		sess:    sess,
		printer: printerService,
		log:     log,
	}

	in := bufio.NewReader(os.Stdin)
	var line []rune
	for {
		r, _, err := in.ReadRune()
		if err != nil {
			return
		}
		now := time.Now()
		switch r {
		case '\r':
			// Scanner wedges on some platforms send CR LF.
		case '\n':
			decoder.Enter(now)
			cmd := strings.TrimSpace(string(line))
			line = line[:0]
			if cmd == "" {
				continue
			}
			if quit := console.run(ctx, cmd); quit {
				return
			}
		default:
			decoder.Key(r, now)
			line = append(line, r)
		}
	}
}

type console struct {
	sess    *pos.Session
	printer *service.PrinterService
	log     *logrus.Logger
}

// run dispatches one typed command. Lines that are not a known verb
// are left alone: scanner bursts also arrive as lines, and the
// decoder has already turned those into scans.
func (c *console) run(ctx context.Context, cmd string) (quit bool) {
	fields := strings.Fields(cmd)
	var err error

	switch fields[0] {
	case "scan":
		// Manual entry for damaged labels the scanner cannot read.
		if len(fields) != 2 {
			fmt.Println("usage: scan <code>")
			return false
		}
		var sale *entity.Sale
		if sale, err = c.sess.ScanBarcode(ctx, fields[1]); err == nil {
			printSale(sale)
		}
	case "total":
		if sale := c.sess.Current(); sale != nil {
			printSale(sale)
		}
	case "discount":
		err = c.discount(ctx, fields[1:])
	case "nodiscount":
		var sale *entity.Sale
		if sale, err = c.sess.RemoveDiscount(ctx); err == nil {
			printSale(sale)
		}
	case "pay":
		err = c.pay(ctx, fields[1:])
	case "done":
		err = c.finalize(ctx)
	case "cancel":
		if err = c.sess.Cancel(ctx); err == nil {
			fmt.Println("Sale cancelled")
			err = c.newSale(ctx)
		}
	case "new":
		err = c.newSale(ctx)
	case "quit":
		return true
	case "help":
		fmt.Println("commands: scan total discount nodiscount pay done cancel new quit")
	}

	if err != nil {
		c.log.Warn(err.Error())
	}
	return false
}

func (c *console) newSale(ctx context.Context) error {
	sale, err := c.sess.StartNewSale(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Sale %s open\n", sale.Number)
	return nil
}

// discount parses "discount 10%" (percentage) or "discount 5.00"
// (fixed amount) and applies it to the open sale.
func (c *console) discount(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Println("usage: discount <pct>%  |  discount <amount>")
		return nil
	}

	var d entity.Discount
	if pct, ok := strings.CutSuffix(args[0], "%"); ok {
		value, err := strconv.ParseInt(pct, 10, 64)
		if err != nil {
			fmt.Println("percentage must be a whole number")
			return nil
		}
		d = entity.Discount{Kind: enum.DiscountKindPercentage, Value: value}
	} else {
		amount, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			fmt.Println("usage: discount <pct>%  |  discount <amount>")
			return nil
		}
		d = entity.Discount{Kind: enum.DiscountKindFixedAmount, Value: money.FromFloat(amount).Cents()}
	}

	sale, err := c.sess.ApplyDiscount(ctx, d)
	if err != nil {
		return err
	}
	printSale(sale)
	return nil
}

// pay parses "pay <mode> <amount> [tendered]" and records the payment.
func (c *console) pay(ctx context.Context, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		fmt.Println("usage: pay <cash|card|check|store_credit> <amount> [tendered]")
		return nil
	}

	mode, err := enum.ParsePaymentMode(args[0])
	if err != nil {
		return err
	}
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		fmt.Println("amount must be a number")
		return nil
	}

	input := service.PaymentInput{
		Mode:   mode,
		Amount: money.FromFloat(amount),
	}
	if len(args) == 3 {
		tendered, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			fmt.Println("tendered must be a number")
			return nil
		}
		t := money.FromFloat(tendered)
		input.AmountTendered = &t
	}

	if mode == enum.PaymentModeCard {
		fmt.Println("Waiting for card authorization...")
	}
	result, err := c.sess.RecordPayment(ctx, input)
	if err != nil {
		return err
	}
	if result.ChangeDue.IsPositive() {
		fmt.Printf("Change due: %s\n", result.ChangeDue)
	}
	printSale(result.Sale)
	return nil
}

// finalize settles the sale, prints its receipt, and opens the next one.
func (c *console) finalize(ctx context.Context) error {
	sale, receipt, err := c.sess.Finalize(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Sale %s settled, receipt %s\n", sale.Number, receipt.Number)

	if _, err := c.printer.PrintReceipt(ctx, sale.ID); err != nil {
		c.log.WithError(err).Warn("Receipt printing failed")
	}
	return c.newSale(ctx)
}

func printSale(sale *entity.Sale) {
	for i := range sale.Lines {
		l := &sale.Lines[i]
		fmt.Printf("  %dx %-30s %8s\n", l.Quantity, l.Product.Name+" "+l.PackagingUnit.Label, l.LineTotal())
	}
	if d := sale.DiscountAmount(); d.IsPositive() {
		fmt.Printf("  %-33s-%8s\n", "Discount", d)
	}
	fmt.Printf("  %-33s %8s\n", "TOTAL", sale.Total())
	if sale.HasPayments() {
		fmt.Printf("  %-33s %8s\n", "Paid", sale.AmountPaid())
		fmt.Printf("  %-33s %8s\n", "Due", sale.BalanceDue())
	}
}
