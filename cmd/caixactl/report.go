package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"caixa-be/internal/category"
	"caixa-be/internal/order"
	"caixa-be/internal/product"
	"caixa-be/internal/report"
	"caixa-be/internal/utils"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))

type reportOptions struct {
	userID   uint
	asJSON   bool
	file     string
	timezone string
}

func newReportCmd() *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the sales report of a user",
		Long: `Print the sales report of a user.

With --file the report is built offline from an export document shaped as
{"products": ..., "categories": ..., "sales": ...}, where each collection is
either a JSON array or an object keyed by id.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().UintVar(&opts.userID, "user", 0, "user id (required unless --file is given)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print JSON instead of tables")
	cmd.Flags().StringVar(&opts.file, "file", "", "build the report from an export document")
	cmd.Flags().StringVar(&opts.timezone, "tz", "Local", "time zone used for daily and monthly buckets")
	return cmd
}

func runReport(ctx context.Context, out io.Writer, opts *reportOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	loc, err := loadLocation(opts.timezone)
	if err != nil {
		return err
	}

	var rep *report.Report
	if opts.file != "" {
		rep, err = reportFromFile(opts.file, loc)
	} else {
		rep, err = reportFromDatabase(ctx, opts.userID, loc)
	}
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	renderReport(out, rep)
	return nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q: %w", name, err)
	}
	return loc, nil
}

type exportDocument struct {
	Products   json.RawMessage `json:"products"`
	Categories json.RawMessage `json:"categories"`
	Sales      json.RawMessage `json:"sales"`
}

func reportFromFile(path string, loc *time.Location) (*report.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc exportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var (
		products   []product.Product
		categories []category.Category
		sales      []order.Sale
	)
	if products, _, err = report.DecodeProducts(doc.Products); err != nil {
		return nil, fmt.Errorf("products: %w", err)
	}
	if categories, _, err = report.DecodeCategories(doc.Categories); err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	if sales, _, err = report.DecodeSales(doc.Sales); err != nil {
		return nil, fmt.Errorf("sales: %w", err)
	}

	rollups := report.Rollup(sales, report.IndexProducts(products), report.IndexCategories(categories),
		report.RollupOptions{Location: loc})
	rep := report.BuildReport(rollups)
	rep.GeneratedAt = time.Now()
	return rep, nil
}

func reportFromDatabase(ctx context.Context, userID uint, loc *time.Location) (*report.Report, error) {
	if userID == 0 {
		return nil, errors.New("--user is required")
	}

	database, err := openDB()
	if err != nil {
		return nil, err
	}
	defer database.Close()

	svc := report.NewService(report.Deps{
		Products:   product.NewRepository(database),
		Categories: category.NewRepository(database),
		Sales:      order.NewRepository(database),
		Location:   loc,
	})
	return svc.Generate(ctx, userID)
}

func renderReport(out io.Writer, rep *report.Report) {
	summary := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Completed", "Revenue", "Average ticket", "Pending", "Canceled").
		Row(
			strconv.Itoa(rep.CompletedCount),
			utils.FormatBRL(rep.TotalRevenue),
			utils.FormatBRL(rep.AverageTicket),
			strconv.Itoa(rep.PendingCount),
			strconv.Itoa(rep.CanceledCount),
		)

	products := table.New().Border(lipgloss.NormalBorder()).Headers("#", "Product", "Qty")
	for i, p := range rep.TopProducts {
		products.Row(strconv.Itoa(i+1), p.Title, strconv.Itoa(p.Quantity))
	}

	categories := table.New().Border(lipgloss.NormalBorder()).Headers("#", "Category", "Qty", "Revenue", "Share")
	for i, c := range rep.TopCategories {
		categories.Row(strconv.Itoa(i+1), c.Name, strconv.Itoa(c.Quantity), utils.FormatBRL(c.Revenue), c.Share.StringFixed(2)+"%")
	}

	monthly := table.New().Border(lipgloss.NormalBorder()).Headers("Month", "Revenue")
	for _, m := range rep.Monthly {
		monthly.Row(m.Label, utils.FormatBRL(m.Total))
	}

	fmt.Fprintln(out, titleStyle.Render("Summary"))
	fmt.Fprintln(out, summary.Render())
	fmt.Fprintln(out, titleStyle.Render("Top products"))
	fmt.Fprintln(out, products.Render())
	fmt.Fprintln(out, titleStyle.Render("Top categories"))
	fmt.Fprintln(out, categories.Render())
	fmt.Fprintln(out, titleStyle.Render("Monthly revenue"))
	fmt.Fprintln(out, monthly.Render())
	if rep.UndatedCount > 0 {
		fmt.Fprintf(out, "%d completed sale(s) without a date are counted in the totals only.\n", rep.UndatedCount)
	}
}
