package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"parcel-dispatch-service/internal/app"
	"parcel-dispatch-service/internal/config"
	"parcel-dispatch-service/internal/domain"
	"parcel-dispatch-service/internal/platform/obs"
	"parcel-dispatch-service/internal/services"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// report runs the delivery day and prints package status and truck mileage
// at a chosen time of day.
func main() {
	at := flag.String("at", "EOD", `report time, e.g. "10:30 AM" or EOD`)
	packageID := flag.Int("package", 0, "report a single package")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found (using environment variables)")
	}
	if err := obs.SetupLogging(config.Get("LOG_LEVEL", "warn")); err != nil {
		logrus.Fatal(err)
	}

	if err := run(context.Background(), os.Stdout, *at, *packageID); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, atFlag string, packageID int) error {
	at, err := domain.ParseDeadline(atFlag)
	if err != nil {
		return fmt.Errorf("invalid -at: %w", err)
	}

	result, err := app.Simulate(ctx, app.SourcesFromEnv())
	if err != nil {
		return err
	}

	if packageID != 0 {
		ps, err := services.PackageReport(result.Store, packageID, at)
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("package %d not found", packageID)
		}
		if err != nil {
			return err
		}
		return printPackages(out, at, []services.PackageStatus{ps})
	}

	report := services.BuildReport(result.Store, result.Trucks, at)
	if err := printPackages(out, at, report.Packages); err != nil {
		return err
	}

	fmt.Fprintln(out)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, t := range report.Trucks {
		fmt.Fprintf(tw, "Truck %d\t%.1f mi\n", t.TruckID, t.Miles)
	}
	fmt.Fprintf(tw, "Total\t%.1f mi\n", report.TotalMiles)
	return tw.Flush()
}

func printPackages(out io.Writer, at time.Duration, rows []services.PackageStatus) error {
	fmt.Fprintf(out, "Package status at %s\n\n", domain.FormatClock(at))
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tAddress\tDeadline\tTruck\tStatus\tDelivered")
	for _, ps := range rows {
		p := ps.Package
		delivered := ""
		if ps.DeliveredAt != nil {
			delivered = domain.FormatClock(*ps.DeliveredAt)
			if ps.Late {
				delivered += " (late)"
			}
		}
		fmt.Fprintf(tw, "%d\t%s, %s %s %s\t%s\t%d\t%s\t%s\n",
			p.PackageID, p.Destination, p.City, p.State, p.Zip,
			domain.FormatClock(p.Deadline), p.TruckID, ps.Status, delivered)
	}
	return tw.Flush()
}
