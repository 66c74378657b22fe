package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"medicine-verify/internal/api"
	"medicine-verify/internal/app"
	"medicine-verify/internal/catalogue"
	"medicine-verify/internal/store"
	"medicine-verify/internal/verify"
)

var errFixtureBackend = errors.New("the fixture backend is read-only; set STORE_BACKEND to a SQL backend")

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the schema and seed empty registry tables",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

var importCatalogueCmd = &cobra.Command{
	Use:   "import-catalogue <file.csv>",
	Short: "Replace the open medicine catalogue with rows from a CSV export",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportCatalogue,
}

var checkCmd = &cobra.Command{
	Use:   "check <medicine>",
	Short: "Verify a single medicine and print the verdict as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

var (
	checkBatch        string
	checkManufacturer string
	checkLocation     string
)

func init() {
	checkCmd.Flags().StringVar(&checkBatch, "batch", "", "batch number printed on the pack")
	checkCmd.Flags().StringVar(&checkManufacturer, "manufacturer", "", "manufacturer named on the pack")
	checkCmd.Flags().StringVar(&checkLocation, "location", "", "location recorded in the verification log")
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Store.Backend == store.BackendFixture {
		return errFixtureBackend
	}
	cfg.Store.Seed = true

	rt, err := app.Build(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	counts, err := rt.Database.Counts(cmd.Context())
	if err != nil {
		return err
	}
	for table, n := range counts {
		fmt.Fprintf(cmd.OutOrStdout(), "%-24s %d\n", table, n)
	}
	return nil
}

func runImportCatalogue(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Store.Backend == store.BackendFixture {
		return errFixtureBackend
	}

	rt, err := app.Build(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	report, err := catalogue.NewImporter(rt.Database).LoadFromCSV(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("import catalogue: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows, skipped %d\n", report.Imported, report.Skipped)
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rt, err := app.Build(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rt.Close(); cerr != nil {
			logrus.WithError(cerr).Warn("close runtime")
		}
	}()

	result, err := rt.Engine.Verify(cmd.Context(), verify.Request{
		MedicineInput:     args[0],
		BatchNumber:       checkBatch,
		ManufacturerInput: checkManufacturer,
		UserLocation:      checkLocation,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(api.NewVerificationResponse(result))
}
