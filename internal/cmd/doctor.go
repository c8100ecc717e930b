package cmd

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rupeewave/teller/internal/config"
	"github.com/rupeewave/teller/internal/errors"
	"github.com/rupeewave/teller/internal/gateway"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check connectivity to the banking service",
	Long: `Run a quick diagnostic against the configured banking service.

Checks include:
  - configuration resolution (flags, environment, config file)
  - backend reachability
  - whether a stored session cookie is still valid

Examples:
  # Run diagnostics against the configured backend
  teller doctor

  # Output as JSON for scripting
  teller doctor --json`,
	RunE: runDoctor,
}

var doctorJSON bool

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(doctorCmd)
}

// DoctorReport is the result of the connectivity diagnostic
type DoctorReport struct {
	BaseURL       string `json:"base_url"`
	ConfigFile    string `json:"config_file,omitempty"`
	Reachable     bool   `json:"reachable"`
	Authenticated bool   `json:"authenticated"`
	LatencyMS     int64  `json:"latency_ms,omitempty"`
	Error         string `json:"error,omitempty"`
	Healthy       bool   `json:"healthy"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	report := DoctorReport{BaseURL: cfg.BaseURL}
	if path := config.Path(); path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			report.ConfigFile = path
		}
	}

	gw := gateway.NewClient(cfg.BaseURL, gateway.WithLogger(newLogger(cfg)))

	start := time.Now()
	_, checkErr := gw.CheckSession(cmd.Context())
	report.LatencyMS = time.Since(start).Milliseconds()

	switch {
	case checkErr == nil:
		report.Reachable = true
		report.Authenticated = true
	case gatewayReachable(checkErr):
		// The backend answered; only the session is missing.
		report.Reachable = true
	default:
		report.Error = checkErr.Error()
	}
	report.Healthy = report.Reachable

	if doctorJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal doctor report: %w", err)
		}
		fmt.Println(string(data))
	} else {
		printDoctorReport(report)
	}

	if !report.Healthy {
		return fmt.Errorf("banking service at %s is not reachable", report.BaseURL)
	}
	return nil
}

// gatewayReachable reports whether the error came from an answering
// backend rather than a failed connection
func gatewayReachable(err error) bool {
	var te *errors.TellerError
	if stderrors.As(err, &te) {
		return te.Code != errors.ErrCodeTransport
	}
	return false
}

func printDoctorReport(r DoctorReport) {
	check := func(ok bool) string {
		if ok {
			return "ok"
		}
		return "FAIL"
	}

	fmt.Printf("Backend:        %s\n", r.BaseURL)
	if r.ConfigFile != "" {
		fmt.Printf("Config file:    %s\n", r.ConfigFile)
	}
	fmt.Printf("Reachable:      %s", check(r.Reachable))
	if r.Reachable {
		fmt.Printf(" (%dms)", r.LatencyMS)
	}
	fmt.Println()
	fmt.Printf("Session valid:  %s\n", check(r.Authenticated))
	if r.Error != "" {
		fmt.Printf("Error:          %s\n", r.Error)
	}
}
