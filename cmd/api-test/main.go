package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"timebank-smoke/configs"
	"timebank-smoke/internal/application/report"
	"timebank-smoke/internal/domain/gateway/api"
	"timebank-smoke/internal/domain/usecase/smoketest"
	"timebank-smoke/internal/infra/httplog"
	"timebank-smoke/internal/version"
	"timebank-smoke/pkg/http"
	"timebank-smoke/pkg/log"
	"timebank-smoke/pkg/resource"
)

const (
	DefaultBaseURL      = "http://localhost:8080"
	DefaultMethod       = "POST"
	DefaultTimeout      = 5 * time.Second
	DefaultStartupDelay = 10 * time.Second
)

// errReported is returned once the verdict has already been printed.
var errReported = errors.New("smoke test failed")

// options is the resolved configuration of one run.
type options struct {
	BaseURL      string
	Path         string
	Method       http.RequestMethod
	Timeout      time.Duration
	StartupDelay time.Duration
}

// mustBindFlag binds flag to key. A missing flag is a wiring mistake, so it panics.
func mustBindFlag(key string, flag *pflag.Flag) {
	if err := resource.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag to %s: %v", key, err))
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "api-test",
		Short:         "Smoke test the TimeBank HTTP API /health endpoint",
		Version:       version.Short(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions()
			if err != nil {
				return err
			}
			if code := run(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr()); code != report.ExitPass {
				return errReported
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false
	flags.String("base-url", DefaultBaseURL, "Base URL for the API")
	flags.String("method", DefaultMethod, "HTTP method used to call /health")
	flags.Duration("timeout", DefaultTimeout, "Timeout of the /health call")
	flags.Duration("startup-delay", DefaultStartupDelay, "Time to wait for the server before testing")

	mustBindFlag("api-test.base-url", flags.Lookup("base-url"))
	mustBindFlag("api-test.method", flags.Lookup("method"))
	mustBindFlag("api-test.timeout", flags.Lookup("timeout"))
	mustBindFlag("api-test.startup-delay", flags.Lookup("startup-delay"))

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func loadOptions() (options, error) {
	method, err := http.ParseRequestMethod(resource.GetString("api-test.method"))
	if err != nil {
		return options{}, err
	}

	path := resource.GetString("api-test.path")
	if path == "" {
		path = "/health"
	}

	return options{
		BaseURL:      resource.GetString("api-test.base-url"),
		Path:         path,
		Method:       method,
		Timeout:      resource.GetDuration("api-test.timeout"),
		StartupDelay: resource.GetDuration("api-test.startup-delay"),
	}, nil
}

// run waits for the server, calls /health once and prints the verdict. It returns the exit code.
func run(ctx context.Context, opts options, stdout, stderr io.Writer) int {
	reporter := report.NewConsoleReporter(stdout, stderr)

	healthGateway := api.NewHealthGateway(opts.BaseURL, opts.Path, opts.Method, http.ClientOptions{
		FollowRedirect:    true,
		ConnectionTimeout: opts.Timeout,
		ReadTimeout:       opts.Timeout,
		Logger:            httplog.NewZapHTTPLogger(),
	})
	useCase := smoketest.NewSmokeTestUseCase(healthGateway, opts.StartupDelay)

	log.Infow("smoke test configured",
		"base_url", opts.BaseURL,
		"method", string(opts.Method),
		"timeout", opts.Timeout.String(),
		"startup_delay", opts.StartupDelay.String(),
	)

	reporter.Waiting(opts.StartupDelay)
	if err := useCase.WaitForServer(ctx); err != nil {
		return reporter.Failure(err)
	}
	reporter.Starting()

	return reporter.Result(useCase.Run(ctx))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	code := report.ExitPass
	if err := configs.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "[FAIL] %v\n", err)
		code = report.ExitFail
	} else if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "[FAIL] %v\n", err)
		}
		code = report.ExitFail
	}

	stop()
	log.Sync()
	os.Exit(code)
}
