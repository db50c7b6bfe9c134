package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quantmind-br/composefetch-go/internal/app"
	"github.com/quantmind-br/composefetch-go/internal/config"
	"github.com/quantmind-br/composefetch-go/internal/manifest"
	"github.com/quantmind-br/composefetch-go/internal/utils"
	"github.com/quantmind-br/composefetch-go/pkg/version"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "composefetch [spec...]",
	Short: "Fetch and merge docker-compose services from GitHub",
	Long: `composefetch fetches docker-compose files from GitHub repositories and
merges the requested services into a single local compose file.

Each spec names a repository file and the services to take from it:

  project/repository[+branch]:path@service[,service...]

For example:

  composefetch "Data4Democracy/docker-scaffolding:docker-compose.yml@api" \
               "someuser/nginx-demo+dev:compose/docker-compose.yml@nginx,redis"

Services are merged in the order the specs are given; a later spec that
names an already-merged service replaces it. The first fetched file that
declares a compose version sets the version of the output.`,
	Version: version.Short(),
	Args:    cobra.ArbitraryArgs,
	RunE:    run,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.composefetch/config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "./docker-compose.yml", "Output compose file")
	rootCmd.PersistentFlags().StringP("transport", "t", "http", "Fetch transport (http, archive, git)")
	rootCmd.PersistentFlags().StringP("manifest", "m", "", "Read specs from a manifest file instead of arguments")
	rootCmd.PersistentFlags().IntP("concurrency", "j", 4, "Number of concurrent fetches")
	rootCmd.PersistentFlags().String("branch", "", "Default branch for specs that do not name one")
	rootCmd.PersistentFlags().Bool("strict", false, "Abort without writing when any spec fails")
	rootCmd.PersistentFlags().Bool("dry-run", false, "Resolve and merge without writing the output file")
	rootCmd.PersistentFlags().Bool("no-progress", false, "Disable the progress bar")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	// Cache flags
	rootCmd.PersistentFlags().Bool("no-cache", false, "Disable caching")
	rootCmd.PersistentFlags().Duration("cache-ttl", 15*time.Minute, "Cache TTL")
	rootCmd.PersistentFlags().Bool("refresh-cache", false, "Force cache refresh")

	// Fetch flags
	rootCmd.PersistentFlags().Duration("timeout", 30*time.Second, "Request timeout")
	rootCmd.PersistentFlags().String("user-agent", "", "Custom User-Agent")

	// Bind flags to viper
	_ = viper.BindPFlag("output.path", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("fetch.transport", rootCmd.PersistentFlags().Lookup("transport"))
	_ = viper.BindPFlag("fetch.timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("fetch.user_agent", rootCmd.PersistentFlags().Lookup("user-agent"))
	_ = viper.BindPFlag("fetch.default_branch", rootCmd.PersistentFlags().Lookup("branch"))
	_ = viper.BindPFlag("concurrency.workers", rootCmd.PersistentFlags().Lookup("concurrency"))
	_ = viper.BindPFlag("cache.ttl", rootCmd.PersistentFlags().Lookup("cache-ttl"))

	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	strict, _ := cmd.Flags().GetBool("strict")
	specs := args

	manifestPath, _ := cmd.Flags().GetString("manifest")
	if manifestPath != "" {
		if len(args) > 0 {
			return fmt.Errorf("pass specs as arguments or via --manifest, not both")
		}

		manifestCfg, err := manifest.NewLoader().Load(manifestPath)
		if err != nil {
			return err
		}
		specs = manifestCfg.Specs
		applyManifestOptions(cfg, &strict, manifestCfg.Options, cmd.Flags().Changed)
	}

	if len(specs) == 0 {
		return cmd.Help()
	}

	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noProgress, _ := cmd.Flags().GetBool("no-progress")
	refreshCache, _ := cmd.Flags().GetBool("refresh-cache")

	orchestrator, err := app.NewOrchestrator(app.OrchestratorOptions{
		Config:       cfg,
		Verbose:      verbose,
		DryRun:       dryRun,
		Strict:       strict,
		NoProgress:   noProgress || verbose,
		RefreshCache: refreshCache,
	})
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	defer orchestrator.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := utils.NewDefaultLogger()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("Shutting down gracefully...")
		cancel()
	}()

	return orchestrator.Run(ctx, specs)
}

// applyManifestOptions copies manifest options into the resolved config.
// Command-line flags beat manifest options, and options the manifest leaves
// out keep whatever the config file or defaults resolved them to.
func applyManifestOptions(cfg *config.Config, strict *bool, opts manifest.Options, flagChanged func(string) bool) {
	if opts.Output != "" && !flagChanged("output") {
		cfg.Output.Path = opts.Output
	}
	if opts.Transport != "" && !flagChanged("transport") {
		cfg.Fetch.Transport = opts.Transport
	}
	if opts.Strict && !flagChanged("strict") {
		*strict = true
	}
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system dependencies",
	Long:  "Verifies that network access, the configuration and the cache directory are usable.",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Checking system dependencies...")
		allPassed := true

		fmt.Print("  GitHub reachable: ")
		if checkGitHub() {
			fmt.Println("OK")
		} else {
			fmt.Println("FAILED")
			allPassed = false
		}

		fmt.Print("  Write permissions: ")
		if checkWritePermissions() {
			fmt.Println("OK")
		} else {
			fmt.Println("FAILED")
			allPassed = false
		}

		fmt.Print("  Config directory: ")
		if err := config.EnsureConfigDir(); err != nil {
			fmt.Printf("FAILED (%v)\n", err)
			allPassed = false
		} else {
			fmt.Printf("OK (%s)\n", config.ConfigDir())
		}

		fmt.Print("  Config file: ")
		if _, err := config.Load(); err != nil {
			fmt.Printf("WARN (%v)\n", err)
		} else {
			fmt.Printf("OK (%s)\n", config.ConfigFilePath())
		}

		fmt.Print("  Cache directory: ")
		cacheDir := config.CacheDir()
		if err := config.EnsureCacheDir(); err == nil && checkCacheDir(cacheDir) {
			fmt.Printf("OK (%s)\n", cacheDir)
		} else {
			fmt.Println("WARN (will be created on first use)")
		}

		fmt.Println()
		if allPassed {
			fmt.Println("All critical checks passed!")
		} else {
			fmt.Println("Some checks failed. Please resolve the issues above.")
		}
		return nil
	},
}

// checkGitHub checks that raw.githubusercontent.com answers at all
func checkGitHub() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, "https://raw.githubusercontent.com", nil)
	if err != nil {
		return false
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

// checkWritePermissions checks if we can write to the current directory
func checkWritePermissions() bool {
	tmpFile := ".composefetch_test_write"
	f, err := os.Create(tmpFile)
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(tmpFile)
	return true
}

// checkCacheDir checks if the cache directory exists
func checkCacheDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Full())
	},
}
