package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/elitceler/streetcause-admin/internal/config"
	"github.com/elitceler/streetcause-admin/pkg/api"
	"github.com/elitceler/streetcause-admin/pkg/auth"
	"github.com/elitceler/streetcause-admin/pkg/cache"
	"github.com/elitceler/streetcause-admin/pkg/core/model"
	"github.com/elitceler/streetcause-admin/pkg/session"
	"github.com/elitceler/streetcause-admin/pkg/store"
	"github.com/elitceler/streetcause-admin/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	session    *session.Store
	client     *api.Client
	volunteers *store.Volunteers
	donations  *store.Donations
	snapshot   *cache.Cache
	ctx        context.Context
}

var (
	env string
	app *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "streetcause-admin",
		Short: "Street Cause Admin CLI - Manage volunteers and donations",
		Long:  `A CLI tool for administering the Street Cause platform: review volunteer registrations, approve or reject profiles, and browse donations.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.snapshot != nil {
					app.snapshot.Close()
				}
				if app.logger != nil {
					app.logger.Sync()
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "prod", "Environment name used for log files")

	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(whoamiCmd())
	rootCmd.AddCommand(volunteersCmd())
	rootCmd.AddCommand(donationsCmd())
	rootCmd.AddCommand(interactiveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, session, API client, and stores
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	app.logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded", zap.String("api_base_url", app.cfg.APIBaseURL))

	app.session, err = session.NewStore()
	if err != nil {
		return fmt.Errorf("failed to create session store: %w", err)
	}
	if err := app.session.Load(); err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}

	if path, enabled := app.cfg.CacheFile(); enabled {
		app.snapshot, err = cache.Open(path)
		if err != nil {
			// The cache is a convenience; keep going without it.
			app.logger.Warn("Failed to open snapshot cache", zap.Error(err))
			app.snapshot = nil
		}
	}

	app.client = api.NewClient(app.cfg.APIBaseURL, app.session, app.logger,
		api.WithHTTPClient(&http.Client{Timeout: app.cfg.HTTPTimeout}),
		api.WithUnauthorizedHook(func() {
			fmt.Println("\nSession expired. Run 'login <email>' to authenticate again.")
		}),
	)

	app.volunteers = store.NewVolunteers(app.client, app.logger, app.snapshot)
	app.donations = store.NewDonations(app.client, app.logger, app.snapshot)

	return nil
}

// Command definitions

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in as an admin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				fmt.Print("Password: ")
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			creds := auth.Credentials{Email: args[0], Password: password}
			if err := auth.Login(app.ctx, app.client, app.session, creds); err != nil {
				return err
			}

			fmt.Printf("Logged in as %s\n", app.session.Current().Email)
			return nil
		},
	}

	cmd.Flags().String("password", "", "Password (prompted when omitted)")

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and discard the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.session.Clear(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.session.Authenticated() {
				fmt.Println("Not logged in.")
				return nil
			}

			current := app.session.Current()
			fmt.Printf("Logged in as %s\n", current.Email)

			info, err := auth.InspectToken(current.Token)
			if err != nil {
				// Opaque token: identity is all we can show.
				app.logger.Debug("Token is not inspectable", zap.Error(err))
				return nil
			}

			if info.ExpiresAt != nil {
				if info.Expired(time.Now()) {
					fmt.Printf("Session expired at %s - run 'login <email>' again.\n",
						info.ExpiresAt.Local().Format(time.RFC1123))
				} else {
					fmt.Printf("Session valid until %s\n",
						info.ExpiresAt.Local().Format(time.RFC1123))
				}
			}

			return nil
		},
	}
}

func volunteersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "volunteers",
		Short: "Browse and manage volunteer registrations",
	}

	cmd.AddCommand(volunteersListCmd())
	cmd.AddCommand(volunteersShowCmd())
	cmd.AddCommand(volunteerStatusCmd("approve", model.StatusApproved))
	cmd.AddCommand(volunteerStatusCmd("reject", model.StatusRejected))
	cmd.AddCommand(volunteerStatusCmd("suspend", model.StatusSuspended))
	cmd.AddCommand(volunteerStatusCmd("freeze", model.StatusFrozen))

	return cmd
}

func volunteersListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List volunteers, one page at a time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, _ := cmd.Flags().GetInt("page")
			limit, _ := cmd.Flags().GetInt("limit")
			offline, _ := cmd.Flags().GetBool("offline")

			if offline {
				if err := app.volunteers.LoadSnapshot(); err != nil {
					return fmt.Errorf("failed to load snapshot: %w", err)
				}
			} else if err := app.volunteers.FetchPage(app.ctx, page, limit); err != nil {
				return err
			}

			printVolunteers(app.volunteers.Items(), app.volunteers.Meta())
			return nil
		},
	}

	cmd.Flags().Int("page", 1, "Page number")
	cmd.Flags().Int("limit", 10, "Items per page")
	cmd.Flags().Bool("offline", false, "Serve the last fetched snapshot instead of calling the API")

	return cmd
}

func volunteersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <volunteer_id>",
		Short: "Show a volunteer's full record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.volunteers.FetchDetails(app.ctx, args[0]); err != nil {
				return err
			}

			v := app.volunteers.Selected()
			if v == nil {
				return fmt.Errorf("volunteer %s not found", args[0])
			}

			fmt.Printf("\n%s (%s)\n", v.FullName, v.RegistrationCode)
			fmt.Printf("  Status:   %s\n", v.ProfileStatus)
			fmt.Printf("  Email:    %s\n", v.Email)
			fmt.Printf("  Phone:    %s\n", v.PhoneNumber)
			fmt.Printf("  Role:     %s (%s division)\n", v.Role, v.Division)
			fmt.Printf("  Address:  %s, %s, %s %s, %s\n",
				v.AddressLine1, v.AddressLine2, v.City, v.PostalCode, v.State)
			fmt.Printf("  ID type:  %s\n", v.GovernmentIDType)
			if v.GovernmentIDURL != nil {
				fmt.Printf("  ID doc:   %s\n", *v.GovernmentIDURL)
			}
			if v.SelfieURL != nil {
				fmt.Printf("  Selfie:   %s\n", *v.SelfieURL)
			}
			fmt.Printf("  Joined:   %s\n\n", v.CreatedAt.Local().Format("2006-01-02"))

			return nil
		},
	}
}

func volunteerStatusCmd(verb string, status model.ProfileStatus) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("%s <volunteer_id>", verb),
		Short: fmt.Sprintf("Set a volunteer's profile status to %s", status),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.volunteers.UpdateStatus(app.ctx, args[0], status); err != nil {
				return err
			}
			fmt.Printf("Volunteer %s is now %s.\n", args[0], status)
			return nil
		},
	}
}

func donationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "donations",
		Short: "Browse donations",
	}

	cmd.AddCommand(donationsListCmd())
	cmd.AddCommand(donationsUpcomingCmd())

	return cmd
}

func donationsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List donations, one page at a time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, _ := cmd.Flags().GetInt("page")
			limit, _ := cmd.Flags().GetInt("limit")
			offline, _ := cmd.Flags().GetBool("offline")

			if offline {
				if err := app.donations.LoadSnapshot(); err != nil {
					return fmt.Errorf("failed to load snapshot: %w", err)
				}
			} else if err := app.donations.FetchPage(app.ctx, page, limit); err != nil {
				return err
			}

			printDonations(app.donations.Items(), app.donations.Meta())
			return nil
		},
	}

	cmd.Flags().Int("page", 1, "Page number")
	cmd.Flags().Int("limit", 10, "Items per page")
	cmd.Flags().Bool("offline", false, "Serve the last fetched snapshot instead of calling the API")

	return cmd
}

func donationsUpcomingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "Project upcoming charges of monthly donations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			months, _ := cmd.Flags().GetInt("months")
			page, _ := cmd.Flags().GetInt("page")
			limit, _ := cmd.Flags().GetInt("limit")

			if err := app.donations.FetchPage(app.ctx, page, limit); err != nil {
				return err
			}

			charges, err := app.donations.UpcomingCharges(time.Now(), months)
			if err != nil {
				return err
			}

			if len(charges) == 0 {
				fmt.Println("No monthly donations on this page.")
				return nil
			}

			fmt.Printf("\nProjected charges over the next %d month(s):\n\n", months)
			for _, c := range charges {
				fmt.Printf("  %s  %8d  %s (%s)\n",
					c.Due.Format("2006-01-02"),
					c.Donation.Amount,
					c.Donation.UserFullName,
					c.Donation.VolunteerName,
				)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Int("months", 3, "Projection horizon in months")
	cmd.Flags().Int("page", 1, "Page number to project from")
	cmd.Flags().Int("limit", 10, "Items per page")

	return cmd
}

func printVolunteers(volunteers []model.Volunteer, meta *model.Meta) {
	fmt.Printf("\nFound %d volunteers:\n\n", len(volunteers))
	for _, v := range volunteers {
		fmt.Printf("- %s (%s) - %s - %s [%s]\n",
			v.FullName,
			v.RegistrationCode,
			v.ProfileStatus,
			v.Email,
			v.City,
		)
	}
	printPageFooter(meta)
}

func printDonations(donations []model.Donation, meta *model.Meta) {
	fmt.Printf("\nFound %d donations:\n\n", len(donations))
	for _, d := range donations {
		fmt.Printf("- %8d  %-9s  %s <- %s (%s)\n",
			d.Amount,
			d.SubscriptionType,
			d.UserFullName,
			d.VolunteerName,
			d.Status,
		)
	}
	printPageFooter(meta)
}

// printPageFooter renders page controls when pagination is available. An
// absent meta is a valid state: the listing is complete as shown.
func printPageFooter(meta *model.Meta) {
	if meta == nil {
		fmt.Println()
		return
	}
	fmt.Printf("\nPage %d of %d (%d total)\n\n", meta.Page, meta.TotalPages, meta.TotalItems)
}

func interactiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (log in once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands against
the same session. The session keeps running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("\nStarting interactive session...")
			fmt.Println("Type 'help' for available commands, 'exit' or 'quit' to leave")

			// Gather sibling commands (excluding interactive itself)
			rootCmd := cmd.Parent()
			commands := make(map[string]*cobra.Command)
			for _, subCmd := range rootCmd.Commands() {
				if subCmd.Name() != "interactive" && subCmd.Name() != "completion" && subCmd.Name() != "help" {
					commands[subCmd.Name()] = subCmd
				}
			}

			scanner := bufio.NewScanner(os.Stdin)

			for {
				fmt.Print("> ")

				if !scanner.Scan() {
					break
				}

				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				parts := strings.Fields(line)
				cmdName := parts[0]
				cmdArgs := parts[1:]

				if cmdName == "exit" || cmdName == "quit" {
					fmt.Println("Goodbye!")
					return nil
				}

				if cmdName == "help" {
					printInteractiveHelp(commands)
					continue
				}

				targetCmd, exists := commands[cmdName]
				if !exists {
					fmt.Printf("Unknown command: %s (type 'help' for available commands)\n\n", cmdName)
					continue
				}

				// Group commands (volunteers, donations) dispatch to a subcommand
				if len(cmdArgs) > 0 && targetCmd.HasSubCommands() {
					if sub, rest, err := targetCmd.Find(cmdArgs); err == nil && sub != targetCmd {
						targetCmd = sub
						cmdArgs = rest
					}
				}

				runInteractiveCommand(targetCmd, cmdArgs)
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}

			return nil
		},
	}

	return cmd
}

// runInteractiveCommand executes a command's RunE directly, bypassing the full
// Execute() flow so PersistentPreRunE does not re-run initApp.
func runInteractiveCommand(targetCmd *cobra.Command, cmdArgs []string) {
	// Reset flags left over from a previous invocation
	targetCmd.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
		flag.Value.Set(flag.DefValue)
	})

	if err := targetCmd.ParseFlags(cmdArgs); err != nil {
		fmt.Printf("Error parsing flags: %v\n\n", err)
		return
	}

	cmdArgs = targetCmd.Flags().Args()

	if targetCmd.Args != nil {
		if err := targetCmd.Args(targetCmd, cmdArgs); err != nil {
			fmt.Printf("Error: %v\n\n", err)
			return
		}
	}

	if targetCmd.RunE != nil {
		if err := targetCmd.RunE(targetCmd, cmdArgs); err != nil {
			fmt.Printf("Error: %v\n\n", err)
		}
	} else if targetCmd.Run != nil {
		targetCmd.Run(targetCmd, cmdArgs)
	} else {
		fmt.Print(targetCmd.UsageString())
	}
}

func printInteractiveHelp(commands map[string]*cobra.Command) {
	fmt.Println("\nAvailable commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cmd := commands[name]
		fmt.Printf("  %-30s %s\n", cmd.Use, cmd.Short)
	}

	fmt.Println("\n  help                           Show this help message")
	fmt.Println("  exit, quit                     Exit the interactive session")
}
