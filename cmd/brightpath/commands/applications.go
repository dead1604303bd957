package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/justsurfingit/brightpath/internal/errors"
	"github.com/justsurfingit/brightpath/internal/lifecycle"
	"github.com/justsurfingit/brightpath/internal/models"
)

// ListCmd lists applications
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List job applications",
	Long: `List every application with the current statistics.

Examples:
  brightpath list
  brightpath list --status interview
  brightpath list --order-by applicationDate --desc`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		orderBy, _ := cmd.Flags().GetString("order-by")
		desc, _ := cmd.Flags().GetBool("desc")
		return runList(cmd.Context(), status, orderBy, desc)
	},
}

// ShowCmd shows one application
var ShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShow(cmd.Context(), args[0])
	},
}

// AddCmd creates an application
var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new application",
	Long: `Record a new application. Company and position are required; the
date defaults to today and the status to pending.

Example:
  brightpath add --company TechCorp --position "Frontend Developer" --location Paris`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdd(cmd.Context(), inputFromFlags(cmd.Flags(), time.Now()))
	},
}

// EditCmd updates an application
var EditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of an application",
	Long: `Change the fields given as flags; the others keep their value.

Example:
  brightpath edit lrx3k2a1-4f9z0qk --status interview --notes "Call on Monday"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch := patchFromFlags(cmd.Flags())
		if patch.IsEmpty() {
			return errors.New("nothing to change: pass at least one field flag")
		}
		return runEdit(cmd.Context(), args[0], patch)
	},
}

// DeleteCmd removes an application after confirmation
var DeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		return runDelete(cmd.Context(), args[0], yes)
	},
}

// StatsCmd prints the counts per status
var StatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show application statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStats(cmd.Context())
	},
}

func init() {
	ListCmd.Flags().String("status", "", "Only show applications with this status (pending, interview, rejected, accepted)")
	ListCmd.Flags().String("order-by", "createdAt", "Field to order by")
	ListCmd.Flags().Bool("desc", false, "Order from high to low")

	addFieldFlags(AddCmd.Flags())
	addFieldFlags(EditCmd.Flags())

	DeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

func addFieldFlags(fs *pflag.FlagSet) {
	fs.String("company", "", "Company name")
	fs.String("position", "", "Position applied for")
	fs.String("date", "", "Application date (YYYY-MM-DD)")
	fs.String("status", "", "Status (pending, interview, rejected, accepted)")
	fs.String("location", "", "Location")
	fs.String("salary", "", "Salary")
	fs.String("contact-person", "", "Contact person")
	fs.String("contact-email", "", "Contact email")
	fs.String("contact-phone", "", "Contact phone")
	fs.String("description", "", "Job description")
	fs.String("notes", "", "Notes")
}

func inputFromFlags(fs *pflag.FlagSet, now time.Time) models.ApplicationInput {
	get := func(name string) string {
		v, _ := fs.GetString(name)
		return strings.TrimSpace(v)
	}
	in := models.ApplicationInput{
		Company:         get("company"),
		Position:        get("position"),
		ApplicationDate: get("date"),
		Status:          models.Status(get("status")),
		Location:        get("location"),
		Salary:          get("salary"),
		ContactPerson:   get("contact-person"),
		ContactEmail:    get("contact-email"),
		ContactPhone:    get("contact-phone"),
		JobDescription:  get("description"),
		Notes:           get("notes"),
	}
	if in.ApplicationDate == "" {
		in.ApplicationDate = now.Format("2006-01-02")
	}
	return in
}

// patchFromFlags carries only the flags set on the command line; an explicit empty value clears the field.
func patchFromFlags(fs *pflag.FlagSet) models.ApplicationPatch {
	get := func(name string) *string {
		if !fs.Changed(name) {
			return nil
		}
		v, _ := fs.GetString(name)
		return &v
	}
	p := models.ApplicationPatch{
		Company:         get("company"),
		Position:        get("position"),
		ApplicationDate: get("date"),
		Location:        get("location"),
		Salary:          get("salary"),
		ContactPerson:   get("contact-person"),
		ContactEmail:    get("contact-email"),
		ContactPhone:    get("contact-phone"),
		JobDescription:  get("description"),
		Notes:           get("notes"),
	}
	if s := get("status"); s != nil {
		st := models.Status(*s)
		p.Status = &st
	}
	return p
}

func runList(ctx context.Context, status, orderBy string, desc bool) error {
	app, err := Setup(ctx)
	if err != nil {
		return err
	}
	c := app.Controller(nil)
	err = c.Load(ctx)
	app.MockBanner()
	if err != nil {
		return userError(c, err)
	}

	view := c.View()
	filters := models.Filters{Status: models.Status(status), OrderBy: orderBy, Limit: len(view.Applications)}
	if desc {
		filters.OrderDirection = "desc"
	}
	res := models.Query(view.Applications, filters)
	if len(res.Applications) == 0 {
		pterm.Info.Println("No applications yet. Add one with `brightpath add`.")
	} else if err := pterm.DefaultTable.WithHasHeader().WithData(applicationRows(res.Applications)).Render(); err != nil {
		return err
	}
	pterm.Println()
	printStats(view.Stats)
	return nil
}

func runShow(ctx context.Context, id string) error {
	app, err := Setup(ctx)
	if err != nil {
		return err
	}
	c := app.Controller(nil)
	if err := c.Load(ctx); err != nil {
		app.MockBanner()
		return userError(c, err)
	}
	a, err := c.OpenDetail(ctx, id)
	app.MockBanner()
	if err != nil {
		return userError(c, err)
	}
	printApplication(*a)
	return nil
}

func runAdd(ctx context.Context, in models.ApplicationInput) error {
	app, err := Setup(ctx)
	if err != nil {
		return err
	}
	c := app.Controller(nil)
	if err := c.OpenCreate(); err != nil {
		return err
	}
	created, err := c.Create(ctx, in)
	app.MockBanner()
	if err != nil {
		return userError(c, err)
	}
	pterm.Success.Printfln("Application %s created (%s at %s)", created.ID, created.Position, created.Company)
	return nil
}

func runEdit(ctx context.Context, id string, patch models.ApplicationPatch) error {
	app, err := Setup(ctx)
	if err != nil {
		return err
	}
	c := app.Controller(nil)
	if err := c.Load(ctx); err != nil {
		return userError(c, err)
	}
	if _, err := c.OpenEdit(ctx, id); err != nil {
		app.MockBanner()
		return userError(c, err)
	}
	updated, err := c.Update(ctx, id, patch)
	app.MockBanner()
	if err != nil {
		return userError(c, err)
	}
	pterm.Success.Printfln("Application %s updated (status: %s)", updated.ID, updated.Status)
	return nil
}

func runDelete(ctx context.Context, id string, yes bool) error {
	app, err := Setup(ctx)
	if err != nil {
		return err
	}
	c := app.Controller(confirmer(yes))
	if err := c.Load(ctx); err != nil {
		return userError(c, err)
	}
	deleted, err := c.Delete(ctx, id)
	app.MockBanner()
	if err != nil {
		return userError(c, err)
	}
	if deleted {
		pterm.Success.Printfln("Application %s deleted", id)
	} else {
		pterm.Info.Println("Nothing deleted")
	}
	return nil
}

func runStats(ctx context.Context) error {
	app, err := Setup(ctx)
	if err != nil {
		return err
	}
	st, err := app.Store.Stats(ctx)
	app.MockBanner()
	if err != nil {
		return err
	}
	printStats(st)
	return nil
}

// confirmer asks on the terminal unless yes is set.
func confirmer(yes bool) lifecycle.Confirmer {
	return lifecycle.ConfirmFunc(func(_ context.Context, a models.Application) (bool, error) {
		if yes {
			return true, nil
		}
		label := a.ID
		if a.Company != "" {
			label = fmt.Sprintf("%s at %s", a.Position, a.Company)
		}
		return pterm.DefaultInteractiveConfirm.Show(fmt.Sprintf("Delete the application for %s?", label))
	})
}

// userError replaces err with the message the controller shows, keeping the cause for -v.
func userError(c *lifecycle.Controller, err error) error {
	if msg := c.View().Error; msg != "" && !Verbose {
		return errors.New(msg)
	}
	return err
}

func applicationRows(apps []models.Application) pterm.TableData {
	rows := pterm.TableData{{"ID", "Company", "Position", "Date", "Status", "Location"}}
	for _, a := range apps {
		rows = append(rows, []string{a.ID, a.Company, a.Position, a.ApplicationDate, string(a.Status), a.Location})
	}
	return rows
}

func printStats(st models.Stats) {
	pterm.Info.Printfln("Total %d | Pending %d | Interview %d | Rejected %d | Accepted %d",
		st.Total, st.Pending, st.Interview, st.Rejected, st.Accepted)
}

func printApplication(a models.Application) {
	rows := [][2]string{
		{"ID", a.ID},
		{"Company", a.Company},
		{"Position", a.Position},
		{"Date", a.ApplicationDate},
		{"Status", string(a.Status)},
		{"Location", a.Location},
		{"Salary", a.Salary},
		{"Contact", a.ContactPerson},
		{"Email", a.ContactEmail},
		{"Phone", a.ContactPhone},
		{"Description", a.JobDescription},
		{"Notes", a.Notes},
		{"Created", a.CreatedAt.Local().Format(time.RFC1123)},
		{"Updated", a.UpdatedAt.Local().Format(time.RFC1123)},
	}
	data := pterm.TableData{}
	for _, r := range rows {
		if r[1] != "" {
			data = append(data, []string{r[0], r[1]})
		}
	}
	_ = pterm.DefaultTable.WithData(data).Render()
}
