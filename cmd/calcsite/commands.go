package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/calcsite/internal/assistant"
	"github.com/hammamikhairi/calcsite/internal/conversation"
	"github.com/hammamikhairi/calcsite/internal/domain"
	"github.com/hammamikhairi/calcsite/internal/engine"
	"github.com/hammamikhairi/calcsite/internal/formula"
	"github.com/hammamikhairi/calcsite/internal/ledger"
	"github.com/hammamikhairi/calcsite/internal/reference"
	"github.com/hammamikhairi/calcsite/internal/units"
)

type appFunc func() *app

func show(cmd *cobra.Command, block string) {
	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(block, "\n"))
}

// ── tools / calc ─────────────────────────────────────────────────

func newToolsCmd(get appFunc) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "tools [category]",
		Short: "List categories, or the tools of one category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			switch {
			case search != "":
				show(cmd, a.styles.ToolList("Search: "+search, a.tools.Search(search)))
			case len(args) == 1:
				show(cmd, a.styles.ToolList(categoryName(args[0]), a.tools.ListByCategory(args[0])))
			default:
				show(cmd, a.styles.Home(a.tools.Categories()))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "search tools by name or description")
	return cmd
}

func categoryName(id string) string {
	for _, c := range formula.Categories {
		if strings.EqualFold(c.ID, id) {
			return c.Icon + " " + c.Name
		}
	}
	return id
}

func newCalcCmd(get appFunc) *cobra.Command {
	var add bool
	cmd := &cobra.Command{
		Use:   "calc <tool> [key=value...]",
		Short: "Run a calculator, optionally adding the result to the bill",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			ctx := cmd.Context()
			s, err := a.eng.Open(ctx, args[0])
			if errors.Is(err, domain.ErrToolNotFound) {
				show(cmd, a.styles.NotFound("Tool", args[0]))
				return err
			}
			if err != nil {
				return err
			}
			for _, kv := range conversation.Assignments(strings.Join(args[1:], " ")) {
				if err := a.eng.Update(ctx, s, kv[0], kv[1]); err != nil {
					return err
				}
			}
			show(cmd, a.styles.Tool(s.Tool(), s.Values(), s.Result(), a.eng.Settings().Currency()))
			if add {
				item, err := a.eng.Commit(ctx, s)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added to BOQ: %s %s\n", item.Name, ledger.FormatMoney(a.eng.Settings().Currency(), item.Amount))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&add, "add", false, "commit the result to the bill of quantities")
	return cmd
}

// ── boq ──────────────────────────────────────────────────────────

func newBOQCmd(get appFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "boq",
		Aliases: []string{"ledger"},
		Short:   "Show or edit the bill of quantities",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			show(cmd, a.styles.Ledger(a.eng.Items(), a.eng.Settings().Currency()))
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List items and the total",
		RunE:  cmd.RunE,
	}

	remove := &cobra.Command{
		Use:   "remove <n|id>",
		Short: "Remove one item by position or id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			it, ok := a.eng.FindItem(args[0])
			if !ok {
				return fmt.Errorf("item %q: %w", args[0], domain.ErrNotFound)
			}
			if _, err := a.eng.RemoveItem(cmd.Context(), it.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", it.Name)
			return nil
		},
	}

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every item (needs --yes)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := get().eng.ClearLedger(cmd.Context(), yes); err != nil {
				if errors.Is(err, domain.ErrConfirmationRequired) {
					return errors.New("clearing the bill cannot be undone; re-run with --yes")
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Ledger cleared")
			return nil
		},
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm")

	var format, out string
	export := &cobra.Command{
		Use:   "export",
		Short: "Export the bill as text, xlsx or pdf",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = formatFromPath(out)
			}
			data, err := get().eng.Export(cmd.Context(), format)
			if err != nil {
				return err
			}
			return writeExport(cmd.OutOrStdout(), out, data)
		},
	}
	export.Flags().StringVarP(&format, "format", "f", "", "text, xlsx or pdf (default from --out, else text)")
	export.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")

	cmd.AddCommand(list, remove, clearCmd, export)
	return cmd
}

func formatFromPath(path string) string {
	switch {
	case strings.HasSuffix(strings.ToLower(path), ".xlsx"):
		return engine.FormatExcel
	case strings.HasSuffix(strings.ToLower(path), ".pdf"):
		return engine.FormatPDF
	}
	return engine.FormatText
}

func writeExport(stdout io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Fprintf(stdout, "Exported %d bytes to %s\n", len(data), path)
	return nil
}

// ── settings ─────────────────────────────────────────────────────

func newRatesCmd(get appFunc) *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "rates [key value]",
		Short: "Show the material rate table or change one rate",
		Args:  cobra.MatchAll(cobra.MaximumNArgs(2), noSingleArg),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			ctx := cmd.Context()
			if reset {
				if err := a.eng.ResetRates(ctx); err != nil {
					return err
				}
			}
			if len(args) == 2 {
				v, err := a.eng.SetRate(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], cast.ToString(v))
				return nil
			}
			show(cmd, a.styles.Rates(a.eng.Settings().Rates()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "restore the default rates")
	return cmd
}

func noSingleArg(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return fmt.Errorf("expected a key and a value")
	}
	return nil
}

func newCurrencyCmd(get appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "currency [code]",
		Short: "Show or change the display currency",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if len(args) == 1 {
				cur, err := a.eng.SetCurrency(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Currency set to %s (%s)\n", cur.Code, cur.Symbol)
				return nil
			}
			show(cmd, a.styles.Currencies(a.eng.Settings().Currency()))
			return nil
		},
	}
}

func newThemeCmd(get appFunc) *cobra.Command {
	return &cobra.Command{
		Use:       "theme dark|light",
		Short:     "Switch the colour theme",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{domain.ThemeDark, domain.ThemeLight},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := get().eng.SetTheme(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s\n", strings.ToLower(args[0]))
			return nil
		},
	}
}

func newOnboardCmd(get appFunc) *cobra.Command {
	var unitSystem string
	cmd := &cobra.Command{
		Use:   "onboard <trade...>",
		Short: "Pick your trades and unit system",
		Long:  "Trades: electrician, plumber, hvac, carpenter, tile, painter, general.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trades, parsedUnits, err := parseTrades(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if unitSystem == "" {
				unitSystem = parsedUnits
			}
			p, err := get().eng.Onboard(cmd.Context(), trades, strings.ToLower(unitSystem))
			if err != nil {
				return err
			}
			names := make([]string, len(p.SelectedTrades))
			for i, t := range p.SelectedTrades {
				names[i] = string(t)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Trades: %s (%s)\n", strings.Join(names, ", "), p.Units)
			return nil
		},
	}
	cmd.Flags().StringVarP(&unitSystem, "units", "u", "", "metric or imperial")
	return cmd
}

func newProjectCmd(get appFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Manage site estimates",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			s := a.eng.Settings()
			show(cmd, a.styles.Projects(s.Projects(), s.ActiveProject().ID))
			return nil
		},
	}
	list := &cobra.Command{Use: "list", Short: "List projects", RunE: cmd.RunE}

	var location string
	create := &cobra.Command{
		Use:   "new [name...]",
		Short: "Create a project and make it active",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := get().eng.CreateProject(cmd.Context(), strings.Join(args, " "), location)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", p.Name, p.Location)
			return nil
		},
	}
	create.Flags().StringVarP(&location, "location", "l", "", "site location")

	use := &cobra.Command{
		Use:   "use <id|name>",
		Short: "Switch the active project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := get().eng.SwitchProject(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Active project: %s\n", p.Name)
			return nil
		},
	}

	var yes bool
	del := &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a project (needs --yes); its items stay in the bill",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			p, err := a.eng.DeleteProject(cmd.Context(), strings.Join(args, " "), yes)
			if errors.Is(err, domain.ErrConfirmationRequired) {
				return errors.New("deleting a project cannot be undone; re-run with --yes")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s; active project: %s\n", p.Name, a.eng.Settings().ActiveProject().Name)
			return nil
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "confirm")

	cmd.AddCommand(list, create, use, del)
	return cmd
}

// ── convert / ref / ask ──────────────────────────────────────────

func newConvertCmd(get appFunc) *cobra.Command {
	var kind string
	var swap bool
	cmd := &cobra.Command{
		Use:   "convert <value> <from> <to>",
		Short: "Convert between length, area, volume or weight units",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newConversion(kind, args[0], args[1], args[2])
			if err != nil {
				return err
			}
			if swap {
				if err := c.Swap(); err != nil {
					return err
				}
			}
			out, err := describeConversion(c)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "length, area, volume or weight (default from the unit)")
	cmd.Flags().BoolVar(&swap, "swap", false, "convert the result back the other way")
	return cmd
}

// newConversion builds a converter for value from -> to. The kind comes
// from the flag when given, else from the source unit.
func newConversion(kind, rawValue, from, to string) (*units.Converter, error) {
	var k units.Kind
	var ok bool
	if kind != "" {
		k, ok = units.LookupKind(kind)
	} else {
		k, ok = units.KindOf(from)
	}
	if !ok {
		return nil, fmt.Errorf("convert %q: %w", from, domain.ErrUnknownUnit)
	}
	c := units.NewConverter(k)
	if err := c.Set(cast.ToFloat64(rawValue), from, to); err != nil {
		return nil, err
	}
	return c, nil
}

// describeConversion formats "<v> <from> = <result> <to>".
func describeConversion(c *units.Converter) (string, error) {
	res, err := c.Result()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s = %s %s", cast.ToString(c.Value), c.From,
		strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", res), "0"), "."), c.To), nil
}

func newRefCmd(get appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "ref [query]",
		Short: "Reference tables and thumb rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			q := strings.Join(args, " ")
			tables, rules := reference.Search(q)
			if len(tables) == 0 && len(rules) == 0 {
				show(cmd, a.styles.NotFound("Reference", q))
				return nil
			}
			show(cmd, a.styles.Reference(tables, rules))
			return nil
		},
	}
}

func newAskCmd(get appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask the AI engineering assistant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if a.chat == nil {
				return errors.New("the assistant is disabled")
			}
			out, err := a.chat.Send(cmd.Context(), assistant.NewTranscript(), strings.Join(args, " "))
			if len(out) > 0 {
				show(cmd, a.styles.Turn(out[len(out)-1]))
			}
			return err
		},
	}
}
