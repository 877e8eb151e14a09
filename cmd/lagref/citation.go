package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coolbeans/lagref/pkg/citation"
)

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <citation>...",
		Short: "Parse citations into their parts",
		Long: `Parse Swedish legal citations and show document type, document id and pinpoint.

Example:
  lagref parse "SFS 2018:218 3 kap. 5 §"
  lagref parse "NJA 2020 s. 45" "Prop. 2017/18:105" --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatStr, _ := cmd.Flags().GetString("format")

			parsed := make([]citation.ParsedCitation, 0, len(args))
			for _, raw := range args {
				parsed = append(parsed, citation.Parse(raw))
			}

			if formatStr == "json" {
				return printJSON(parsed)
			}
			for _, c := range parsed {
				printParsed(c)
			}
			return nil
		},
	}
	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
	return cmd
}

func printParsed(c citation.ParsedCitation) {
	fmt.Printf("%s\n", c.Raw)
	if !c.Valid {
		fmt.Printf("  invalid: %s\n\n", c.Error)
		return
	}
	fmt.Printf("  type:        %s\n", c.Type)
	fmt.Printf("  document:    %s\n", c.DocumentID)
	if ch, ok := c.Chapter().Get(); ok {
		fmt.Printf("  chapter:     %s\n", ch)
	}
	if sec, ok := c.Section().Get(); ok {
		fmt.Printf("  section:     %s\n", sec)
	}
	if page, ok := c.Page().Get(); ok {
		fmt.Printf("  page:        %s\n", page)
	}
	fmt.Printf("  canonical:   %s\n\n", citation.Format(c, citation.StyleFull))
}

func formatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format <citation>...",
		Short: "Render citations in canonical form",
		Long: `Render citations in full, short or pinpoint style. Unparsable input is
printed unchanged.

Example:
  lagref format "2018:218 3:5"
  lagref format --style short "SFS 2018:218 3 kap. 5 §"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			styleStr, _ := cmd.Flags().GetString("style")
			style, err := citation.ParseStyle(styleStr)
			if err != nil {
				return err
			}
			for _, raw := range args {
				fmt.Println(citation.Format(citation.Parse(raw), style))
			}
			return nil
		},
	}
	cmd.Flags().StringP("style", "s", "full", "Citation style (full, short, pinpoint)")
	return cmd
}

func validateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <citation>...",
		Short: "Check citations against the corpus",
		Long: `Parse citations and check that the cited document and provision exist.
Repealed documents and missing provisions are reported as warnings.

Without a configured database the corpus is empty unless --manifest seeds it.

Example:
  lagref validate "SFS 2018:218 3 kap. 5 §"
  lagref validate --manifest corpus.yaml "SFS 1998:204 10 §" --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatStr, _ := cmd.Flags().GetString("format")
			manifest, _ := cmd.Flags().GetString("manifest")
			strict, _ := cmd.Flags().GetBool("strict")
			ctx := cmd.Context()

			s, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			lookup, opts := a.lookups(s)
			if err := a.seed(ctx, s, manifest, opts...); err != nil {
				return err
			}

			validator := citation.NewValidator(lookup)
			results := make([]*citation.ValidationResult, 0, len(args))
			invalid := 0
			for _, raw := range args {
				res, err := validator.Validate(ctx, raw)
				if err != nil {
					return err
				}
				if !res.Valid {
					invalid++
				}
				results = append(results, res)
			}

			if formatStr == "json" {
				if err := printJSON(results); err != nil {
					return err
				}
			} else {
				for _, res := range results {
					printValidation(res)
				}
			}

			if strict && invalid > 0 {
				return fmt.Errorf("%d of %d citations are invalid", invalid, len(args))
			}
			return nil
		},
	}
	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
	cmd.Flags().String("manifest", "", "Ingest this manifest before validating")
	cmd.Flags().Bool("strict", false, "Exit non-zero if any citation is invalid")
	return cmd
}

func printValidation(res *citation.ValidationResult) {
	mark := "✓"
	if !res.Valid {
		mark = "✗"
	}
	fmt.Printf("%s %s\n", mark, res.Citation.Raw)
	if res.Citation.Valid {
		fmt.Printf("  canonical: %s\n", res.Formatted)
	}
	if title, ok := res.Title.Get(); ok {
		fmt.Printf("  title:     %s\n", title)
	}
	if status, ok := res.Status.Get(); ok {
		fmt.Printf("  status:    %s\n", status)
	}
	for _, w := range res.Warnings {
		fmt.Printf("  warning:   %s\n", w)
	}
	fmt.Println()
}

func statutesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "statutes",
		Short: "List well-known statutes and court reporters",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatStr, _ := cmd.Flags().GetString("format")
			if formatStr == "json" {
				return printJSON(citation.KnownStatutes())
			}

			fmt.Println("Statutes:")
			for _, s := range citation.KnownStatutes() {
				fmt.Printf("  %-10s %-16s %s\n", s.ID, s.ShortName, s.Title)
			}
			fmt.Println()
			fmt.Println("Court reporters:")
			for _, r := range citation.CourtReporters() {
				fmt.Printf("  %-4s %-30s e.g. %s 2020 %s 1\n", r.Code, r.Court, r.Code, r.DefaultMarker)
			}
			return nil
		},
	}
	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
	return cmd
}
