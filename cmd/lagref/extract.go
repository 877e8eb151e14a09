package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coolbeans/lagref/pkg/extract"
	"github.com/coolbeans/lagref/pkg/types"
)

func segmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segment",
		Short: "Split statute text into provisions",
		Long: `Split the text of a statute into provisions keyed by chapter and section.

Example:
  lagref segment --source dataskyddslagen.txt
  lagref segment --source dataskyddslagen.txt --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatStr, _ := cmd.Flags().GetString("format")
			text, err := readSource(cmd)
			if err != nil {
				return err
			}

			provisions := extract.SegmentProvisions(text)
			if formatStr == "json" {
				return printJSON(provisions)
			}

			kind := "flat"
			if extract.IsChaptered(text) {
				kind = "chaptered"
			}
			fmt.Printf("%d provisions (%s)\n\n", len(provisions), kind)
			for _, p := range provisions {
				heading := p.ProvisionRef
				if title, ok := p.Title.Get(); ok {
					heading += "  " + title
				}
				fmt.Println(heading)
				fmt.Printf("  %s\n\n", p.Content)
			}
			return nil
		},
	}
	cmd.Flags().String("source", "", "Statute text file (required)")
	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
	return cmd
}

func refsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refs",
		Short: "Extract SFS and provision cross references",
		Long: `Extract cross references from a statute. Each provision is scanned
separately; text that does not segment into provisions is scanned whole.

Example:
  lagref refs --source dataskyddslagen.txt --document 2018:218`,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatStr, _ := cmd.Flags().GetString("format")
			documentID, _ := cmd.Flags().GetString("document")
			text, err := readSource(cmd)
			if err != nil {
				return err
			}

			var refs []types.CrossReference
			provisions := extract.SegmentProvisions(text)
			if len(provisions) == 0 {
				refs = extract.ToCrossReferences(documentID, types.None[string](), extract.ExtractCrossReferences(text))
			}
			for _, p := range provisions {
				matches := extract.ExtractCrossReferences(p.Content)
				refs = append(refs, extract.ToCrossReferences(documentID, types.Some(p.ProvisionRef), matches)...)
			}

			if formatStr == "json" {
				return printJSON(refs)
			}
			fmt.Printf("%d cross references\n\n", len(refs))
			for _, r := range refs {
				target := r.TargetDocumentID
				if ref, ok := r.TargetProvisionRef.Get(); ok {
					target += " " + ref
				}
				fmt.Printf("  %-8s -> %s\n", r.SourceProvisionRef.OrElse("-"), target)
			}
			return nil
		},
	}
	cmd.Flags().String("source", "", "Statute text file (required)")
	cmd.Flags().String("document", "", "SFS number of the source statute (required)")
	_ = cmd.MarkFlagRequired("document")
	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
	return cmd
}

func eurefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eurefs",
		Short: "Extract references to EU directives and regulations",
		Long: `Extract EU directive and regulation references, including named acts
such as dataskyddsförordningen, with cited articles and how the text relates
to the act.

Example:
  lagref eurefs --source dataskyddslagen.txt --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatStr, _ := cmd.Flags().GetString("format")
			text, err := readSource(cmd)
			if err != nil {
				return err
			}

			refs := extract.ExtractEUReferences(text)
			if formatStr == "json" {
				return printJSON(refs)
			}
			fmt.Printf("%d EU references\n\n", len(refs))
			for _, r := range refs {
				fmt.Printf("  %-10s %-10s CELEX %s  %s", r.Type, r.ID, r.CELEX(), r.ReferenceType)
				if article, ok := r.Article.Get(); ok {
					fmt.Printf("  art. %s", article)
				}
				fmt.Printf("\n    %q\n", r.FullText)
			}
			return nil
		},
	}
	cmd.Flags().String("source", "", "Text file (required)")
	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
	return cmd
}
