package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"Streamflix/internal/catalog"
	"Streamflix/internal/query"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load the dataset and report problems",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}

		r := store.Report()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "items: %d\ncategories: %d\n", r.Items, r.Categories)
		if r.Dangling() == 0 {
			fmt.Fprintln(out, "dangling ids: none")
			return nil
		}
		fmt.Fprintf(out, "dangling ids: %d\n", r.Dangling())
		for _, name := range store.Categories() {
			if n := r.DanglingIDs[name]; n > 0 {
				fmt.Fprintf(out, "  %s: %d\n", name, n)
			}
		}
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories and their sizes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}

		t := newTable("Category", "Items")
		for _, name := range store.Categories() {
			ids, _ := store.Category(name)
			t.Row(name, fmt.Sprintf("%d", len(ids)))
		}
		fmt.Fprintln(cmd.OutOrStdout(), t)
		return nil
	},
}

var (
	pageNum  int
	pageSize int
)

var pageCmd = &cobra.Command{
	Use:   "page <category>",
	Short: "Show one page of a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if pageNum < 1 || pageSize < 1 {
			return fmt.Errorf("--page and --size must be positive")
		}
		store, err := openStore(cmd)
		if err != nil {
			return err
		}

		p := store.Page(args[0], pageNum, pageSize)
		out := cmd.OutOrStdout()
		if len(p.Items) == 0 {
			fmt.Fprintln(out, "No items.")
			return nil
		}
		fmt.Fprintln(out, itemTable(p.Items))
		if p.Dropped > 0 {
			fmt.Fprintf(out, "%d unknown ids skipped\n", p.Dropped)
		}
		if p.HasMore {
			fmt.Fprintf(out, "more: --page %d\n", p.Page+1)
		}
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search titles, descriptions, genres, cast, directors and years",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}

		results := query.NewEngine(store, nil).Search(strings.Join(args, " "))
		if len(results) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No results found.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), itemTable(results))
		return nil
	},
}

func init() {
	pageCmd.Flags().IntVar(&pageNum, "page", 1, "page number, starting at 1")
	pageCmd.Flags().IntVar(&pageSize, "size", catalog.DefaultPageSize, "items per page")
}
