package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/google/subcommands"
	"github.com/jelsonhosly/ledger"
	"github.com/jelsonhosly/ledger/renderer"
)

type categoriesCmd struct{}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "list categories" }
func (*categoriesCmd) Usage() string {
	return `lgr categories

  Lists the income and expense categories with their subcategories.
`
}

func (c *categoriesCmd) SetFlags(f *flag.FlagSet) {}

func (c *categoriesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return read(ctx, func(l *ledger.Ledger) error {
		printMarkdown(renderer.Categories(slices.Collect(l.Categories())))
		return nil
	})
}

// categoryFlags are the editable fields of a category.
type categoryFlags struct {
	name  string
	typ   string
	color string
	icon  string
}

func (c *categoryFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Category name.")
	f.StringVar(&c.typ, "type", string(ledger.ExpenseCategory), "Category type (income, expense).")
	f.StringVar(&c.color, "color", "", "Display color.")
	f.StringVar(&c.icon, "icon", "", "Display icon.")
}

func (c *categoryFlags) apply(cat *ledger.Category, set map[string]bool) error {
	var err error
	if set["name"] {
		cat.Name = c.name
	}
	if set["type"] {
		if cat.Type, err = ledger.ParseCategoryType(c.typ); err != nil {
			return err
		}
	}
	if set["color"] {
		cat.Color = c.color
	}
	if set["icon"] {
		cat.Icon = c.icon
	}
	return nil
}

type categoryAddCmd struct {
	categoryFlags
}

func (*categoryAddCmd) Name() string     { return "category-add" }
func (*categoryAddCmd) Synopsis() string { return "add a category" }
func (*categoryAddCmd) Usage() string {
	return `lgr category-add -name <name> [-type income|expense]

  Adds a category. Names are unique within a type.
`
}

func (c *categoryAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		fmt.Fprintln(os.Stderr, "Error: -name is required.")
		return subcommands.ExitUsageError
	}
	return edit(ctx, func(l *ledger.Ledger) error {
		var cat ledger.Category
		all := map[string]bool{"name": true, "type": true, "color": true, "icon": true}
		if err := c.apply(&cat, all); err != nil {
			return err
		}
		cat, err := l.AddCategory(cat)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s category %s (%s)\n", cat.Type, cat.Name, cat.ID)
		return nil
	})
}

type categoryEditCmd struct {
	categoryFlags
}

func (*categoryEditCmd) Name() string     { return "category-edit" }
func (*categoryEditCmd) Synopsis() string { return "edit a category" }
func (*categoryEditCmd) Usage() string {
	return `lgr category-edit [-name <name>] [-type income|expense] <category>

  Edits the fields given as flags. Transactions keep the category name they
  were recorded with.
`
}

func (c *categoryEditCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one category is required.")
		return subcommands.ExitUsageError
	}
	return edit(ctx, func(l *ledger.Ledger) error {
		cat, err := resolveCategory(l, f.Arg(0))
		if err != nil {
			return err
		}
		if err := c.apply(&cat, visited(f)); err != nil {
			return err
		}
		if cat, err = l.UpdateCategory(cat); err != nil {
			return err
		}
		fmt.Printf("Updated %s category %s\n", cat.Type, cat.Name)
		return nil
	})
}

type categoryRmCmd struct{}

func (*categoryRmCmd) Name() string     { return "category-rm" }
func (*categoryRmCmd) Synopsis() string { return "delete a category" }
func (*categoryRmCmd) Usage() string {
	return `lgr category-rm <category>

  Deletes a category and its subcategories. Transactions keep the category
  name they were recorded with.
`
}

func (c *categoryRmCmd) SetFlags(f *flag.FlagSet) {}

func (c *categoryRmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one category is required.")
		return subcommands.ExitUsageError
	}
	return edit(ctx, func(l *ledger.Ledger) error {
		cat, err := resolveCategory(l, f.Arg(0))
		if err != nil {
			return err
		}
		if err := l.DeleteCategory(cat.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted %s category %s\n", cat.Type, cat.Name)
		return nil
	})
}

type subcategoryAddCmd struct {
	category string
}

func (*subcategoryAddCmd) Name() string     { return "subcategory-add" }
func (*subcategoryAddCmd) Synopsis() string { return "add subcategories to a category" }
func (*subcategoryAddCmd) Usage() string {
	return `lgr subcategory-add -category <category> <name>...

  Adds one subcategory per name to the category.
`
}

func (c *subcategoryAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "category", "", "Parent category (required).")
}

func (c *subcategoryAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.category == "" || f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: -category and at least one name are required.")
		return subcommands.ExitUsageError
	}
	return edit(ctx, func(l *ledger.Ledger) error {
		cat, err := resolveCategory(l, c.category)
		if err != nil {
			return err
		}
		for _, name := range f.Args() {
			sub, err := l.AddSubcategory(cat.ID, ledger.Subcategory{Name: name})
			if err != nil {
				return err
			}
			fmt.Printf("Added subcategory %s / %s\n", cat.Name, sub.Name)
		}
		return nil
	})
}

type subcategoryRmCmd struct {
	category string
}

func (*subcategoryRmCmd) Name() string     { return "subcategory-rm" }
func (*subcategoryRmCmd) Synopsis() string { return "delete subcategories of a category" }
func (*subcategoryRmCmd) Usage() string {
	return `lgr subcategory-rm -category <category> <subcategory>...

  Deletes subcategories, by name or ID.
`
}

func (c *subcategoryRmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "category", "", "Parent category (required).")
}

func (c *subcategoryRmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.category == "" || f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: -category and at least one subcategory are required.")
		return subcommands.ExitUsageError
	}
	return edit(ctx, func(l *ledger.Ledger) error {
		for _, ref := range f.Args() {
			cat, err := resolveCategory(l, c.category)
			if err != nil {
				return err
			}
			sub, err := resolveSubcategory(cat, ref)
			if err != nil {
				return err
			}
			if err := l.DeleteSubcategory(cat.ID, sub.ID); err != nil {
				return err
			}
			fmt.Printf("Deleted subcategory %s / %s\n", cat.Name, sub.Name)
		}
		return nil
	})
}
