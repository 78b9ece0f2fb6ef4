package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func testTree(ran *[]string, count *int) *Command {
	return &Command{
		Name: "tool",
		Subcommands: []*Command{
			{
				Name:    "keys",
				Summary: "Manage keys",
				Subcommands: []*Command{
					{
						Name:    "list",
						Summary: "List keys",
						Flags: func() *pflag.FlagSet {
							fs := pflag.NewFlagSet("list", pflag.ContinueOnError)
							fs.IntVar(count, "page", 1, "page number")
							return fs
						},
						Run: func(ctx context.Context, args []string) error {
							*ran = append(*ran, args...)
							return nil
						},
					},
				},
			},
		},
	}
}

func TestCommand_Execute(t *testing.T) {
	t.Run("dispatches to the leaf and parses flags", func(t *testing.T) {
		var ran []string
		page := 0
		root := testTree(&ran, &page)

		var help bytes.Buffer
		if err := root.Execute(context.Background(), []string{"keys", "list", "--page", "3", "extra"}, &help); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if page != 3 {
			t.Errorf("Expected page 3, got %d", page)
		}
		if len(ran) != 1 || ran[0] != "extra" {
			t.Errorf("Expected positional arg extra, got %v", ran)
		}
	})

	t.Run("unknown subcommand names the parent", func(t *testing.T) {
		var ran []string
		page := 0
		root := testTree(&ran, &page)

		err := root.Execute(context.Background(), []string{"keys", "purge"}, &bytes.Buffer{})
		if err == nil {
			t.Fatal("Expected error, got nil")
		}
		if !strings.Contains(err.Error(), `unknown command "purge"`) || !strings.Contains(err.Error(), "tool keys --help") {
			t.Errorf("Expected unknown command error, got %q", err)
		}
	})

	t.Run("group without subcommand prints help", func(t *testing.T) {
		var ran []string
		page := 0
		root := testTree(&ran, &page)

		var help bytes.Buffer
		err := root.Execute(context.Background(), []string{"keys"}, &help)
		if err == nil {
			t.Fatal("Expected subcommand required error, got nil")
		}
		if !strings.Contains(help.String(), "list") || !strings.Contains(help.String(), "List keys") {
			t.Errorf("Expected command listing, got %q", help.String())
		}
	})

	t.Run("bad flag value", func(t *testing.T) {
		var ran []string
		page := 0
		root := testTree(&ran, &page)

		err := root.Execute(context.Background(), []string{"keys", "list", "--page", "two"}, &bytes.Buffer{})
		if err == nil {
			t.Fatal("Expected flag error, got nil")
		}
		if len(ran) != 0 {
			t.Errorf("Expected command not to run, got %v", ran)
		}
	})

	t.Run("help flag on leaf", func(t *testing.T) {
		var ran []string
		page := 0
		root := testTree(&ran, &page)

		var help bytes.Buffer
		if err := root.Execute(context.Background(), []string{"keys", "list", "--help"}, &help); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		out := help.String()
		if !strings.Contains(out, "tool keys list [flags]") || !strings.Contains(out, "--page") {
			t.Errorf("Expected usage with flags, got %q", out)
		}
	})
}
