// Command regadmin is a small operator tool for inspecting the registry
// store from the command line. It prints JSON to stdout.
//
// Usage:
//
//	regadmin records            list records, newest first
//	regadmin export             field-complete export, newest first
//	regadmin rateio             allocation projection, by name
//	regadmin drafts             draft summaries, most recently updated first
//	regadmin draft <id>         load one draft including its payload
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/lfcamara/fundef-registry/internal/app"
	"github.com/lfcamara/fundef-registry/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	args := positionalArgs(os.Args[1:])
	if len(args) == 0 {
		return fmt.Errorf("usage: regadmin records|export|rateio|drafts|draft <id>")
	}

	ctx := context.Background()
	cfg := config.LoadConfig()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	store := a.Storage()

	var out any
	switch args[0] {
	case "records":
		out, err = store.ListRecords(ctx, true)
	case "export":
		out, err = store.ExportRecords(ctx)
	case "rateio":
		out, err = store.RecordsForAllocation(ctx)
	case "drafts":
		out, err = store.ListDrafts(ctx)
	case "draft":
		if len(args) < 2 {
			return fmt.Errorf("usage: regadmin draft <id>")
		}
		var id int64
		id, err = strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid draft id %q", args[1])
		}
		out, err = store.LoadDraft(ctx, id)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// positionalArgs drops flags and their values, leaving the subcommand and
// its arguments. Flags are handled by the config layer.
func positionalArgs(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if len(arg) > 0 && arg[0] == '-' {
			// boolean -f takes no value; the others consume one
			if arg != "-f" && i+1 < len(args) && len(args[i+1]) > 0 && args[i+1][0] != '-' {
				i++
			}
			continue
		}
		out = append(out, arg)
	}
	return out
}
