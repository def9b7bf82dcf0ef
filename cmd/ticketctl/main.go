// ticketctl manages caller keypairs, issues the bearer tokens the ledger API
// expects and derives ledger addresses offline.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"

	"ticketescrow/config"
	"ticketescrow/entities"
	"ticketescrow/ledger"
	"ticketescrow/signer"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		printUsage(out)
		return errors.New("missing command")
	}

	switch args[0] {
	case "keygen":
		return keygen(args[1:], out)
	case "address":
		return address(args[1:], out)
	case "token":
		return issueToken(args[1:], out)
	case "derive":
		return derive(args[1:], out)
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		printUsage(out)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func keygen(args []string, out io.Writer) error {
	var path string
	var force bool

	flagSet := pflag.NewFlagSet("keygen", pflag.ContinueOnError)
	flagSet.StringVarP(&path, "out", "o", "keypair.json", "file to write the keypair to")
	flagSet.BoolVar(&force, "force", false, "overwrite an existing file")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	k, err := signer.Generate()
	if err != nil {
		return err
	}
	if err := k.SaveFile(path); err != nil {
		return err
	}

	fmt.Fprintln(out, k.Address())
	return nil
}

func address(args []string, out io.Writer) error {
	var path string

	flagSet := pflag.NewFlagSet("address", pflag.ContinueOnError)
	flagSet.StringVarP(&path, "keypair", "k", "keypair.json", "keypair file")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	k, err := signer.LoadFile(path)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, k.Address())
	return nil
}

func issueToken(args []string, out io.Writer) error {
	var path string
	var ttl time.Duration

	flagSet := pflag.NewFlagSet("token", pflag.ContinueOnError)
	flagSet.StringVarP(&path, "keypair", "k", "keypair.json", "keypair file")
	flagSet.DurationVar(&ttl, "ttl", signer.DefaultTokenTTL, "token lifetime")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	k, err := signer.LoadFile(path)
	if err != nil {
		return err
	}

	token, err := signer.IssueToken(k, ttl, time.Now())
	if err != nil {
		return err
	}

	fmt.Fprintln(out, token)
	return nil
}

func derive(args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New("derive needs one of: event, ticket, mint-authority")
	}

	var programID, organizer, event, owner, mint string
	var eventID uint64

	flagSet := pflag.NewFlagSet("derive "+args[0], pflag.ContinueOnError)
	flagSet.StringVar(&programID, "program", config.DefaultProgramID, "ledger program id")
	switch args[0] {
	case "event":
		flagSet.StringVar(&organizer, "organizer", "", "organizer address")
		flagSet.Uint64Var(&eventID, "event-id", 0, "organizer chosen event id")
	case "ticket":
		flagSet.StringVar(&event, "event", "", "event address")
		flagSet.StringVar(&owner, "owner", "", "ticket owner address")
	case "mint-authority":
		flagSet.StringVar(&mint, "mint", "", "mint address")
	default:
		return fmt.Errorf("unknown derivation %q", args[0])
	}
	if err := flagSet.Parse(args[1:]); err != nil {
		return err
	}

	program, err := entities.ParseAddress(programID)
	if err != nil {
		return fmt.Errorf("invalid --program: %w", err)
	}

	var addr entities.Address
	var bump uint8

	switch args[0] {
	case "event":
		o, err := entities.ParseAddress(organizer)
		if err != nil {
			return fmt.Errorf("invalid --organizer: %w", err)
		}
		addr, bump, err = ledger.FindEventAddress(program, o, eventID)
		if err != nil {
			return err
		}
	case "ticket":
		e, err := entities.ParseAddress(event)
		if err != nil {
			return fmt.Errorf("invalid --event: %w", err)
		}
		o, err := entities.ParseAddress(owner)
		if err != nil {
			return fmt.Errorf("invalid --owner: %w", err)
		}
		addr, bump, err = ledger.FindTicketAddress(program, e, o)
		if err != nil {
			return err
		}
	case "mint-authority":
		m, err := entities.ParseAddress(mint)
		if err != nil {
			return fmt.Errorf("invalid --mint: %w", err)
		}
		addr, bump, err = ledger.FindMintAuthorityAddress(program, m)
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "%s %d\n", addr, bump)
	return nil
}

func printUsage(out io.Writer) {
	fmt.Fprint(out, `Usage:
  ticketctl keygen [--out keypair.json] [--force]
  ticketctl address [--keypair keypair.json]
  ticketctl token [--keypair keypair.json] [--ttl 15m]
  ticketctl derive event --organizer ADDR --event-id N [--program ID]
  ticketctl derive ticket --event ADDR --owner ADDR [--program ID]
  ticketctl derive mint-authority --mint ADDR [--program ID]
`)
}
