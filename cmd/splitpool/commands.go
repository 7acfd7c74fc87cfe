package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mmynk/splitpool/internal/auth"
	"github.com/mmynk/splitpool/internal/config"
	"github.com/mmynk/splitpool/internal/currency"
	"github.com/mmynk/splitpool/internal/ledger"
	"github.com/mmynk/splitpool/internal/report"
	"github.com/mmynk/splitpool/internal/stamp"
	"github.com/mmynk/splitpool/internal/storage/jsonfile"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parse parses flags and returns the positional arguments, requiring at
// least min of them.
func parse(fs *flag.FlagSet, args []string, min int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%s: %w", fs.Name(), err)
	}
	if fs.NArg() < min {
		return nil, fmt.Errorf("%w: %s needs a file", errUsage, fs.Name())
	}
	return fs.Args(), nil
}

func load(path string) (*ledger.Group, error) {
	doc, err := jsonfile.ReadFile(path)
	if err != nil {
		return nil, err
	}
	g, err := ledger.FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return g, nil
}

// edit loads the group at path, applies fn and writes the group back.
func edit(path string, fn func(*ledger.Group) error) error {
	g, err := load(path)
	if err != nil {
		return err
	}
	if err := fn(g); err != nil {
		return err
	}
	return jsonfile.WriteFile(path, g.Document())
}

func runNew(args []string, stdout io.Writer) error {
	fs := newFlagSet("new")
	name := fs.String("name", "", "group name")
	description := fs.String("description", "", "group description")
	code := fs.String("currency", string(currency.EUR), "base currency")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	if strings.TrimSpace(*name) == "" {
		return fmt.Errorf("%w: new needs -name", errUsage)
	}
	base, err := currency.Parse(*code)
	if err != nil {
		return err
	}

	path := rest[0]
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	g := ledger.New(*name, *description, base)
	if err := jsonfile.WriteFile(path, g.Document()); err != nil {
		return err
	}
	fmt.Fprintln(stdout, g)
	return nil
}

func runShow(args []string, stdout io.Writer) error {
	rest, err := parse(newFlagSet("show"), args, 1)
	if err != nil {
		return err
	}
	g, err := load(rest[0])
	if err != nil {
		return err
	}
	return report.Write(stdout, g)
}

func runMember(args []string, stdout io.Writer) error {
	rest, err := parse(newFlagSet("member"), args, 2)
	if err != nil {
		return err
	}
	return edit(rest[0], func(g *ledger.Group) error {
		for _, name := range rest[1:] {
			m, err := g.AddMember(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "added %s\n", m.Name())
		}
		return nil
	})
}

// entryFlags are shared by purchase and transfer.
type entryFlags struct {
	title       *string
	description *string
	amount      *string
	code        *string
	date        *string
}

func addEntryFlags(fs *flag.FlagSet) entryFlags {
	return entryFlags{
		title:       fs.String("title", "", "entry title"),
		description: fs.String("description", "", "entry description"),
		amount:      fs.String("amount", "", "amount, e.g. 12.50"),
		code:        fs.String("currency", "", "currency, defaults to the group's"),
		date:        fs.String("date", "", "date, defaults to now"),
	}
}

func (f entryFlags) options() (float64, []ledger.EntryOption, error) {
	if *f.amount == "" {
		return 0, nil, fmt.Errorf("%w: -amount is required", errUsage)
	}
	amount, err := currency.ParseAmount(*f.amount)
	if err != nil {
		return 0, nil, err
	}

	var opts []ledger.EntryOption
	if *f.code != "" {
		c, err := currency.Parse(*f.code)
		if err != nil {
			return 0, nil, err
		}
		opts = append(opts, ledger.WithCurrency(c))
	}
	if *f.description != "" {
		opts = append(opts, ledger.WithDescription(*f.description))
	}
	if *f.date != "" {
		t, err := stamp.Parse(*f.date)
		if err != nil {
			return 0, nil, err
		}
		opts = append(opts, ledger.WithDate(t))
	}
	return amount, opts, nil
}

func splitNames(s string) []string {
	var names []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

func runPurchase(args []string, stdout io.Writer) error {
	fs := newFlagSet("purchase")
	payer := fs.String("payer", "", "member who paid")
	to := fs.String("to", "", "comma separated recipients")
	ef := addEntryFlags(fs)
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	amount, opts, err := ef.options()
	if err != nil {
		return err
	}

	return edit(rest[0], func(g *ledger.Group) error {
		e, err := g.AddPurchase(*ef.title, *payer, splitNames(*to), amount, opts...)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s [%s]\n", e, e.ID())
		return nil
	})
}

func runTransfer(args []string, stdout io.Writer) error {
	fs := newFlagSet("transfer")
	from := fs.String("from", "", "member who paid")
	to := fs.String("to", "", "member who received")
	ef := addEntryFlags(fs)
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	amount, opts, err := ef.options()
	if err != nil {
		return err
	}

	return edit(rest[0], func(g *ledger.Group) error {
		e, err := g.AddTransfer(*ef.title, *from, *to, amount, opts...)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s [%s]\n", e, e.ID())
		return nil
	})
}

func runRemove(args []string, stdout io.Writer) error {
	fs := newFlagSet("remove")
	id := fs.String("id", "", "entry id")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("%w: remove needs -id", errUsage)
	}

	return edit(rest[0], func(g *ledger.Group) error {
		if err := g.RemoveEntry(*id); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "removed %s\n", *id)
		return nil
	})
}

func runRate(args []string, stdout io.Writer) error {
	fs := newFlagSet("rate")
	code := fs.String("currency", "", "currency to set the rate for")
	rate := fs.String("rate", "", "units of the currency per base unit")
	remove := fs.Bool("remove", false, "remove the rate instead")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	c, err := currency.Parse(*code)
	if err != nil {
		return err
	}
	if !*remove && *rate == "" {
		return fmt.Errorf("%w: rate needs -rate or -remove", errUsage)
	}

	return edit(rest[0], func(g *ledger.Group) error {
		if *remove {
			if err := g.RemoveExchangeRate(c); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "removed rate for %s\n", c)
			return nil
		}
		r, err := currency.ParseAmount(*rate)
		if err != nil {
			return err
		}
		if err := g.SetExchangeRate(c, r); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "1 %s = %v %s\n", g.Currency(), r, c)
		return nil
	})
}

func runSettle(args []string, stdout io.Writer) error {
	fs := newFlagSet("settle")
	apply := fs.Bool("apply", false, "record the pending balances as transfers")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	show := func(g *ledger.Group) error {
		pending, err := g.Balances()
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			fmt.Fprintln(stdout, "settled")
			return nil
		}
		for _, p := range pending {
			if *apply {
				if _, err := g.SettleUp(p); err != nil {
					return err
				}
			}
			fmt.Fprintln(stdout, p)
		}
		return nil
	}

	if !*apply {
		g, err := load(rest[0])
		if err != nil {
			return err
		}
		return show(g)
	}
	return edit(rest[0], show)
}

func runToken(args []string, stdout io.Writer) error {
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}

	fs := newFlagSet("token")
	subject := fs.String("subject", "", "token subject")
	groups := fs.String("groups", "", "comma separated group IDs the token is limited to")
	secret := fs.String("secret", cfg.AuthSecret, "signing secret, defaults to AUTH_SECRET")
	duration := fs.Duration("duration", cfg.TokenDuration, "token lifetime")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	if *secret == "" {
		return errors.New("token needs -secret or AUTH_SECRET")
	}
	if *duration <= 0 {
		*duration = 24 * time.Hour
	}

	token, err := auth.NewJWTManager(*secret, *duration).Generate(*subject, splitNames(*groups)...)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, token)
	return nil
}
