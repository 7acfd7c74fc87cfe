// Command splitpool edits a group ledger stored in a single JSON file.
//
//	splitpool new -name Trip [-currency EUR] trip.json
//	splitpool member trip.json Alice Bob
//	splitpool purchase -payer Alice -to Alice,Bob -amount 42.50 trip.json
//	splitpool show trip.json
//	splitpool settle -apply trip.json
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

var errUsage = errors.New("usage")

type command struct {
	usage string
	run   func(args []string, stdout io.Writer) error
}

var commands = map[string]command{
	"new":      {"new -name NAME [-description TEXT] [-currency CODE] FILE", runNew},
	"show":     {"show FILE", runShow},
	"member":   {"member FILE NAME...", runMember},
	"purchase": {"purchase -payer NAME -to NAME,... -amount N [-currency CODE] [-title T] [-description D] [-date DATE] FILE", runPurchase},
	"transfer": {"transfer -from NAME -to NAME -amount N [-currency CODE] [-title T] [-description D] [-date DATE] FILE", runTransfer},
	"remove":   {"remove -id ENTRY FILE", runRemove},
	"rate":     {"rate -currency CODE (-rate N | -remove) FILE", runRate},
	"settle":   {"settle [-apply] FILE", runSettle},
	"token":    {"token -subject NAME [-groups ID,...] [-secret S] [-duration D]", runToken},
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			printUsage(os.Stderr)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "splitpool: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
	return cmd.run(args[1:], stdout)
}

func printUsage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "usage: splitpool <command> [flags] [args]")
	fmt.Fprintln(w)
	for _, name := range names {
		fmt.Fprintf(w, "  splitpool %s\n", commands[name].usage)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Dates use 02.01.2006 15:04:05 or 02.01.2006.")
}
