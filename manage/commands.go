package manage

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

// Version is reported by the version command.
const Version = "1.0.0"

// CLI dispatches the inkwell commands. In and Out default to the process
// streams and are swapped out in tests.
type CLI struct {
	In  io.Reader
	Out io.Writer

	in *bufio.Reader
}

// New returns a CLI bound to stdin and stdout.
func New() *CLI {
	return &CLI{In: os.Stdin, Out: os.Stdout}
}

// HandleCommand runs the command named by args[0] and returns the process
// exit code.
func (c *CLI) HandleCommand(args []string) int {
	if len(args) < 1 {
		c.printHelp()
		return 1
	}

	var err error
	cmd := strings.ToLower(args[0])
	switch cmd {
	case "help":
		c.printHelp()
		return 0
	case "version":
		fmt.Fprintf(c.Out, "inkwell version %s\n", Version)
		return 0
	case "serve":
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		err = c.serve(ctx)
	case "seed":
		err = c.seed(context.Background())
	case "migrate":
		err = c.migrate(context.Background())
	case "db":
		return c.handleDB(args[1:])
	default:
		fmt.Fprintf(c.Out, "Unknown command: %s\n\n", args[0])
		c.printHelp()
		return 1
	}

	if err != nil {
		fmt.Fprintf(c.Out, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (c *CLI) handleDB(args []string) int {
	if len(args) < 1 {
		c.printDBHelp()
		return 1
	}

	var err error
	switch args[0] {
	case "init":
		err = c.initDB()
	case "clean":
		err = c.cleanDB()
	case "backup":
		_, err = c.backupDB()
	case "restore":
		if len(args) < 2 {
			fmt.Fprintln(c.Out, "Error: backup file path required for restore")
			return 1
		}
		err = c.restoreDB(args[1])
	case "help":
		c.printDBHelp()
		return 0
	default:
		fmt.Fprintf(c.Out, "Unknown db command: %s\n\n", args[0])
		c.printDBHelp()
		return 1
	}

	if err != nil {
		fmt.Fprintf(c.Out, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (c *CLI) printHelp() {
	helpText := `Usage: inkwell <command> [options]

Commands:
  help                 Display this help message.
  version              Show version information.
  serve                Run the blog API server.
  seed                 Create the default roles and the bootstrap admin.
  migrate              Create storage indexes (MongoDB only).
  db <command>         Maintain the embedded Badger database (see "inkwell db help").
`
	fmt.Fprintln(c.Out, helpText)
}

func (c *CLI) printDBHelp() {
	helpText := `Usage: inkwell db <command> [options]

Commands:
  init                 Initialize a new empty database
  clean                Remove the database
  backup               Create a backup of the database
  restore <file>       Restore the database from a backup
  help                 Display this help message
`
	fmt.Fprintln(c.Out, helpText)
}

// confirm asks a y/N question and reports whether the answer was yes.
func (c *CLI) confirm(question string) bool {
	if c.in == nil {
		c.in = bufio.NewReader(c.In)
	}
	fmt.Fprintf(c.Out, "%s [y/N] ", question)
	line, _ := c.in.ReadString('\n')
	response := strings.TrimSpace(line)
	return response == "y" || response == "Y"
}
