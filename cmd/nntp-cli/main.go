// nntp-cli is a thin interactive shell over the nntp client library.
//
// Usage:
//
//	nntp-cli news.example.org --port 563 --ssl --user alice
//
// Commands at the prompt map one-to-one onto the library's typed command
// surface: group, listgroup, article, head, body, stat, next, last, date,
// capabilities, list, over, post, quit.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"
	"github.com/sntran/nntp"
)

var cli struct {
	Host     string        `arg:"" help:"News server hostname."`
	Port     int           `help:"Server port. Defaults to 119, or 563 with --ssl." default:"0"`
	SSL      bool          `help:"Connect over TLS."`
	User     string        `help:"AUTHINFO username."`
	Pass     string        `help:"AUTHINFO password." env:"NNTP_PASS"`
	Timeout  time.Duration `help:"Per-command timeout." default:"30s"`
	LogLevel string        `help:"Log verbosity." enum:"debug,info,warn,error" default:"info"`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("nntp-cli"),
		kong.Description("Interactive NNTP client."),
	)
	kctx.FatalIfErrorf(run())
}

func run() error {
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      logLevel(cli.LogLevel),
		TimeFormat: "15:04:05",
	}))

	ctx := context.Background()
	client, err := nntp.Dial(ctx, nntp.ConnectOptions{
		Hostname: cli.Host,
		Port:     cli.Port,
		TLS:      cli.SSL,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	fmt.Printf("%d %s\n", client.Greeting().Status, client.Greeting().StatusText)

	if cli.User != "" {
		resp, err := command(client.Authinfo, cli.User, cli.Pass)
		if err != nil {
			return err
		}
		fmt.Printf("%d %s\n", resp.Status, resp.StatusText)
		if !client.Authenticated() {
			return fmt.Errorf("authentication failed")
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		name, args := strings.ToLower(parts[0]), parts[1:]
		if name == "quit" {
			resp, err := client.Quit(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("%d %s\n", resp.Status, resp.StatusText)
			return nil
		}
		if err := dispatch(client, name, args); err != nil {
			if nntp.ShouldCloseConnection(err) {
				return err
			}
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}

// command runs one client call under the configured timeout.
func command(fn func(context.Context, string, string) (*nntp.Response, error), a, b string) (*nntp.Response, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cli.Timeout)
	defer cancel()
	return fn(ctx, a, b)
}

func dispatch(client *nntp.Client, name string, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), cli.Timeout)
	defer cancel()

	switch name {
	case "group":
		if len(args) != 1 {
			return fmt.Errorf("usage: group <name>")
		}
		resp, err := client.Group(ctx, args[0])
		if err != nil {
			return err
		}
		printStatus(resp)
		if g, err := nntp.ParseGroup(resp); err == nil {
			fmt.Printf("%s: %d articles (%d-%d)\n", g.Name, g.Count, g.Low, g.High)
		}
		return nil

	case "listgroup":
		var group string
		if len(args) > 0 {
			group = args[0]
		}
		return show(client.ListGroup(ctx, group, nntp.Range{}))

	case "article":
		return show(client.Article(ctx, refArgs(args)...))
	case "head":
		return show(client.Head(ctx, refArgs(args)...))
	case "body":
		return show(client.Body(ctx, refArgs(args)...))
	case "stat":
		return show(client.Stat(ctx, refArgs(args)...))
	case "next":
		return show(client.Next(ctx))
	case "last":
		return show(client.Last(ctx))
	case "date":
		return show(client.Date(ctx))
	case "help":
		return show(client.Help(ctx))
	case "capabilities":
		return show(client.Capabilities(ctx))

	case "list":
		var keyword, wildmat string
		if len(args) > 0 {
			keyword = args[0]
		}
		if len(args) > 1 {
			wildmat = args[1]
		}
		return show(client.List(ctx, keyword, wildmat))

	case "over":
		return show(client.Over(ctx, refArgs(args)...))

	case "post":
		return post(ctx, client)

	default:
		return fmt.Errorf("unknown command %q", name)
	}
}

// post reads an article from stdin, terminated by a lone "." line, and
// submits it. Dot-stuffing is the library's job; lines are passed raw.
func post(ctx context.Context, client *nntp.Client) error {
	fmt.Println("enter article, end with a lone '.' line:")
	var sb strings.Builder
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "." {
			break
		}
		sb.WriteString(line)
		sb.WriteString("\r\n")
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	return show(client.Post(ctx, &nntp.Article{Body: strings.NewReader(sb.String())}))
}

// show prints a response's status line and streams its body, if any, to
// stdout.
func show(resp *nntp.Response, err error) error {
	if err != nil {
		return err
	}
	printStatus(resp)
	if resp.Body != nil {
		if _, err := io.Copy(os.Stdout, resp.Body); err != nil {
			return err
		}
	}
	return nil
}

func printStatus(resp *nntp.Response) {
	fmt.Printf("%d %s\n", resp.Status, resp.StatusText)
	for _, h := range resp.Headers {
		fmt.Printf("%s: %s\n", h.Name, h.Value)
	}
}

// refArgs converts CLI tokens into article references: numbers stay
// numeric, "low-high" and "low-" become Ranges, anything else is a
// message-ID.
func refArgs(args []string) []any {
	refs := make([]any, 0, len(args))
	for _, arg := range args {
		if n, err := strconv.ParseInt(arg, 10, 64); err == nil {
			refs = append(refs, n)
			continue
		}
		if low, high, ok := strings.Cut(arg, "-"); ok {
			l, errL := strconv.ParseInt(low, 10, 64)
			h, errH := strconv.ParseInt(high, 10, 64)
			if errL == nil && high == "" {
				refs = append(refs, nntp.Range{Low: l})
				continue
			}
			if errL == nil && errH == nil {
				refs = append(refs, nntp.Range{Low: l, High: h})
				continue
			}
		}
		refs = append(refs, nntp.MessageID(arg))
	}
	return refs
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
