package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"

	"ringscrape/internal/client"
	"ringscrape/internal/domain"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:7946", "address of a ring node's gRPC endpoint")
	timeout := flag.Duration("timeout", 5*time.Second, "request timeout")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	pool := client.New(*timeout, *timeout, 0)
	defer func() { _ = pool.Close() }()

	current := *addr
	fmt.Printf("ringscrape operator shell. Connected to %s\n", current)
	fmt.Println("Available commands: ping/succ/pred/lookup/notify/use/exit")

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		input, err := line.Prompt(fmt.Sprintf("ring[%s]> ", current))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				fmt.Println("aborted")
				continue
			}
			break
		}
		line.AppendHistory(input)

		args := strings.Fields(strings.TrimSpace(input))
		if len(args) == 0 {
			continue
		}
		cmd := args[0]
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)

		switch cmd {
		case "ping":
			alive := pool.Ping(ctx, current)
			fmt.Printf("ping %s: alive=%v\n", current, alive)

		case "succ":
			n, err := pool.GetSuccessor(ctx, current)
			printNode("successor", n, err)

		case "pred":
			n, err := pool.GetPredecessor(ctx, current)
			printNode("predecessor", n, err)

		case "lookup":
			if len(args) < 2 {
				fmt.Println("usage: lookup <key-or-hex-id>")
				break
			}
			id, err := parseID(args[1])
			if err != nil {
				fmt.Printf("invalid id: %v\n", err)
				break
			}
			n, err := pool.FindSuccessor(ctx, current, id)
			if err != nil {
				fmt.Printf("lookup failed: %v\n", err)
			} else {
				fmt.Printf("owner: id=%s addr=%s\n", n.ID, n.Addr)
			}

		case "notify":
			if len(args) < 3 {
				fmt.Println("usage: notify <candidate-id-hex> <candidate-addr>")
				break
			}
			id, err := domain.FromHex(args[1])
			if err != nil {
				fmt.Printf("invalid id: %v\n", err)
				break
			}
			if err := pool.Notify(ctx, current, domain.Node{ID: id, Addr: args[2]}); err != nil {
				fmt.Printf("notify failed: %v\n", err)
			} else {
				fmt.Println("notify sent")
			}

		case "use":
			if len(args) < 2 {
				fmt.Println("usage: use <addr>")
				break
			}
			current = args[1]

		case "exit", "quit":
			cancel()
			return

		default:
			fmt.Printf("unknown command: %s\n", cmd)
		}

		cancel()
	}
}

func printNode(label string, n *domain.Node, err error) {
	if err != nil {
		fmt.Printf("%s lookup failed: %v\n", label, err)
		return
	}
	if n == nil {
		fmt.Printf("%s: none\n", label)
		return
	}
	fmt.Printf("%s: id=%s addr=%s\n", label, n.ID, n.Addr)
}

// parseID accepts either a raw hex identifier or a string to hash, so an
// operator can type a URL or username directly.
func parseID(s string) (domain.ID, error) {
	if len(s) == 8 {
		if _, err := strconv.ParseUint(s, 16, 32); err == nil {
			return domain.FromHex(s)
		}
	}
	return domain.Hash(s), nil
}
