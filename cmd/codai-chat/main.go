// codai-chat is a terminal client for the CodaiPro gateway. It drives
// the same session state machine as the web chat, including the typing
// reveal and Ctrl+C cancellation of an in-flight reply.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/codaipro/gateway/pkg/chatclient"
)

func main() {
	gatewayURL := flag.String("gateway", "http://localhost:8080", "base URL of the chat gateway")
	flag.Parse()

	completer := chatclient.NewHTTPCompleter(*gatewayURL, nil)

	printer := &revealPrinter{}
	var session *chatclient.Session
	session = chatclient.New(completer, chatclient.WithOnChange(func() {
		printer.render(session.Transcript())
	}))

	// First Ctrl+C stops the current reply; a second one exits
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	go func() {
		for range interrupts {
			if session.State() == chatclient.StateIdle {
				fmt.Println()
				os.Exit(0)
			}
			session.Stop()
		}
	}()

	fmt.Printf("Connected to %s. Type a question, Ctrl+C to stop a reply.\n", *gatewayURL)

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("you> ")
	for scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			fmt.Print("you> ")
			continue
		}

		if err := session.Send(context.Background(), input); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			fmt.Print("you> ")
			continue
		}

		<-session.Done()
		fmt.Print("\nyou> ")
	}
}

// revealPrinter writes only the unprinted tail of the newest assistant
// entry, so the reveal appears as live typing.
type revealPrinter struct {
	mu      sync.Mutex
	entryID string
	printed int
}

func (p *revealPrinter) render(transcript []chatclient.Entry) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(transcript) == 0 {
		return
	}

	last := transcript[len(transcript)-1]
	if last.Role != chatclient.RoleAssistant {
		return
	}

	if last.ID != p.entryID {
		p.entryID = last.ID
		p.printed = 0
		fmt.Print("\ncodai> ")
	}

	if p.printed < len(last.Content) {
		fmt.Print(last.Content[p.printed:])
		p.printed = len(last.Content)
	}
}
