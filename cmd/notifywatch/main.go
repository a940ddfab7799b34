// notifywatch is a terminal view of the admin notification feed. It polls
// unread notifications and, when the websocket is reachable, prints pushed
// ones as they arrive.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"dentalclinic/internal/config"
	"dentalclinic/internal/notifyclient"
	"dentalclinic/internal/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadWatch()
	if err != nil {
		log.Fatal(err)
	}
	lg, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := notifyclient.New(cfg.APIBaseURL,
		notifyclient.WithToken(cfg.APIToken),
		notifyclient.WithReadTimeout(cfg.ReadTimeout),
		notifyclient.WithWriteTimeout(cfg.WriteTimeout),
		notifyclient.WithLogger(lg.Named("client")),
	)
	inbox := notifyclient.NewInbox(client,
		notifyclient.WithInboxLogger(lg.Named("inbox")),
		notifyclient.WithErrorReporter(func(err error) {
			fmt.Fprintf(os.Stderr, "! %v\n", err)
		}),
	)

	show := func(list []notifyclient.Notification) {
		before := inbox.UnreadCount()
		inbox.Merge(list)
		if inbox.UnreadCount() != before {
			render(inbox)
		}
	}

	poller := notifyclient.NewPoller(client, show,
		notifyclient.WithInterval(cfg.PollInterval),
		notifyclient.WithInitialDelay(cfg.PollInitialDelay),
		notifyclient.WithLimit(cfg.PollLimit),
		notifyclient.WithPollerLogger(lg.Named("poller")),
	)
	stopPolling := poller.Start(ctx)
	defer stopPolling()

	if cfg.APIToken != "" {
		go func() {
			err := client.SubscribeWithRetry(ctx, func(n notifyclient.Notification) {
				show([]notifyclient.Notification{n})
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				lg.Warn("push disabled, polling only", zap.Error(err))
			}
		}()
	}

	fmt.Println("commands: r <id> (mark read), o <id> (open), a (mark all read), l (list), q (quit)")
	commands(ctx, inbox)
}

func commands(ctx context.Context, inbox *notifyclient.Inbox) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	for {
		var line string
		select {
		case <-ctx.Done():
			return
		case l, ok := <-lines:
			if !ok {
				<-ctx.Done()
				return
			}
			line = l
		}

		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		switch cmd {
		case "q":
			return
		case "l":
			render(inbox)
		case "a":
			if inbox.MarkAllAsRead(ctx) == nil {
				render(inbox)
			}
		case "r":
			if inbox.MarkAsRead(ctx, arg) == nil {
				render(inbox)
			}
		case "o":
			link, err := inbox.Open(ctx, arg)
			if errors.Is(err, notifyclient.ErrUnknownNotification) {
				fmt.Println("unknown id")
				continue
			}
			if link == "" {
				fmt.Println("no related page")
				continue
			}
			fmt.Println("->", link)
		}
	}
}

func render(inbox *notifyclient.Inbox) {
	fmt.Printf("\n%d unread\n", inbox.UnreadCount())
	for _, n := range inbox.Recent(10) {
		mark := " "
		if !n.IsRead {
			mark = "*"
		}
		fmt.Printf("%s %-26s %-7s %s: %s\n", mark, n.ID, n.Type, n.Title, n.Message)
	}
}
