package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fjod/go_cart/assistant-service/internal/assistant"
	"github.com/fjod/go_cart/assistant-service/internal/reply"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newChatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat [message...]",
		Short: "Send one message, or read messages line by line from stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					opts.logger.Warn("failed to release resources", zap.Error(err))
				}
			}()

			out := cmd.OutOrStdout()
			if len(args) > 0 {
				printReply(out, a.dispatcher.Handle(cmd.Context(), strings.Join(args, " ")))
				return nil
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				line := scanner.Text()
				if strings.TrimSpace(line) == "" {
					continue
				}
				r := a.dispatcher.Handle(cmd.Context(), line)
				printReply(out, r)
				if r.Text == reply.Exit {
					break
				}
			}
			return scanner.Err()
		},
	}
}

func printReply(w io.Writer, r assistant.Reply) {
	if !r.IsList() {
		fmt.Fprintln(w, r.Text)
		return
	}
	if len(r.Products) == 0 {
		fmt.Fprintln(w, "No products found.")
		return
	}
	for _, p := range r.Products {
		fmt.Fprintf(w, "%d. %s - %s (stock %d)\n", p.ID, p.Name, reply.Money(p.Price), p.Stock)
	}
}
