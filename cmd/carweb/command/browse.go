// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/momeni/carweb/pkg/adapter/restful/client"
	"github.com/momeni/carweb/pkg/core/model"
	"github.com/momeni/carweb/pkg/core/usecase/browseuc"
	"github.com/spf13/cobra"
)

// EnvToken names the environment variable which may hold the session
// token of the browse command.
const EnvToken = "CARWEB_TOKEN"

var (
	serverURL string
	token     string
	query     string
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the cars of a running carweb server",
	Long: `Browse the cars of a running carweb server from the terminal.
Each line of the standard input is a command:

	type SUV on     select a car type (the listing is refreshed after
	                the filter debounce delay of the server)
	type SUV off    deselect a car type
	save CAR-ID     toggle the bookmark of a car (needs --token)
	query           print the current query string
	quit            exit

The session token may be given by --token or the CARWEB_TOKEN
environment variable. It is the value of the carweb_session cookie.`,
	RunE: browse,
	Args: cobra.NoArgs,
}

func browse(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if token == "" {
		token = os.Getenv(EnvToken)
	}
	out := cmd.OutOrStdout()
	var outMu sync.Mutex
	cl := client.New(serverURL, token, client.WithPageHandler(
		func(rawQuery string, cars []model.Car) {
			outMu.Lock()
			defer outMu.Unlock()
			printPage(out, rawQuery, cars)
		},
	))
	s, err := cl.Settings(ctx)
	if err != nil {
		return fmt.Errorf("fetching settings: %w", err)
	}
	me, err := cl.Me(ctx)
	if err != nil {
		return fmt.Errorf("fetching session: %w", err)
	}
	var opts []browseuc.Option
	if d := s.Browse.FilterDebounce; d > 0 {
		opts = append(opts, browseuc.WithDebounce(d))
	}
	fc, err := browseuc.NewFilterController(ctx, cl, query, opts...)
	if err != nil {
		return fmt.Errorf("creating filter controller: %w", err)
	}
	defer fc.Close()
	if err = cl.Navigate(ctx, fc.Query()); err != nil {
		return fmt.Errorf("listing cars: %w", err)
	}
	b := &browser{
		ctx: ctx, client: cl, filter: fc, signedIn: me != nil,
		bookmarks: make(map[uuid.UUID]*browseuc.Bookmark),
	}
	sc := bufio.NewScanner(cmd.InOrStdin())
	for sc.Scan() {
		msg, quit := b.exec(strings.Fields(sc.Text()))
		if msg != "" {
			outMu.Lock()
			fmt.Fprintln(out, msg)
			outMu.Unlock()
		}
		if quit {
			return nil
		}
	}
	return sc.Err()
}

type browser struct {
	ctx       context.Context
	client    *client.Client
	filter    *browseuc.FilterController
	signedIn  bool
	bookmarks map[uuid.UUID]*browseuc.Bookmark
}

// exec runs one command line and returns its message and whether
// the browsing should be stopped.
func (b *browser) exec(args []string) (string, bool) {
	switch {
	case len(args) == 0:
		return "", false
	case args[0] == "quit":
		return "", true
	case args[0] == "query":
		return "?" + b.filter.Query(), false
	case args[0] == "type" && len(args) == 3:
		if err := b.filter.Toggle(args[1], args[2] == "on"); err != nil {
			return "error: " + err.Error(), false
		}
		return "types: " + b.filter.Types().String(), false
	case args[0] == "save" && len(args) == 2:
		return b.toggleBookmark(args[1]), false
	}
	return "unknown command: " + strings.Join(args, " "), false
}

func (b *browser) toggleBookmark(rawID string) string {
	carID, err := uuid.Parse(rawID)
	if err != nil {
		return "error: invalid car id"
	}
	bm, ok := b.bookmarks[carID]
	if !ok {
		saved := false
		if b.signedIn {
			if saved, err = b.client.SavedByMe(b.ctx, carID); err != nil {
				return "error: " + err.Error()
			}
		}
		bm = browseuc.NewBookmark(b.client, carID, saved, b.signedIn)
		b.bookmarks[carID] = bm
	}
	done, err := bm.Toggle(b.ctx)
	if err != nil {
		return "error: " + err.Error()
	}
	predicted := bm.Saved()
	if err = <-done; err != nil {
		return fmt.Sprintf("error: %v (saved=%t)", err, bm.Saved())
	}
	return fmt.Sprintf("saved=%t", predicted)
}

func printPage(w io.Writer, rawQuery string, cars []model.Car) {
	fmt.Fprintf(w, "--- /?%s (%d cars)\n", rawQuery, len(cars))
	for _, c := range cars {
		fmt.Fprintf(
			w, "%s  %-10s %s %s (%d) $%.0f\n",
			c.ID, c.Type, c.Brand, c.Name, c.Year, c.Price,
		)
	}
}

func init() {
	flags := browseCmd.Flags()
	flags.StringVar(
		&serverURL, "server", "http://localhost:8080", "carweb server URL",
	)
	flags.StringVar(&token, "token", "", "session token")
	flags.StringVar(&query, "query", "", "initial query string")
	rootCmd.AddCommand(browseCmd)
}
