package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

const helpText = `Account:   signup <email> <password> <name>, login <email> <password>, logout, me,
           profile key=value... (name phone street city state zip country)
Wishlist:  wishlist, wish <id>, unwish <id>, move <id>
Cart:      cart, add <id> [price], qty <id> <n>, rm <id>, clear
News:      subscribe [email], unsubscribe
Other:     help, exit`

type command func(ctx context.Context, args []string) error

func (a *App) commands() map[string]command {
	return map[string]command{
		"signup":      a.Signup,
		"login":       a.Login,
		"logout":      a.Logout,
		"me":          a.Me,
		"profile":     a.Profile,
		"wishlist":    a.ShowWishlist,
		"wish":        a.Wish,
		"unwish":      a.Unwish,
		"move":        a.Move,
		"cart":        a.ShowCart,
		"add":         a.AddToCart,
		"qty":         a.Quantity,
		"rm":          a.RemoveFromCart,
		"clear":       a.ClearCart,
		"subscribe":   a.Subscribe,
		"unsubscribe": a.Unsubscribe,
	}
}

// Run reads commands from in until EOF, "exit" or "quit", or ctx is done.
func (a *App) Run(ctx context.Context, in io.Reader) {
	runREPL(ctx, a, bufio.NewScanner(in))
}

// runREPL reads a line, treats the first field as the command and the rest as
// its arguments. Command errors are reported and the loop carries on.
func runREPL(ctx context.Context, a *App, scanner *bufio.Scanner) {
	cmds := a.commands()
	for {
		if ctx.Err() != nil {
			return
		}
		_, _ = fmt.Fprintf(a.out, "storefront [%s]> ", a.status())
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			a.printf("%s", helpText)
			continue
		case "exit", "quit":
			a.printf("Bye!")
			return
		}

		cmd, ok := cmds[name]
		if !ok {
			a.printf("Unknown command: %s (try help)", name)
			continue
		}
		err := cmd(ctx, args)
		noticed := a.flushNotices() > 0
		a.report(err, noticed)
	}
}
