package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var errNotLoggedIn = errors.New("not logged in, use: login <email>")

type command struct {
	usage string
	// min is the number of required arguments.
	min  int
	auth bool
	run  func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"login":    {usage: "<email> [name]", min: 1, run: (*App).login},
	"logout":   {auth: true, run: (*App).logout},
	"ls":       {usage: "[folder-id|root]", auth: true, run: (*App).list},
	"tree":     {auth: true, run: (*App).tree},
	"cd":       {usage: "<folder-id|..|root>", min: 1, auth: true, run: (*App).changeDir},
	"pwd":      {auth: true, run: (*App).printDir},
	"put":      {usage: "<path>", min: 1, auth: true, run: (*App).put},
	"get":      {usage: "<id> [path]", min: 1, auth: true, run: (*App).get},
	"mkdir":    {usage: "<name>", min: 1, auth: true, run: (*App).mkdir},
	"link":     {usage: "<url>", min: 1, auth: true, run: (*App).link},
	"mv":       {usage: "<id> <folder-id|root>", min: 2, auth: true, run: (*App).move},
	"rename":   {usage: "<id> <name>", min: 2, auth: true, run: (*App).rename},
	"tag":      {usage: "<id> [tag...]", min: 1, auth: true, run: (*App).tag},
	"describe": {usage: "<id> <text>", min: 1, auth: true, run: (*App).describe},
	"trash":    {usage: "<id>", min: 1, auth: true, run: (*App).trash},
	"restore":  {usage: "<id>", min: 1, auth: true, run: (*App).restore},
	"purge":    {usage: "<id>", min: 1, auth: true, run: (*App).purge},
	"bin":      {auth: true, run: (*App).bin},
	"sweep":    {auth: true, run: (*App).sweep},
	"versions": {usage: "<id>", min: 1, auth: true, run: (*App).versions},
	"revert":   {usage: "<id> <version-id>", min: 2, auth: true, run: (*App).revert},
	"usage":    {auth: true, run: (*App).usage},
	"users":    {usage: "<query>", min: 1, auth: true, run: (*App).users},
	"msg":      {usage: "<email> <text>", min: 2, auth: true, run: (*App).message},
	"inbox":    {auth: true, run: (*App).inbox},
	"wipe":     {usage: "yes", run: (*App).wipe},
}

var (
	publicCommands = []string{"login", "wipe"}
	fileCommands   = []string{
		"ls", "tree", "cd", "pwd", "put", "get", "mkdir", "link", "mv", "rename", "tag", "describe",
		"trash", "restore", "purge", "bin", "sweep", "versions", "revert", "usage",
	}
	socialCommands = []string{"users", "msg", "inbox", "logout"}
)

func (a *App) dispatch(ctx context.Context, name string, args []string) error {
	c, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q, type 'help'", name)
	}
	if c.auth && !a.isLoggedIn() {
		return errNotLoggedIn
	}
	if len(args) < c.min {
		return fmt.Errorf("usage: %s %s", name, c.usage)
	}
	return c.run(a, ctx, args)
}

func (a *App) help() string {
	var b strings.Builder
	section := func(title string, names []string) {
		fmt.Fprintf(&b, "%s:\n", title)
		for _, n := range names {
			fmt.Fprintf(&b, "  %-9s %s\n", n, commands[n].usage)
		}
	}
	if a.isLoggedIn() {
		section("Files", fileCommands)
		section("People", socialCommands)
	}
	section("Session", publicCommands)
	b.WriteString("  exit\n")
	return b.String()
}
